package domain

import (
	"math"
	"sort"
)

// Stability scoring policy. Slopes come from index-based regression over the
// most recent window of yearly averages; each ramp is 0 at or below its
// lower threshold and saturates at 1 at the upper one.
const (
	stabilityWindowYears = 20

	tempSlopeNoPenalty  = 0.02 // °C/year
	tempSlopeMaxPenalty = 0.05

	precipRelSlopeNoPenalty  = 0.01 // fraction of mean level per year
	precipRelSlopeMaxPenalty = 0.03
	wettingPenaltyFactor     = 0.5

	stabilityTempWeight   = 0.6
	stabilityPrecipWeight = 0.4
)

// StabilityScore maps yearly averages to a 0-100 rating of how little the
// location's climate is trending over its recorded history. Only the last
// twenty usable years count; with none the score is 0.
func StabilityScore(years []YearlyRecord) int {
	years = lastUsableYears(years, stabilityWindowYears)
	if len(years) == 0 {
		return 0
	}

	tempPoints := indexedPoints(years, MetricTemperature)
	precipPoints := indexedPoints(years, MetricPrecip)

	tempSlope, _ := linearFit(tempPoints)
	precipSlope, _ := linearFit(precipPoints)

	tempPenalty := ramp(math.Abs(tempSlope), tempSlopeNoPenalty, tempSlopeMaxPenalty)
	precipPenalty := precipTrendPenalty(precipSlope, precipPoints)

	overall := stabilityTempWeight*tempPenalty + stabilityPrecipWeight*precipPenalty
	return clampScore(overall)
}

// StabilityScoreMonthly scores a monthly series by aggregating it to yearly
// averages first.
func StabilityScoreMonthly(series []MonthlyRecord) int {
	return StabilityScore(AggregateYearly(series))
}

// StabilityScoreFromPayload scores whatever series shape the caller hands
// over: typed yearly or monthly slices, or a JSON-decoded wrapper object
// ({"years": [...]} or {"monthly": {...}}). Anything else scores 0; an
// unsupported shape is a terminal case, not an error.
func StabilityScoreFromPayload(v any) int {
	switch in := v.(type) {
	case []YearlyRecord:
		return StabilityScore(in)
	case []MonthlyRecord:
		return StabilityScoreMonthly(in)
	case map[string]any:
		if years, ok := in["years"].([]any); ok {
			return StabilityScore(decodeYearlyRecords(years))
		}
		if monthly, ok := in["monthly"].(map[string]any); ok {
			return StabilityScore(AggregateYearlyFromMap(decodeMonthlyValues(monthly)))
		}
	}
	return 0
}

// lastUsableYears sorts ascending by year, drops years with no observations,
// and keeps at most n from the end.
func lastUsableYears(years []YearlyRecord, n int) []YearlyRecord {
	usable := make([]YearlyRecord, 0, len(years))
	for _, y := range years {
		if y.hasObservation() {
			usable = append(usable, y)
		}
	}
	sort.Slice(usable, func(i, j int) bool { return usable[i].Year < usable[j].Year })
	if len(usable) > n {
		usable = usable[len(usable)-n:]
	}
	return usable
}

// indexedPoints builds regression points with the zero-based position in the
// year sequence as x, skipping years where the metric is missing.
func indexedPoints(years []YearlyRecord, metric Metric) []regressionPoint {
	points := make([]regressionPoint, 0, len(years))
	for i, y := range years {
		if v := y.MetricValue(metric); v != nil {
			points = append(points, regressionPoint{x: float64(i), y: *v})
		}
	}
	return points
}

// precipTrendPenalty converts the slope to a fraction of the mean level so
// wet and dry climates are judged on the same scale; a non-positive mean
// yields no penalty rather than a division blowup. Drying trends carry full
// weight and wetting trends half; the larger of the two components wins.
func precipTrendPenalty(slope float64, points []regressionPoint) float64 {
	mean := meanY(points)
	if mean <= 0 {
		return 0
	}
	rel := slope / mean

	drying := ramp(math.Max(0, -rel), precipRelSlopeNoPenalty, precipRelSlopeMaxPenalty)
	wetting := wettingPenaltyFactor * ramp(math.Max(0, rel), precipRelSlopeNoPenalty, precipRelSlopeMaxPenalty)
	return math.Max(drying, wetting)
}

func meanY(points []regressionPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.y
	}
	return sum / float64(len(points))
}

// ramp maps v onto [0,1]: 0 at or below lo, 1 at or above hi, linear between.
func ramp(v, lo, hi float64) float64 {
	switch {
	case v <= lo:
		return 0
	case v >= hi:
		return 1
	default:
		return (v - lo) / (hi - lo)
	}
}

// decodeYearlyRecords converts JSON-decoded yearly objects, skipping entries
// that are not objects or lack a numeric year.
func decodeYearlyRecords(items []any) []YearlyRecord {
	out := make([]YearlyRecord, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		year := coerceValue(fields["year"])
		if year == nil {
			continue
		}
		out = append(out, YearlyRecord{
			Year:                   int(*year),
			AverageTemperatureC:    coerceValue(fields[string(MetricTemperature)]),
			AveragePrecipMM:        coerceValue(fields[string(MetricPrecip)]),
			AverageHumidityPercent: coerceValue(fields[string(MetricHumidity)]),
		})
	}
	return out
}

// decodeMonthlyValues converts a JSON-decoded month-keyed wrapper map.
func decodeMonthlyValues(monthly map[string]any) map[string]MonthlyValues {
	out := make(map[string]MonthlyValues, len(monthly))
	for key, item := range monthly {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out[key] = MonthlyValues{
			TemperatureC:    coerceValue(fields["temperature_c"]),
			PrecipMM:        coerceValue(fields["precip_mm"]),
			HumidityPercent: coerceValue(fields["humidity_percent"]),
		}
	}
	return out
}
