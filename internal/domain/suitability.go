package domain

import "math"

// Suitability scoring policy. Penalties scale linearly with distance from
// the comfort band and saturate at 1 one half-span beyond it.
const (
	comfortTempC        = 20.0
	comfortTempHalfSpan = 15.0 // full penalty at <=5 or >=35 °C

	idealPrecipLowMM  = 40.0
	idealPrecipHighMM = 150.0
	precipPenaltySpan = 150.0 // half of the 300mm full span

	idealHumidityLowPct  = 30.0
	idealHumidityHighPct = 60.0
	humidityPenaltySpan  = 50.0 // half of the 100-point full span

	suitabilityTempWeight     = 0.4
	suitabilityPrecipWeight   = 0.3
	suitabilityHumidityWeight = 0.3
)

// SuitabilityScore maps a monthly series to a 0-100 rating of how
// climatically favorable the location's averages are. An empty series scores
// 0. A metric with zero observations across the whole series contributes its
// full weight as penalty: no data counts against suitability, not for it.
func SuitabilityScore(series []MonthlyRecord) int {
	if len(series) == 0 {
		return 0
	}

	var temp, precip, humidity penaltyAccumulator
	for _, rec := range series {
		if rec.TemperatureC != nil {
			temp.add(centerPenalty(*rec.TemperatureC, comfortTempC, comfortTempHalfSpan))
		}
		if rec.PrecipMM != nil {
			precip.add(rangePenalty(*rec.PrecipMM, idealPrecipLowMM, idealPrecipHighMM, precipPenaltySpan))
		}
		if rec.HumidityPercent != nil {
			humidity.add(rangePenalty(*rec.HumidityPercent, idealHumidityLowPct, idealHumidityHighPct, humidityPenaltySpan))
		}
	}

	weighted := suitabilityTempWeight*temp.mean() +
		suitabilityPrecipWeight*precip.mean() +
		suitabilityHumidityWeight*humidity.mean()
	return clampScore(weighted)
}

// penaltyAccumulator averages penalties over observed values only. With zero
// observations the mean penalty is the maximal 1.
type penaltyAccumulator struct {
	sum float64
	n   int
}

func (a *penaltyAccumulator) add(p float64) {
	a.sum += p
	a.n++
}

func (a *penaltyAccumulator) mean() float64 {
	if a.n == 0 {
		return 1
	}
	return a.sum / float64(a.n)
}

// centerPenalty scales absolute distance from center onto [0,1] over halfSpan.
func centerPenalty(value, center, halfSpan float64) float64 {
	return math.Min(1, math.Abs(value-center)/halfSpan)
}

// rangePenalty is 0 inside [low, high] and grows linearly with distance from
// the nearest bound, reaching 1 at span beyond it.
func rangePenalty(value, low, high, span float64) float64 {
	switch {
	case value < low:
		return math.Min(1, (low-value)/span)
	case value > high:
		return math.Min(1, (value-high)/span)
	default:
		return 0
	}
}

// clampScore converts a weighted penalty into the final 0-100 integer score.
func clampScore(penalty float64) int {
	score := int(math.Round(100 * math.Max(0, 1-penalty)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
