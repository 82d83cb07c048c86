package domain

// Metric identifies one of the yearly-average climate metrics.
type Metric string

const (
	MetricTemperature Metric = "average_temperature_c"
	MetricPrecip      Metric = "average_precip_mm"
	MetricHumidity    Metric = "average_humidity_percent"
)

// NonNegative reports whether the metric is a physically non-negative
// quantity. Projections for such metrics are floored at zero; temperature
// may legitimately extrapolate below it.
func (m Metric) NonNegative() bool {
	return m == MetricPrecip || m == MetricHumidity
}

// MonthlyRecord is one month of normalized climate observations.
// A nil metric means the provider had no usable value for that month.
type MonthlyRecord struct {
	Date            string   `json:"date"` // canonical month label "YYYY-MM"
	TemperatureC    *float64 `json:"temperature_c"`
	PrecipMM        *float64 `json:"precip_mm"`
	HumidityPercent *float64 `json:"humidity_percent"`
}

// MonthlyValues holds one month's metric values in the map-keyed input shape
// accepted by AggregateYearlyFromMap, where the month lives in the map key.
type MonthlyValues struct {
	TemperatureC    *float64 `json:"temperature_c"`
	PrecipMM        *float64 `json:"precip_mm"`
	HumidityPercent *float64 `json:"humidity_percent"`
}

// YearlyRecord holds per-metric arithmetic means over the non-nil monthly
// values of one year. A metric with zero observations stays nil, never zero.
type YearlyRecord struct {
	Year                   int      `json:"year"`
	AverageTemperatureC    *float64 `json:"average_temperature_c"`
	AveragePrecipMM        *float64 `json:"average_precip_mm"`
	AverageHumidityPercent *float64 `json:"average_humidity_percent"`
}

// MetricValue returns the named metric's value, or nil when missing or the
// metric is unknown.
func (r YearlyRecord) MetricValue(m Metric) *float64 {
	switch m {
	case MetricTemperature:
		return r.AverageTemperatureC
	case MetricPrecip:
		return r.AveragePrecipMM
	case MetricHumidity:
		return r.AverageHumidityPercent
	default:
		return nil
	}
}

// hasObservation reports whether at least one metric is present.
func (r YearlyRecord) hasObservation() bool {
	return r.AverageTemperatureC != nil || r.AveragePrecipMM != nil || r.AverageHumidityPercent != nil
}

// ProjectedPoint is a single extrapolated value for a future year.
type ProjectedPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}
