package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuitabilityScore_EmptySeries(t *testing.T) {
	assert.Equal(t, 0, SuitabilityScore(nil))
	assert.Equal(t, 0, SuitabilityScore([]MonthlyRecord{}))
}

func TestSuitabilityScore_IdealClimate(t *testing.T) {
	series := []MonthlyRecord{
		{Date: "2020-01", TemperatureC: fp(20), PrecipMM: fp(80), HumidityPercent: fp(45)},
		{Date: "2020-02", TemperatureC: fp(20), PrecipMM: fp(150), HumidityPercent: fp(30)},
		{Date: "2020-03", TemperatureC: fp(20), PrecipMM: fp(40), HumidityPercent: fp(60)},
	}
	assert.Equal(t, 100, SuitabilityScore(series))
}

func TestSuitabilityScore_NairobiScenario(t *testing.T) {
	// Temp penalties 0 and |22-20|/15; precip and humidity in range. Weighted
	// penalty 0.4 * (0.1333/2) ≈ 0.0267, score round(97.33) = 97.
	series := []MonthlyRecord{
		{Date: "2020-01", TemperatureC: fp(20), PrecipMM: fp(80), HumidityPercent: fp(50)},
		{Date: "2020-02", TemperatureC: fp(22), PrecipMM: fp(60), HumidityPercent: fp(55)},
	}
	assert.Equal(t, 97, SuitabilityScore(series))
}

func TestSuitabilityScore_MonotonicInDeviation(t *testing.T) {
	tests := []struct {
		name   string
		record func(deviation float64) MonthlyRecord
	}{
		{"temperature above center", func(d float64) MonthlyRecord {
			return MonthlyRecord{Date: "2020-01", TemperatureC: fp(20 + d), PrecipMM: fp(80), HumidityPercent: fp(50)}
		}},
		{"precipitation below range", func(d float64) MonthlyRecord {
			return MonthlyRecord{Date: "2020-01", TemperatureC: fp(20), PrecipMM: fp(40 - d), HumidityPercent: fp(50)}
		}},
		{"humidity above range", func(d float64) MonthlyRecord {
			return MonthlyRecord{Date: "2020-01", TemperatureC: fp(20), PrecipMM: fp(80), HumidityPercent: fp(60 + d)}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := 101
			for _, deviation := range []float64{0, 2, 5, 10, 20, 40} {
				score := SuitabilityScore([]MonthlyRecord{tt.record(deviation)})
				assert.LessOrEqual(t, score, prev, "deviation %v", deviation)
				prev = score
			}
		})
	}
}

func TestSuitabilityScore_MissingMetricIsMaxPenalty(t *testing.T) {
	// A metric with no observations at all counts as fully unsuitable, so a
	// series with only perfect temperatures still loses the precip and
	// humidity weights: 1 - (0.3 + 0.3) = 0.4.
	series := []MonthlyRecord{
		{Date: "2020-01", TemperatureC: fp(20)},
		{Date: "2020-02", TemperatureC: fp(20)},
	}
	assert.Equal(t, 40, SuitabilityScore(series))
}

func TestSuitabilityScore_ClampsAtZero(t *testing.T) {
	series := []MonthlyRecord{
		{Date: "2020-01", TemperatureC: fp(60), PrecipMM: fp(600), HumidityPercent: fp(100)},
	}
	assert.Equal(t, 0, SuitabilityScore(series))
}

func TestRangePenalty(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"inside range", 100, 0},
		{"at lower bound", 40, 0},
		{"at upper bound", 150, 0},
		{"below range", 25, 0.1},
		{"above range", 165, 0.1},
		{"saturated below", -200, 1},
		{"saturated above", 500, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			penalty := rangePenalty(tt.value, idealPrecipLowMM, idealPrecipHighMM, precipPenaltySpan)
			assert.InDelta(t, tt.expected, penalty, 1e-9)
		})
	}
}

func TestCenterPenalty(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"at center", 20, 0},
		{"above center", 23, 0.2},
		{"below center", 17, 0.2},
		{"at saturation low", 5, 1},
		{"at saturation high", 35, 1},
		{"beyond saturation", 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			penalty := centerPenalty(tt.value, comfortTempC, comfortTempHalfSpan)
			assert.InDelta(t, tt.expected, penalty, 1e-9)
		})
	}
}
