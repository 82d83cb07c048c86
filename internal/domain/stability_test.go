package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// yearlyTrend builds n years starting at startYear, with temperature and
// precipitation changing linearly from their base values.
func yearlyTrend(startYear, n int, baseTemp, tempStep, basePrecip, precipStep float64) []YearlyRecord {
	years := make([]YearlyRecord, 0, n)
	for i := 0; i < n; i++ {
		years = append(years, YearlyRecord{
			Year:                startYear + i,
			AverageTemperatureC: fp(baseTemp + tempStep*float64(i)),
			AveragePrecipMM:     fp(basePrecip + precipStep*float64(i)),
		})
	}
	return years
}

func TestStabilityScore_EmptyInput(t *testing.T) {
	assert.Equal(t, 0, StabilityScore(nil))
	assert.Equal(t, 0, StabilityScore([]YearlyRecord{}))
}

func TestStabilityScore_FlatClimate(t *testing.T) {
	years := yearlyTrend(2005, 20, 18.0, 0, 90.0, 0)
	assert.Equal(t, 100, StabilityScore(years))
}

func TestStabilityScore_ModerateWarming(t *testing.T) {
	// +0.03 °C/year sits a third of the way up the 0.02 to 0.05 ramp, so the
	// temperature penalty is 1/3 and the overall penalty 0.6 * 1/3 = 0.2.
	years := yearlyTrend(2015, 10, 15.0, 0.03, 100.0, 0)
	assert.Equal(t, 80, StabilityScore(years))
}

func TestStabilityScore_StrongWarming(t *testing.T) {
	// +0.06 °C/year saturates the temperature ramp.
	years := yearlyTrend(2015, 10, 15.0, 0.06, 100.0, 0)
	assert.Equal(t, 40, StabilityScore(years))
}

func TestStabilityScore_DryingTrend(t *testing.T) {
	// -3 mm/year against a mean of 86.5 is a relative slope of about -0.035,
	// beyond the 0.03 saturation point: full precipitation penalty.
	years := yearlyTrend(2015, 10, 15.0, 0, 100.0, -3)
	assert.Equal(t, 60, StabilityScore(years))
}

func TestStabilityScore_WettingTrendHalfStrength(t *testing.T) {
	// The same relative slope magnitude in the wetting direction carries
	// half the penalty of drying.
	drying := StabilityScore(yearlyTrend(2015, 10, 15.0, 0, 100.0, -3))
	wetting := StabilityScore(yearlyTrend(2015, 10, 15.0, 0, 73.0, 3))

	assert.Equal(t, 60, drying)
	assert.Equal(t, 80, wetting)
}

func TestStabilityScore_ZeroMeanPrecipNoPenalty(t *testing.T) {
	years := make([]YearlyRecord, 0, 5)
	for i := 0; i < 5; i++ {
		years = append(years, YearlyRecord{
			Year:                2020 + i,
			AverageTemperatureC: fp(18),
			AveragePrecipMM:     fp(0),
		})
	}
	assert.Equal(t, 100, StabilityScore(years))
}

func TestStabilityScore_KeepsLastTwentyYears(t *testing.T) {
	// A wildly unstable first decade followed by twenty flat years: only the
	// window counts.
	early := yearlyTrend(1990, 10, 5.0, 2.0, 100.0, 0)
	recent := yearlyTrend(2000, 20, 20.0, 0, 100.0, 0)
	assert.Equal(t, 100, StabilityScore(append(early, recent...)))
}

func TestStabilityScore_SkipsYearsWithoutData(t *testing.T) {
	years := []YearlyRecord{
		{Year: 2018},
		{Year: 2019, AverageTemperatureC: fp(15)},
		{Year: 2020, AverageTemperatureC: fp(15)},
		{Year: 2021, AverageTemperatureC: fp(15)},
	}
	assert.Equal(t, 100, StabilityScore(years))
}

func TestStabilityScoreMonthly(t *testing.T) {
	series := []MonthlyRecord{
		{Date: "2019-01", TemperatureC: fp(15), PrecipMM: fp(100)},
		{Date: "2019-07", TemperatureC: fp(15), PrecipMM: fp(100)},
		{Date: "2020-01", TemperatureC: fp(15), PrecipMM: fp(100)},
		{Date: "2020-07", TemperatureC: fp(15), PrecipMM: fp(100)},
	}
	assert.Equal(t, 100, StabilityScoreMonthly(series))
	assert.Equal(t, 0, StabilityScoreMonthly(nil))
}

func TestStabilityScoreFromPayload(t *testing.T) {
	t.Run("typed yearly slice", func(t *testing.T) {
		years := yearlyTrend(2015, 10, 15.0, 0.03, 100.0, 0)
		assert.Equal(t, 80, StabilityScoreFromPayload(years))
	})

	t.Run("typed monthly slice", func(t *testing.T) {
		series := []MonthlyRecord{
			{Date: "2019-01", TemperatureC: fp(15)},
			{Date: "2020-01", TemperatureC: fp(15)},
		}
		assert.Equal(t, 100, StabilityScoreFromPayload(series))
	})

	t.Run("yearly wrapper from JSON", func(t *testing.T) {
		doc := `{"years":[
			{"year":2019,"average_temperature_c":15.0,"average_precip_mm":100.0},
			{"year":2020,"average_temperature_c":15.0,"average_precip_mm":100.0}
		]}`
		var v any
		require.NoError(t, json.Unmarshal([]byte(doc), &v))
		assert.Equal(t, 100, StabilityScoreFromPayload(v))
	})

	t.Run("monthly wrapper from JSON", func(t *testing.T) {
		doc := `{"monthly":{
			"201901":{"temperature_c":15.0,"precip_mm":100.0},
			"202001":{"temperature_c":15.0,"precip_mm":100.0}
		}}`
		var v any
		require.NoError(t, json.Unmarshal([]byte(doc), &v))
		assert.Equal(t, 100, StabilityScoreFromPayload(v))
	})

	t.Run("unsupported shapes score zero", func(t *testing.T) {
		for _, v := range []any{nil, "series", 42, []int{1, 2}, map[string]any{"data": []any{}}} {
			assert.Equal(t, 0, StabilityScoreFromPayload(v))
		}
	})
}

func TestRamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{"below threshold", 0.01, 0},
		{"at lower threshold", 0.02, 0},
		{"midway", 0.035, 0.5},
		{"at upper threshold", 0.05, 1},
		{"beyond upper threshold", 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ramp(tt.v, tempSlopeNoPenalty, tempSlopeMaxPenalty), 1e-9)
		})
	}
}
