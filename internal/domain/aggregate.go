package domain

import (
	"sort"
	"strconv"
)

// AggregateYearly reduces a monthly record sequence into yearly averages,
// one record per distinct year, sorted ascending. Each metric is averaged
// independently over only the months where it is present; a year is included
// as long as at least one metric has at least one observation.
func AggregateYearly(records []MonthlyRecord) []YearlyRecord {
	type sums struct {
		temp, precip, humidity    float64
		tempN, precipN, humidityN int
	}

	byYear := make(map[int]*sums)
	for _, rec := range records {
		year, ok := recordYear(rec.Date)
		if !ok {
			continue
		}
		s := byYear[year]
		if s == nil {
			s = &sums{}
			byYear[year] = s
		}
		if rec.TemperatureC != nil {
			s.temp += *rec.TemperatureC
			s.tempN++
		}
		if rec.PrecipMM != nil {
			s.precip += *rec.PrecipMM
			s.precipN++
		}
		if rec.HumidityPercent != nil {
			s.humidity += *rec.HumidityPercent
			s.humidityN++
		}
	}

	years := make([]int, 0, len(byYear))
	for year, s := range byYear {
		if s.tempN+s.precipN+s.humidityN == 0 {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)

	out := make([]YearlyRecord, 0, len(years))
	for _, year := range years {
		s := byYear[year]
		out = append(out, YearlyRecord{
			Year:                   year,
			AverageTemperatureC:    meanOf(s.temp, s.tempN),
			AveragePrecipMM:        meanOf(s.precip, s.precipN),
			AverageHumidityPercent: meanOf(s.humidity, s.humidityN),
		})
	}
	return out
}

// AggregateYearlyFromMap accepts the alternative input shape where months
// are map keys (YYYYMM or YYYYMMDD) rather than embedded dates. Keys that do
// not parse as months are skipped.
func AggregateYearlyFromMap(monthly map[string]MonthlyValues) []YearlyRecord {
	records := make([]MonthlyRecord, 0, len(monthly))
	for key, values := range monthly {
		label, ok := monthLabel(key)
		if !ok {
			continue
		}
		records = append(records, MonthlyRecord{
			Date:            label,
			TemperatureC:    values.TemperatureC,
			PrecipMM:        values.PrecipMM,
			HumidityPercent: values.HumidityPercent,
		})
	}
	return AggregateYearly(records)
}

func meanOf(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func recordYear(label string) (int, bool) {
	if len(label) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
