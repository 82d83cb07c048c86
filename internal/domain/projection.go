package domain

// ProjectTrendTo extends a yearly series for one metric to targetYear using
// linear extrapolation. Regression runs over calendar years rather than
// sequence indices, so gaps in the record weight the fit correctly. The
// result is empty when there is nothing to project: no observations for the
// metric, or a target year at or before the last observed one.
func ProjectTrendTo(years []YearlyRecord, metric Metric, targetYear int) []ProjectedPoint {
	points := make([]regressionPoint, 0, len(years))
	lastYear := 0
	for _, y := range years {
		v := y.MetricValue(metric)
		if v == nil {
			continue
		}
		points = append(points, regressionPoint{x: float64(y.Year), y: *v})
		if y.Year > lastYear {
			lastYear = y.Year
		}
	}
	if len(points) == 0 || targetYear <= lastYear {
		return []ProjectedPoint{}
	}

	slope, intercept := linearFit(points)

	out := make([]ProjectedPoint, 0, targetYear-lastYear)
	for year := lastYear + 1; year <= targetYear; year++ {
		value := intercept + slope*float64(year)
		if metric.NonNegative() && value < 0 {
			value = 0
		}
		out = append(out, ProjectedPoint{Year: year, Value: value})
	}
	return out
}
