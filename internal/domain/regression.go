package domain

import "gonum.org/v1/gonum/stat"

// regressionPoint is one (x, y) observation for ordinary least squares.
// Scoring uses zero-based sequence indices for x; projection uses calendar
// years. Points with missing y values are excluded before they get here.
type regressionPoint struct {
	x, y float64
}

// linearFit computes the OLS slope and intercept of the best-fit line.
// Degenerate inputs are valid, not errors: fewer than two points fit a flat
// line through the single value (or zero when empty), and zero variance in x
// fits a flat line through the mean of y.
func linearFit(points []regressionPoint) (slope, intercept float64) {
	switch len(points) {
	case 0:
		return 0, 0
	case 1:
		return 0, points[0].y
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	sameX := true
	for i, p := range points {
		xs[i] = p.x
		ys[i] = p.y
		if p.x != points[0].x {
			sameX = false
		}
	}
	if sameX {
		return 0, stat.Mean(ys, nil)
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}
