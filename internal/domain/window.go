package domain

import "fmt"

// defaultWindowYears is how far back the default fetch window reaches.
const defaultWindowYears = 20

// DefaultMonthlyWindow returns the YYYYMM bounds of the default fetch range:
// January twenty years before the current year through the current month.
func DefaultMonthlyWindow() (start, end string) {
	now := clock.Now().UTC()
	start = fmt.Sprintf("%04d01", now.Year()-defaultWindowYears)
	end = fmt.Sprintf("%04d%02d", now.Year(), int(now.Month()))
	return start, end
}
