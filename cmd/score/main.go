// Command score runs the scoring core against a saved NASA POWER monthly
// payload, printing the normalized series, yearly aggregates, scores, and
// trend projections as JSON. Useful for inspecting how a particular provider
// payload scores without standing up the full service.
//
// Usage:
//
//	go run ./cmd/score -payload testdata/nairobi.json
//	curl -s "https://power.larc.nasa.gov/api/temporal/monthly/point?..." | go run ./cmd/score -payload -
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ecoshield/climate-insight/internal/domain"
)

type report struct {
	Series           []domain.MonthlyRecord             `json:"series"`
	SuitabilityScore int                                `json:"suitability_score"`
	Years            []domain.YearlyRecord              `json:"years"`
	StabilityScore   int                                `json:"stability_score"`
	Projections      map[string][]domain.ProjectedPoint `json:"projections"`
}

func main() {
	payloadPath := flag.String("payload", "", "path to a POWER monthly JSON payload, or - for stdin")
	targetYear := flag.Int("target-year", 2035, "year to project trends to")
	flag.Parse()

	if *payloadPath == "" {
		fmt.Fprintln(os.Stderr, "usage: score -payload FILE [-target-year YEAR]")
		os.Exit(2)
	}

	payload, err := readPayload(*payloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read payload: %v\n", err)
		os.Exit(1)
	}

	series, err := domain.NormalizeMonthlySeries(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "normalize payload: %v\n", err)
		os.Exit(1)
	}

	years := domain.AggregateYearly(series)
	out := report{
		Series:           series,
		SuitabilityScore: domain.SuitabilityScore(series),
		Years:            years,
		StabilityScore:   domain.StabilityScore(years),
		Projections: map[string][]domain.ProjectedPoint{
			"temperature_c": domain.ProjectTrendTo(years, domain.MetricTemperature, *targetYear),
			"precip_mm":     domain.ProjectTrendTo(years, domain.MetricPrecip, *targetYear),
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
		os.Exit(1)
	}
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
