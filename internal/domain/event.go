package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// AssessmentKind distinguishes the two score types published downstream.
type AssessmentKind string

const (
	AssessmentSuitability AssessmentKind = "suitability"
	AssessmentStability   AssessmentKind = "stability"
)

// AssessmentEvent records one computed score for a location and period. When
// event publishing is enabled, each scoring request emits one of these to
// the sink topic.
type AssessmentEvent struct {
	ID          string         `json:"id"`
	Kind        AssessmentKind `json:"kind"`
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
	PeriodStart string         `json:"period_start,omitempty"`
	PeriodEnd   string         `json:"period_end,omitempty"`
	Score       int            `json:"score"`
	Records     int            `json:"records"`
	ComputedAt  time.Time      `json:"computed_at"`
}

// NewAssessmentEvent stamps the event with the package clock and a
// deterministic ID, so replaying the same computation produces the same key
// and downstream consumers can dedupe.
func NewAssessmentEvent(kind AssessmentKind, lat, lon float64, periodStart, periodEnd string, score, records int) AssessmentEvent {
	return AssessmentEvent{
		ID:          assessmentID(kind, lat, lon, periodStart, periodEnd),
		Kind:        kind,
		Lat:         lat,
		Lon:         lon,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Score:       score,
		Records:     records,
		ComputedAt:  clock.Now().UTC(),
	}
}

// assessmentID hashes the event's key fields into a short stable identifier.
func assessmentID(kind AssessmentKind, lat, lon float64, periodStart, periodEnd string) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%s|%s", kind, lat, lon, periodStart, periodEnd)
	hash := sha256.Sum256([]byte(input))
	return string(kind) + "-" + hex.EncodeToString(hash[:8])
}
