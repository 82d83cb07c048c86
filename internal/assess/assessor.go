// Package assess composes the upstream providers with the domain scoring
// core and exposes the operations the API serves.
package assess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ecoshield/climate-insight/internal/domain"
	"github.com/ecoshield/climate-insight/internal/observability"
)

// minProjectionYear is the earliest horizon trends are projected to, even
// when the requested window ends sooner.
const minProjectionYear = 2035

// ClimateFetcher retrieves a normalized monthly series from the climate
// provider. start and end are YYYYMM strings; empty values select the
// provider's default window.
type ClimateFetcher interface {
	MonthlyHistory(ctx context.Context, lat, lon float64, start, end string) ([]domain.MonthlyRecord, error)
}

// EventPublisher emits assessment events to downstream consumers.
type EventPublisher interface {
	PublishAssessments(ctx context.Context, events []domain.AssessmentEvent) error
}

// Location is a WGS-84 point echoed back in responses.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Period is the observed span of a monthly series, in YYYY-MM labels.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// HistoryResult is the monthly series and suitability assessment for a point.
type HistoryResult struct {
	Location         Location               `json:"location"`
	Period           Period                 `json:"period"`
	Series           []domain.MonthlyRecord `json:"series"`
	SuitabilityScore int                    `json:"suitability_score"`
}

// Projections holds the projected yearly trend lines.
type Projections struct {
	TemperatureC []domain.ProjectedPoint `json:"temperature_c"`
	PrecipMM     []domain.ProjectedPoint `json:"precip_mm"`
}

// OutlookResult is the yearly aggregation, stability assessment, and trend
// projections for a point.
type OutlookResult struct {
	Location       Location              `json:"location"`
	Years          []domain.YearlyRecord `json:"years"`
	StabilityScore int                   `json:"stability_score"`
	Projections    Projections           `json:"projections"`
}

// Assessor wires providers into the scoring operations. The publisher is
// optional; when nil, assessment events are not emitted.
type Assessor struct {
	climate   ClimateFetcher
	geocoder  domain.Geocoder
	fires     domain.FireDetector
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready atomic.Bool
}

// New creates an Assessor.
func New(climate ClimateFetcher, geocoder domain.Geocoder, fires domain.FireDetector,
	publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Assessor {
	return &Assessor{
		climate:   climate,
		geocoder:  geocoder,
		fires:     fires,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether at least one upstream fetch has succeeded.
func (a *Assessor) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no successful upstream fetch yet")
	}
	return nil
}

// Geocode resolves a free-form place query to coordinates.
func (a *Assessor) Geocode(ctx context.Context, query string) (domain.GeocodeResult, error) {
	result, err := a.geocoder.Search(ctx, query)
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	a.ready.Store(true)
	return result, nil
}

// ClimateHistory fetches the monthly series for a point and scores its
// habitability. start and end are YYYY-MM labels; empty values select the
// default trailing window.
func (a *Assessor) ClimateHistory(ctx context.Context, lat, lon float64, start, end string) (HistoryResult, error) {
	series, err := a.climate.MonthlyHistory(ctx, lat, lon, monthParam(start), monthParam(end))
	if err != nil {
		return HistoryResult{}, fmt.Errorf("fetch climate history: %w", err)
	}
	a.ready.Store(true)

	period := Period{Start: start, End: end}
	if len(series) > 0 {
		period.Start = series[0].Date
		period.End = series[len(series)-1].Date
	}

	score := domain.SuitabilityScore(series)
	a.observeScore(domain.AssessmentSuitability, score)

	event := domain.NewAssessmentEvent(domain.AssessmentSuitability, lat, lon,
		period.Start, period.End, score, len(series))
	a.publish(ctx, event)

	return HistoryResult{
		Location:         Location{Lat: lat, Lon: lon},
		Period:           period,
		Series:           series,
		SuitabilityScore: score,
	}, nil
}

// ClimateOutlook fetches the monthly series for a year range, aggregates it
// yearly, scores climatic stability, and projects temperature and
// precipitation trends to at least minProjectionYear.
func (a *Assessor) ClimateOutlook(ctx context.Context, lat, lon float64, startYear, endYear int) (OutlookResult, error) {
	start := fmt.Sprintf("%04d01", startYear)
	end := fmt.Sprintf("%04d12", endYear)

	series, err := a.climate.MonthlyHistory(ctx, lat, lon, start, end)
	if err != nil {
		return OutlookResult{}, fmt.Errorf("fetch climate outlook: %w", err)
	}
	a.ready.Store(true)

	years := domain.AggregateYearly(series)
	score := domain.StabilityScore(years)
	a.observeScore(domain.AssessmentStability, score)

	targetYear := endYear
	if targetYear < minProjectionYear {
		targetYear = minProjectionYear
	}

	periodStart, periodEnd := "", ""
	if len(series) > 0 {
		periodStart = series[0].Date
		periodEnd = series[len(series)-1].Date
	}
	event := domain.NewAssessmentEvent(domain.AssessmentStability, lat, lon,
		periodStart, periodEnd, score, len(series))
	a.publish(ctx, event)

	return OutlookResult{
		Location:       Location{Lat: lat, Lon: lon},
		Years:          years,
		StabilityScore: score,
		Projections: Projections{
			TemperatureC: domain.ProjectTrendTo(years, domain.MetricTemperature, targetYear),
			PrecipMM:     domain.ProjectTrendTo(years, domain.MetricPrecip, targetYear),
		},
	}, nil
}

// FireActivity counts recent fire detections inside a bounding box.
func (a *Assessor) FireActivity(ctx context.Context, box domain.BBox, days int) (domain.FireCount, error) {
	result, err := a.fires.RecentFireCount(ctx, box, days)
	if err != nil {
		return domain.FireCount{}, err
	}
	a.ready.Store(true)
	return result, nil
}

func (a *Assessor) observeScore(kind domain.AssessmentKind, score int) {
	a.metrics.AssessmentsComputed.WithLabelValues(string(kind)).Inc()
	a.metrics.ScoreDistribution.WithLabelValues(string(kind)).Observe(float64(score))
}

// publish emits the assessment event best-effort. Publishing failures are
// logged and counted but never fail the request.
func (a *Assessor) publish(ctx context.Context, event domain.AssessmentEvent) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishAssessments(ctx, []domain.AssessmentEvent{event}); err != nil {
		a.metrics.PublishErrors.Inc()
		a.logger.Warn("failed to publish assessment event", "event_id", event.ID, "error", err)
		return
	}
	a.metrics.EventsPublished.Inc()
}

// monthParam converts a YYYY-MM label to the provider's YYYYMM form,
// passing empty values through.
func monthParam(label string) string {
	return strings.ReplaceAll(label, "-", "")
}
