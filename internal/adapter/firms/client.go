// Package firms counts recent satellite fire detections via the NASA FIRMS
// area API.
package firms

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecoshield/climate-insight/internal/domain"
	"github.com/ecoshield/climate-insight/internal/observability"
)

const (
	// defaultSource is the VIIRS near-real-time detection set.
	defaultSource = "VIIRS_SNPP_NRT"
	userAgent     = "EcoShield/1.0 (contact: ecoshield@example.com)"
)

// Client talks to the FIRMS area CSV endpoint.
type Client struct {
	baseURL    string
	mapKey     string
	source     string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a FIRMS client. An empty mapKey disables lookups; every
// call then fails with domain.ErrFireAuthorization.
func NewClient(baseURL, mapKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		mapKey:     mapKey,
		source:     defaultSource,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// RecentFireCount counts fire detections inside the bounding box over the
// trailing number of days.
func (c *Client) RecentFireCount(ctx context.Context, box domain.BBox, days int) (domain.FireCount, error) {
	if c.mapKey == "" {
		return domain.FireCount{}, fmt.Errorf("%w: no map key configured", domain.ErrFireAuthorization)
	}

	// Area is west,south,east,north.
	fullURL := fmt.Sprintf("%s/api/area/csv/%s/%s/%g,%g,%g,%g/%d",
		c.baseURL, c.mapKey, c.source, box.LonMin, box.LatMin, box.LonMax, box.LatMax, days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.FireCount{}, fmt.Errorf("create firms request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("firms").Observe(time.Since(started).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("firms", "error").Inc()
		return domain.FireCount{}, fmt.Errorf("firms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.metrics.UpstreamRequests.WithLabelValues("firms", "unauthorized").Inc()
		return domain.FireCount{}, fmt.Errorf("%w: status %d", domain.ErrFireAuthorization, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("firms", "error").Inc()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.FireCount{}, fmt.Errorf("firms status %d: %s", resp.StatusCode, payload)
	}

	count, err := countDataRows(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("firms", "error").Inc()
		return domain.FireCount{}, fmt.Errorf("parse firms response: %w", err)
	}

	c.metrics.UpstreamRequests.WithLabelValues("firms", "success").Inc()
	c.logger.Debug("counted fire detections", "count", count, "days", days)
	return domain.FireCount{Count: count, Days: days, Source: c.source}, nil
}

// countDataRows counts CSV records after the header line. An empty body, or
// a header with no data rows, counts as zero.
func countDataRows(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		rows++
	}
	if rows == 0 {
		return 0, nil
	}
	return rows - 1, nil
}
