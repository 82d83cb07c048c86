// Package power fetches monthly climate series from the NASA POWER API and
// hands the raw payload to the domain normalizer.
package power

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ecoshield/climate-insight/internal/domain"
	"github.com/ecoshield/climate-insight/internal/observability"
)

const (
	monthlyPointPath = "/api/temporal/monthly/point"
	requestedParams  = "T2M,PRECTOTCORR,RH2M"
	userAgent        = "EcoShield/1.0 (contact: ecoshield@example.com)"
)

// Client talks to the NASA POWER temporal monthly endpoint.
type Client struct {
	baseURL    string
	community  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger

	// maxRetryElapsed caps the total time spent retrying transient
	// failures. Shortened in tests.
	maxRetryElapsed time.Duration
}

// NewClient creates a POWER client. baseURL has no trailing slash.
func NewClient(baseURL, community string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:         baseURL,
		community:       community,
		httpClient:      &http.Client{Timeout: timeout},
		metrics:         metrics,
		logger:          logger,
		maxRetryElapsed: 30 * time.Second,
	}
}

// MonthlyHistory fetches and normalizes the monthly series for a point.
// start and end are YYYYMM strings; empty values fall back to the default
// trailing window.
func (c *Client) MonthlyHistory(ctx context.Context, lat, lon float64, start, end string) ([]domain.MonthlyRecord, error) {
	if start == "" || end == "" {
		defStart, defEnd := domain.DefaultMonthlyWindow()
		if start == "" {
			start = defStart
		}
		if end == "" {
			end = defEnd
		}
	}

	params := url.Values{
		"parameters": {requestedParams},
		"community":  {c.community},
		"latitude":   {formatCoord(lat)},
		"longitude":  {formatCoord(lon)},
		"start":      {start},
		"end":        {end},
		"format":     {"JSON"},
	}
	fullURL := c.baseURL + monthlyPointPath + "?" + params.Encode()

	started := time.Now()
	body, err := c.fetchWithRetry(ctx, fullURL)
	c.metrics.UpstreamDuration.WithLabelValues("power").Observe(time.Since(started).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("power", "error").Inc()
		return nil, err
	}

	series, err := domain.NormalizeMonthlySeries(body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("power", "error").Inc()
		return nil, err
	}
	if len(series) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues("power", "empty").Inc()
		c.logger.Warn("power returned no usable monthly records",
			"lat", lat, "lon", lon, "start", start, "end", end)
		return series, nil
	}

	c.metrics.UpstreamRequests.WithLabelValues("power", "success").Inc()
	c.logger.Debug("fetched power monthly series",
		"lat", lat, "lon", lon, "start", start, "end", end, "months", len(series))
	return series, nil
}

// fetchWithRetry GETs the URL with capped exponential backoff. Network
// errors and 5xx responses are retried; any other non-200 status is
// permanent.
func (c *Client) fetchWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create power request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("power request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("power API status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("power API status %d: %s", resp.StatusCode, payload))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read power response: %w", err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = c.maxRetryElapsed

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
