// Package nominatim implements place search against the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ecoshield/climate-insight/internal/domain"
	"github.com/ecoshield/climate-insight/internal/observability"
)

const userAgent = "EcoShield/1.0 (contact: ecoshield@example.com)"

// Client is a forward geocoder backed by the Nominatim search endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. baseURL has no trailing slash.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

type searchPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search resolves a free-form place query to coordinates. It returns
// domain.ErrNoGeocodeResults when the query matches nothing.
func (c *Client) Search(ctx context.Context, query string) (domain.GeocodeResult, error) {
	params := url.Values{
		"format": {"jsonv2"},
		"q":      {query},
		"limit":  {"1"},
	}
	fullURL := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("nominatim").Observe(time.Since(started).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeocodeResult{}, fmt.Errorf("nominatim status %d: %s", resp.StatusCode, payload)
	}

	var places []searchPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("decode nominatim response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "empty").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("%w: %q", domain.ErrNoGeocodeResults, query)
	}

	// Nominatim serializes coordinates as strings.
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("parse nominatim latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("parse nominatim longitude %q: %w", places[0].Lon, err)
	}

	label := places[0].DisplayName
	if label == "" {
		label = query
	}

	c.metrics.UpstreamRequests.WithLabelValues("nominatim", "success").Inc()
	c.logger.Debug("geocoded query", "query", query, "label", label)
	return domain.GeocodeResult{Lat: lat, Lon: lon, Label: label}, nil
}
