package domain

import (
	"context"
	"errors"
)

// ErrNoGeocodeResults indicates the provider found nothing for the query.
// The service layer surfaces it as a 404 rather than an upstream failure.
var ErrNoGeocodeResults = errors.New("no results for query")

// GeocodeResult is a resolved place from the geocoding provider.
type GeocodeResult struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// Geocoder resolves free-text place queries to coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) (GeocodeResult, error)
}
