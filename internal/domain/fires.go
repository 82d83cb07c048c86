package domain

import (
	"context"
	"errors"
)

// ErrFireAuthorization is returned when the fire-detection provider rejects
// the configured map key, or when no key is configured at all.
var ErrFireAuthorization = errors.New("fire data provider authorization failed")

// BBox is a geographic bounding box in WGS-84 degrees.
type BBox struct {
	LatMin float64 `json:"lat_min"`
	LonMin float64 `json:"lon_min"`
	LatMax float64 `json:"lat_max"`
	LonMax float64 `json:"lon_max"`
}

// FireCount summarizes recent fire detections inside a bounding box.
type FireCount struct {
	Count  int    `json:"count"`
	Days   int    `json:"days"`
	Source string `json:"source"`
}

// FireDetector counts recent fire detections reported by an external
// satellite fire-detection service.
type FireDetector interface {
	RecentFireCount(ctx context.Context, box BBox, days int) (FireCount, error)
}
