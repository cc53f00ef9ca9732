package geocode

import "context"

// Provider resolves a coordinate into a human-readable place name.
// Lookups are display-only enrichment: callers treat any error as
// "Unknown location" and carry on.
type Provider interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}
