package domain

import "context"

// GeocodingResult contains the coordinates returned by a geocoding provider.
// A zero Lat/Lon pair means the provider found nothing.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Confidence  float64 // 0.0–1.0 provider confidence score
}

// Found reports whether the provider returned coordinates.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lon != 0
}

// GeoResolver looks up coordinates for a place name.
type GeoResolver interface {
	Resolve(ctx context.Context, searchTerm string) (GeocodingResult, error)
}
