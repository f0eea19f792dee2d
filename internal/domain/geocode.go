package domain

import (
	"context"
	"log/slog"
	"time"
)

// SearchTerm builds the geocoder query for a location: "<city>, <country>"
// when a city was resolved, the country alone otherwise, "" when neither.
func SearchTerm(loc Location) string {
	switch {
	case loc.City != nil && loc.Country != nil:
		return *loc.City + ", " + *loc.Country
	case loc.City != nil:
		return *loc.City
	case loc.Country != nil:
		return *loc.Country
	default:
		return ""
	}
}

// EnrichWithCoordinates looks up coordinates for a record's location. The
// lookup is bounded by timeout (when positive); any error or empty result
// leaves the record without coordinates (graceful degradation).
func EnrichWithCoordinates(ctx context.Context, rec OutbreakRecord, resolver GeoResolver, timeout time.Duration, logger *slog.Logger) OutbreakRecord {
	if resolver == nil {
		return rec
	}
	term := SearchTerm(rec.Location)
	if term == "" {
		return rec
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := resolver.Resolve(ctx, term)
	if err != nil {
		logger.Warn("geocoding failed",
			"record_id", rec.ID,
			"search_term", term,
			"error", err,
		)
		return rec
	}
	if !result.Found() {
		logger.Debug("geocoding returned no result", "record_id", rec.ID, "search_term", term)
		return rec
	}

	lat, lon := result.Lat, result.Lon
	rec.Location.Latitude = &lat
	rec.Location.Longitude = &lon
	return rec
}
