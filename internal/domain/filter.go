package domain

import (
	"fmt"
	"strings"
)

// RegionTag selects the records an aggregation covers.
type RegionTag string

const (
	RegionAll        RegionTag = "All"
	RegionEastAfrica RegionTag = "EastAfrica"
	RegionUganda     RegionTag = "Uganda"
)

// RegionTags lists every valid tag.
var RegionTags = []RegionTag{RegionAll, RegionEastAfrica, RegionUganda}

// ParseRegionTag accepts "All", "EastAfrica", "east_africa", "uganda" and
// similar spellings. Anything else is ErrInvalidRegion.
func ParseRegionTag(s string) (RegionTag, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "all":
		return RegionAll, nil
	case "eastafrica":
		return RegionEastAfrica, nil
	case "uganda":
		return RegionUganda, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
	}
}

// Valid reports whether r is a known tag.
func (r RegionTag) Valid() bool {
	switch r {
	case RegionAll, RegionEastAfrica, RegionUganda:
		return true
	default:
		return false
	}
}

// Matches reports whether rec belongs to region r.
func (r RegionTag) Matches(rec OutbreakRecord) bool {
	switch r {
	case RegionAll:
		return true
	case RegionEastAfrica:
		return rec.Region.IsEastAfrica
	case RegionUganda:
		return rec.Region.IsUganda
	default:
		return false
	}
}

// FilterRegion returns the records belonging to region, in their original
// order. The result never aliases records.
func FilterRegion(records []OutbreakRecord, region RegionTag) ([]OutbreakRecord, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRegion, string(region))
	}
	out := make([]OutbreakRecord, 0, len(records))
	for _, rec := range records {
		if region.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
