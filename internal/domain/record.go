package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnknownDisease is the disease recorded when no catalog name occurs in a headline.
const UnknownDisease = "Unknown"

var (
	// ErrInvalidRegion reports a region tag outside All, EastAfrica and Uganda.
	ErrInvalidRegion = errors.New("invalid region tag")

	// ErrInvalidSeverity reports a severity outside High, Medium and Low.
	ErrInvalidSeverity = errors.New("invalid severity")
)

// Severity is the per-headline outbreak tier.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Severities lists every tier from highest to lowest.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is one of the three tiers.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Rank orders tiers for threshold comparisons: High 3, Medium 2, Low 1.
// Invalid values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a boundary string ("High", "medium", ...) to a Severity.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if strings.EqualFold(strings.TrimSpace(s), string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

// Location is the single gazetteer resolution for a headline.
type Location struct {
	Country      *string  `json:"country"`
	City         *string  `json:"city"`
	IsEastAfrica bool     `json:"is_east_africa"`
	IsUganda     bool     `json:"is_uganda"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// HasCoordinates reports whether geocoding filled in both coordinates.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Region holds the region flags derived from a record's Location.
type Region struct {
	IsAfrica     bool `json:"is_africa"`
	IsEastAfrica bool `json:"is_east_africa"`
	IsUganda     bool `json:"is_uganda"`
}

// RawHeadline is one input line before parsing.
type RawHeadline struct {
	Line int
	Text string
}

// OutbreakRecord is the structured form of one headline. Records are built by
// [Parser] and treated as read-only afterwards.
type OutbreakRecord struct {
	ID       string     `json:"id,omitempty"`
	Headline string     `json:"headline"`
	Date     *time.Time `json:"date"`
	Disease  string     `json:"disease"`
	Location Location   `json:"location"`
	Severity Severity   `json:"severity"`
	Region   Region     `json:"region"`
}

// DateString formats the record date as YYYY-MM-DD, or "" when undated.
func (r OutbreakRecord) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(time.DateOnly)
}

type outbreakRecordFields OutbreakRecord

// outbreakRecordJSON shadows Date so it travels as YYYY-MM-DD or null.
type outbreakRecordJSON struct {
	outbreakRecordFields
	Date *string `json:"date"`
}

// MarshalJSON writes the date as YYYY-MM-DD, or null when undated.
func (r OutbreakRecord) MarshalJSON() ([]byte, error) {
	out := outbreakRecordJSON{outbreakRecordFields: outbreakRecordFields(r)}
	if r.Date != nil {
		d := r.DateString()
		out.Date = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the YYYY-MM-DD form written by MarshalJSON. Full
// RFC 3339 timestamps are also accepted and truncated to their date.
func (r *OutbreakRecord) UnmarshalJSON(data []byte) error {
	var in outbreakRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = OutbreakRecord(in.outbreakRecordFields)
	r.Date = nil
	if in.Date == nil || *in.Date == "" {
		return nil
	}
	d, err := time.Parse(time.DateOnly, *in.Date)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, *in.Date)
		if tsErr != nil {
			return fmt.Errorf("decode record date %q: %w", *in.Date, err)
		}
		d = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	r.Date = &d
	return nil
}
