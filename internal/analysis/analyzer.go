package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// ErrInvalidWindow reports a negative time window.
var ErrInvalidWindow = errors.New("invalid time window")

// Days returns a window length for the windowDays parameters.
func Days(n int) *int {
	return &n
}

// Analyzer answers aggregation queries over an immutable record snapshot.
// It is safe for concurrent use.
type Analyzer struct {
	records []domain.OutbreakRecord
	catalog *domain.DiseaseCatalog
}

// New creates an Analyzer over a copy of records. A nil catalog uses the
// default disease catalog.
func New(records []domain.OutbreakRecord, catalog *domain.DiseaseCatalog) *Analyzer {
	if catalog == nil {
		catalog = domain.DefaultDiseaseCatalog()
	}
	return &Analyzer{
		records: append([]domain.OutbreakRecord(nil), records...),
		catalog: catalog,
	}
}

// Len returns the number of records in the snapshot.
func (a *Analyzer) Len() int {
	return len(a.records)
}

// Records returns the records for region in insertion order.
func (a *Analyzer) Records(region domain.RegionTag) ([]domain.OutbreakRecord, error) {
	return domain.FilterRegion(a.records, region)
}

// SeverityCounts is a fixed-shape severity histogram.
type SeverityCounts struct {
	High   int `json:"High"`
	Medium int `json:"Medium"`
	Low    int `json:"Low"`
}

func (c *SeverityCounts) add(s domain.Severity) {
	switch s {
	case domain.SeverityHigh:
		c.High++
	case domain.SeverityMedium:
		c.Medium++
	case domain.SeverityLow:
		c.Low++
	}
}

// Get returns the count for s.
func (c SeverityCounts) Get(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return c.High
	case domain.SeverityMedium:
		return c.Medium
	case domain.SeverityLow:
		return c.Low
	default:
		return 0
	}
}

// Total sums all tiers.
func (c SeverityCounts) Total() int {
	return c.High + c.Medium + c.Low
}

// DiseaseStats describes one disease within a region.
type DiseaseStats struct {
	Disease    string          `json:"disease"`
	Count      int             `json:"count"`
	Severity   SeverityCounts  `json:"severity_distribution"`
	Priority   domain.Priority `json:"priority"`
	LatestDate *time.Time      `json:"latest_outbreak"`
}

// DiseaseDistribution returns per-disease statistics ordered by count
// descending, ties in catalog match order.
func (a *Analyzer) DiseaseDistribution(region domain.RegionTag) ([]DiseaseStats, error) {
	records, err := a.Records(region)
	if err != nil {
		return nil, err
	}

	byDisease := make(map[string]*DiseaseStats)
	for _, rec := range records {
		st, ok := byDisease[rec.Disease]
		if !ok {
			st = &DiseaseStats{Disease: rec.Disease, Priority: a.catalog.Priority(rec.Disease)}
			byDisease[rec.Disease] = st
		}
		st.Count++
		st.Severity.add(rec.Severity)
		if rec.Date != nil && (st.LatestDate == nil || rec.Date.After(*st.LatestDate)) {
			d := *rec.Date
			st.LatestDate = &d
		}
	}

	out := make([]DiseaseStats, 0, len(byDisease))
	for _, st := range byDisease {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return a.catalog.Less(out[i].Disease, out[j].Disease)
	})
	return out, nil
}

// SeverityTrend summarizes one severity tier.
type SeverityTrend struct {
	Severity   domain.Severity `json:"severity"`
	Count      int             `json:"count"`
	Diseases   map[string]int  `json:"disease_distribution"`
	Percentage float64         `json:"percentage"`
}

// SeverityTrends returns one entry per tier, High first. A non-nil windowDays
// restricts the query to dated records inside the window.
func (a *Analyzer) SeverityTrends(region domain.RegionTag, windowDays *int) ([]SeverityTrend, error) {
	records, err := a.Records(region)
	if err != nil {
		return nil, err
	}
	records, err = applyWindow(records, windowDays)
	if err != nil {
		return nil, err
	}

	out := make([]SeverityTrend, len(domain.Severities))
	for i, sev := range domain.Severities {
		out[i] = SeverityTrend{Severity: sev, Diseases: map[string]int{}}
	}
	for _, rec := range records {
		i := severityIndex(rec.Severity)
		if i < 0 {
			continue
		}
		out[i].Count++
		out[i].Diseases[rec.Disease]++
	}
	if total := len(records); total > 0 {
		for i := range out {
			out[i].Percentage = float64(out[i].Count) / float64(total) * 100
		}
	}
	return out, nil
}

func severityIndex(s domain.Severity) int {
	for i, sev := range domain.Severities {
		if sev == s {
			return i
		}
	}
	return -1
}

// HighPriorityOutbreaks returns records for high-priority diseases whose
// severity is at least minSeverity, newest first with undated records last.
func (a *Analyzer) HighPriorityOutbreaks(region domain.RegionTag, minSeverity domain.Severity) ([]domain.OutbreakRecord, error) {
	if !minSeverity.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSeverity, string(minSeverity))
	}
	records, err := a.Records(region)
	if err != nil {
		return nil, err
	}

	out := make([]domain.OutbreakRecord, 0, len(records))
	for _, rec := range records {
		if rec.Severity.Rank() >= minSeverity.Rank() && a.catalog.Priority(rec.Disease) == domain.PriorityHigh {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date)
	})
	return out, nil
}

// newerFirst orders dates descending with nil after every real date.
func newerFirst(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// windowCutoff returns the earliest date inside a window of days ending today.
func windowCutoff(days int) time.Time {
	now := clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -days)
}

// applyWindow keeps dated records on or after the window cutoff. A nil
// window returns records unchanged.
func applyWindow(records []domain.OutbreakRecord, windowDays *int) ([]domain.OutbreakRecord, error) {
	if windowDays == nil {
		return records, nil
	}
	if *windowDays < 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, *windowDays)
	}
	return since(records, windowCutoff(*windowDays)), nil
}

// since keeps dated records on or after cutoff.
func since(records []domain.OutbreakRecord, cutoff time.Time) []domain.OutbreakRecord {
	out := make([]domain.OutbreakRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date != nil && !rec.Date.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}
