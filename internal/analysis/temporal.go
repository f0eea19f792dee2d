package analysis

import (
	"sort"
	"time"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// TemporalQuery narrows a temporal pattern query.
type TemporalQuery struct {
	// Disease keeps only records with exactly this disease name when set.
	Disease string
	// WindowDays restricts the series to the last n days when non-nil.
	WindowDays *int
	// ByDisease fills the per-disease counts of every point.
	ByDisease bool
}

// TemporalPoint is one date in a temporal series.
type TemporalPoint struct {
	Date       time.Time      `json:"date"`
	Count      int            `json:"count"`
	Diseases   map[string]int `json:"diseases,omitempty"`
	Cumulative int            `json:"cumulative_total"`
}

// TemporalPatterns is a per-date outbreak series in ascending date order.
// Total equals the final cumulative value. Undated counts matching records
// left out of the series because they carry no date.
type TemporalPatterns struct {
	Points  []TemporalPoint `json:"points"`
	Total   int             `json:"total"`
	Undated int             `json:"undated"`
}

// TemporalPatterns groups matching dated records by date and accumulates a
// running total.
func (a *Analyzer) TemporalPatterns(region domain.RegionTag, q TemporalQuery) (TemporalPatterns, error) {
	records, err := a.Records(region)
	if err != nil {
		return TemporalPatterns{}, err
	}
	if q.Disease != "" {
		records = byDisease(records, q.Disease)
	}

	var result TemporalPatterns
	for _, rec := range records {
		if rec.Date == nil {
			result.Undated++
		}
	}
	records, err = applyWindow(records, q.WindowDays)
	if err != nil {
		return TemporalPatterns{}, err
	}

	points := make(map[time.Time]*TemporalPoint)
	for _, rec := range records {
		if rec.Date == nil {
			continue
		}
		day := *rec.Date
		p, ok := points[day]
		if !ok {
			p = &TemporalPoint{Date: day}
			if q.ByDisease {
				p.Diseases = map[string]int{}
			}
			points[day] = p
		}
		p.Count++
		if q.ByDisease {
			p.Diseases[rec.Disease]++
		}
	}

	result.Points = make([]TemporalPoint, 0, len(points))
	for _, p := range points {
		result.Points = append(result.Points, *p)
	}
	sort.Slice(result.Points, func(i, j int) bool {
		return result.Points[i].Date.Before(result.Points[j].Date)
	})

	running := 0
	for i := range result.Points {
		running += result.Points[i].Count
		result.Points[i].Cumulative = running
	}
	result.Total = running
	return result, nil
}

func byDisease(records []domain.OutbreakRecord, disease string) []domain.OutbreakRecord {
	out := make([]domain.OutbreakRecord, 0, len(records))
	for _, rec := range records {
		if rec.Disease == disease {
			out = append(out, rec)
		}
	}
	return out
}
