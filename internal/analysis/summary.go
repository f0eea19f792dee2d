package analysis

import (
	"fmt"
	"time"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// recentDays is the look-back of the recent trends sub-summary, counted back
// from the latest dated record.
const recentDays = 30

// DateRange spans the dated records of a selection.
type DateRange struct {
	First  time.Time `json:"first_outbreak"`
	Latest time.Time `json:"latest_outbreak"`
}

// LocationStats counts distinct resolved places.
type LocationStats struct {
	CountriesAffected int `json:"countries_affected"`
	CitiesAffected    int `json:"cities_affected"`
}

// RecentTrends covers records within recentDays of the latest dated record.
type RecentTrends struct {
	TotalOutbreaks       int            `json:"total_outbreaks"`
	SeverityDistribution SeverityCounts `json:"severity_distribution"`
}

// Summary is the headline statistics for one region.
type Summary struct {
	Region               domain.RegionTag        `json:"region"`
	TotalOutbreaks       int                     `json:"total_outbreaks"`
	Message              string                  `json:"message,omitempty"`
	UniqueDiseases       int                     `json:"unique_diseases"`
	SeverityDistribution SeverityCounts          `json:"severity_distribution"`
	MostCommonDisease    *string                 `json:"most_common_disease"`
	HighSeverityCount    int                     `json:"high_severity_count"`
	DateRange            *DateRange              `json:"date_range"`
	PriorityDistribution map[domain.Priority]int `json:"priority_distribution"`
	Locations            LocationStats           `json:"location_stats"`
	Recent               RecentTrends            `json:"recent_trends"`
}

// SummaryStatistics computes the region summary. An empty region yields a
// zero summary carrying only a message.
func (a *Analyzer) SummaryStatistics(region domain.RegionTag) (Summary, error) {
	records, err := a.Records(region)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Region:               region,
		TotalOutbreaks:       len(records),
		PriorityDistribution: map[domain.Priority]int{},
	}
	if len(records) == 0 {
		s.Message = fmt.Sprintf("No outbreak data available for %s", region)
		return s, nil
	}

	diseaseCounts := make(map[string]int)
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, rec := range records {
		diseaseCounts[rec.Disease]++
		s.SeverityDistribution.add(rec.Severity)
		s.PriorityDistribution[a.catalog.Priority(rec.Disease)]++
		if rec.Location.Country != nil {
			countries[*rec.Location.Country] = struct{}{}
		}
		if rec.Location.City != nil {
			cities[*rec.Location.City] = struct{}{}
		}
		if rec.Date != nil {
			s.DateRange = widen(s.DateRange, *rec.Date)
		}
	}

	s.UniqueDiseases = len(diseaseCounts)
	s.HighSeverityCount = s.SeverityDistribution.High
	s.MostCommonDisease = a.mostCommon(diseaseCounts)
	s.Locations = LocationStats{CountriesAffected: len(countries), CitiesAffected: len(cities)}

	if s.DateRange != nil {
		for _, rec := range since(records, s.DateRange.Latest.AddDate(0, 0, -recentDays)) {
			s.Recent.TotalOutbreaks++
			s.Recent.SeverityDistribution.add(rec.Severity)
		}
	}
	return s, nil
}

// mostCommon picks the highest count, ties broken by catalog match order.
func (a *Analyzer) mostCommon(counts map[string]int) *string {
	var (
		best  string
		found bool
	)
	for disease, n := range counts {
		if !found || n > counts[best] || (n == counts[best] && a.catalog.Less(disease, best)) {
			best, found = disease, true
		}
	}
	if !found {
		return nil
	}
	return &best
}

func widen(r *DateRange, d time.Time) *DateRange {
	if r == nil {
		return &DateRange{First: d, Latest: d}
	}
	if d.Before(r.First) {
		r.First = d
	}
	if d.After(r.Latest) {
		r.Latest = d
	}
	return r
}
