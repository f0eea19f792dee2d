package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// ReportOptions parameterizes BuildReport.
type ReportOptions struct {
	WindowDays  *int
	MinSeverity domain.Severity
}

// Report bundles every aggregation for one region.
type Report struct {
	Region       domain.RegionTag        `json:"region"`
	GeneratedAt  time.Time               `json:"generated_at"`
	Summary      Summary                 `json:"summary"`
	Diseases     []DiseaseStats          `json:"disease_distribution"`
	Severity     []SeverityTrend         `json:"severity_trends"`
	HighPriority []domain.OutbreakRecord `json:"high_priority_outbreaks"`
	Temporal     TemporalPatterns        `json:"temporal_patterns"`
}

// BuildReport runs the region aggregations concurrently. MinSeverity defaults
// to High when empty. The first failing aggregation cancels the rest.
func (a *Analyzer) BuildReport(ctx context.Context, region domain.RegionTag, opts ReportOptions) (*Report, error) {
	if opts.MinSeverity == "" {
		opts.MinSeverity = domain.SeverityHigh
	}

	r := &Report{Region: region, GeneratedAt: clock.Now().UTC()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		r.Summary, err = a.SummaryStatistics(region)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		r.Diseases, err = a.DiseaseDistribution(region)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		r.Severity, err = a.SeverityTrends(region, opts.WindowDays)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		r.HighPriority, err = a.HighPriorityOutbreaks(region, opts.MinSeverity)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		r.Temporal, err = a.TemporalPatterns(region, TemporalQuery{WindowDays: opts.WindowDays, ByDisease: true})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// BuildReports builds one report per region tag concurrently, keyed by tag.
func (a *Analyzer) BuildReports(ctx context.Context, regions []domain.RegionTag, opts ReportOptions) (map[domain.RegionTag]*Report, error) {
	reports := make([]*Report, len(regions))
	g, ctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		g.Go(func() error {
			r, err := a.BuildReport(ctx, region, opts)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[domain.RegionTag]*Report, len(regions))
	for i, region := range regions {
		out[region] = reports[i]
	}
	return out, nil
}
