package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

// HeadlineTransformer implements Transformer by parsing each headline and
// enriching it with coordinates when a resolver is configured.
type HeadlineTransformer struct {
	parser   *domain.Parser
	resolver domain.GeoResolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewTransformer creates a HeadlineTransformer. Pass a nil resolver to
// disable coordinate enrichment; timeout bounds each lookup.
func NewTransformer(parser *domain.Parser, resolver domain.GeoResolver, timeout time.Duration, logger *slog.Logger) *HeadlineTransformer {
	if parser == nil {
		parser = domain.DefaultParser()
	}
	return &HeadlineTransformer{
		parser:   parser,
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// Transform parses raw. Geocoding problems never fail the headline; only a
// cancelled context does.
func (t *HeadlineTransformer) Transform(ctx context.Context, raw domain.RawHeadline) (domain.OutbreakRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutbreakRecord{}, err
	}
	rec := t.parser.ParseRaw(raw)
	return domain.EnrichWithCoordinates(ctx, rec, t.resolver, t.timeout, t.logger), nil
}
