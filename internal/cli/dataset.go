package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outbreak-etl/internal/adapter/geocache"
	"github.com/couchcryptid/outbreak-etl/internal/adapter/linefile"
	"github.com/couchcryptid/outbreak-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/outbreak-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/outbreak-etl/internal/config"
	"github.com/couchcryptid/outbreak-etl/internal/domain"
	"github.com/couchcryptid/outbreak-etl/internal/pipeline"
)

// openSource reads headlines from the file named by args[0], or from the
// command's stdin when no file (or "-") is given.
func openSource(cmd *cobra.Command, args []string) (*linefile.Reader, error) {
	if len(args) == 0 || args[0] == "-" {
		return linefile.NewReader(cmd.InOrStdin()), nil
	}
	return linefile.Open(args[0])
}

// newParser returns the default parser, logging any gazetteer alias
// conflicts it resolved.
func (a *app) newParser() *domain.Parser {
	p := domain.DefaultParser()
	for _, c := range p.Gazetteer().Conflicts() {
		a.logger.Warn("gazetteer alias conflict", "detail", c)
	}
	return p
}

// newResolver builds the configured GeoResolver wrapped in the place cache,
// or returns nil when geocoding is disabled.
func (a *app) newResolver() domain.GeoResolver {
	var inner domain.GeoResolver
	switch a.cfg.Geocoder {
	case config.GeocoderMapbox:
		inner = mapbox.NewClient(a.cfg.MapboxToken, a.cfg.GeocodeTimeout, a.metrics, a.logger)
	case config.GeocoderNominatim:
		inner = nominatim.NewClient(nominatim.Options{
			BaseURL:           a.cfg.NominatimURL,
			UserAgent:         a.cfg.NominatimUserAgent,
			RequestsPerSecond: a.cfg.NominatimRPS,
			Timeout:           a.cfg.GeocodeTimeout,
		}, a.metrics, a.logger)
	default:
		a.metrics.GeocodeEnabled.Set(0)
		a.logger.Info("geocoding disabled")
		return nil
	}

	a.metrics.GeocodeEnabled.Set(1)
	a.logger.Info("geocoding enabled",
		"provider", a.cfg.Geocoder,
		"timeout", a.cfg.GeocodeTimeout,
		"cache_ttl", a.cfg.GeocodeCacheTTL,
		"miss_ttl", a.cfg.GeocodeMissTTL,
	)
	return geocache.New(inner, a.cfg.GeocodeCacheTTL, a.cfg.GeocodeMissTTL, a.metrics)
}

// newPipeline wires src through the parser and resolver into loader, which
// may be nil.
func (a *app) newPipeline(src pipeline.BatchExtractor, loader pipeline.BatchLoader) *pipeline.Pipeline {
	transformer := pipeline.NewTransformer(a.newParser(), a.newResolver(), a.cfg.GeocodeTimeout, a.logger)
	return pipeline.New(src, transformer, loader, a.logger, a.metrics, a.cfg.BatchSize)
}

// loadDataset runs the pipeline once over the command's headline source.
func (a *app) loadDataset(ctx context.Context, cmd *cobra.Command, args []string) ([]domain.OutbreakRecord, error) {
	src, err := openSource(cmd, args)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(src)

	records, err := a.newPipeline(src, nil).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("process headlines: %w", err)
	}
	return records, nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

// regionsFlag resolves a --region value. "" selects every region tag.
func regionsFlag(v string) ([]domain.RegionTag, error) {
	if v == "" {
		return domain.RegionTags, nil
	}
	tag, err := domain.ParseRegionTag(v)
	if err != nil {
		return nil, err
	}
	return []domain.RegionTag{tag}, nil
}
