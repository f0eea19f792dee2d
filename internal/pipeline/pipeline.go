package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
	"github.com/couchcryptid/outbreak-etl/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	// maxAttempts bounds consecutive failures of one stage before Run gives up.
	maxAttempts = 5
)

// BatchExtractor reads up to batchSize raw headlines from the source and
// returns io.EOF once the source is exhausted.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawHeadline, error)
}

// Transformer converts a raw headline into an outbreak record.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawHeadline) (domain.OutbreakRecord, error)
}

// BatchLoader writes multiple outbreak records to a sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.OutbreakRecord) error
}

// Pipeline orchestrates the extract-transform-load loop over a headline source.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability. The loader
// may be nil when records only need to be collected.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has consumed its whole source,
// or an error describing why the dataset is not yet available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not finished processing headlines")
	}
	return nil
}

// Ready reports whether Run has completed successfully.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run processes the source batch by batch until it is exhausted and returns
// the records in input order. Headlines that fail to transform are logged and
// skipped. Extract and load failures are retried with exponential backoff.
func (p *Pipeline) Run(ctx context.Context) ([]domain.OutbreakRecord, error) {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var records []domain.OutbreakRecord
	for {
		batch, done, err := p.processBatch(ctx)
		if err != nil {
			p.logger.Info("pipeline stopping", "reason", err, "records", len(records))
			return records, err
		}
		records = append(records, batch...)
		if done {
			break
		}
	}

	p.ready.Store(true)
	p.logger.Info("pipeline finished", "records", len(records))
	return records, nil
}

// processBatch runs one extract-transform-load cycle. done is true once the
// source is exhausted.
func (p *Pipeline) processBatch(ctx context.Context) (records []domain.OutbreakRecord, done bool, err error) {
	start := time.Now()

	rawBatch, err := p.extract(ctx)
	switch {
	case errors.Is(err, io.EOF):
		// Extractors may hand back a final partial batch together with io.EOF.
		if len(rawBatch) == 0 {
			return nil, true, nil
		}
		done = true
	case err != nil:
		return nil, false, err
	}

	p.metrics.HeadlinesRead.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	records, err = p.transform(ctx, rawBatch)
	if err != nil {
		return nil, false, err
	}
	if err := p.load(ctx, records); err != nil {
		return nil, false, err
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	return records, done, nil
}

func (p *Pipeline) extract(ctx context.Context) ([]domain.RawHeadline, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if err == nil || errors.Is(err, io.EOF) {
			return batch, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Error("extract batch failed", "error", err, "attempt", attempt)
		if attempt == maxAttempts {
			return nil, fmt.Errorf("extract batch: %w", err)
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return nil, ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}

func (p *Pipeline) transform(ctx context.Context, rawBatch []domain.RawHeadline) ([]domain.OutbreakRecord, error) {
	out := make([]domain.OutbreakRecord, 0, len(rawBatch))
	for _, raw := range rawBatch {
		rec, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("transform failed, skipping headline",
				"error", err,
				"line", raw.Line,
			)
			p.metrics.TransformErrors.Inc()
			continue
		}
		p.metrics.RecordsBySeverity.WithLabelValues(string(rec.Severity)).Inc()
		out = append(out, rec)
	}
	return out, nil
}

func (p *Pipeline) load(ctx context.Context, records []domain.OutbreakRecord) error {
	if p.loader == nil || len(records) == 0 {
		return nil
	}

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, records)
		if err == nil {
			p.metrics.RecordsLoaded.Add(float64(len(records)))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.metrics.LoadErrors.Inc()
		p.logger.Error("load batch failed", "error", err, "batch_size", len(records), "attempt", attempt)
		if attempt == maxAttempts {
			return fmt.Errorf("load batch: %w", err)
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}
