package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	"github.com/couchcryptid/photon-geocode-service/internal/observability"
)

// BatchExtractor reads up to batchSize geocode request messages.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer resolves one request message into a geocode result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.GeocodeResult, error)
}

// BatchLoader publishes geocode results.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []domain.GeocodeResult) error
}

// Pipeline consumes geocode requests, resolves them and publishes one result
// per well-formed request. A request offset is committed only after its
// result has been published.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	ready       atomic.Bool
}

// New wires a Pipeline from its stages.
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

// CheckReadiness reports an error until the first batch of results has been
// published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any geocode results yet")
	}
	return nil
}

// Run consumes batches until ctx is cancelled. Broker failures are retried
// with backoff, so Run only returns once ctx is done.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	extractWait := newBackoff(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			p.logger.Error("extract batch failed", "error", err, "retry_in", extractWait.delay)
			extractWait.sleep(ctx)
			continue
		}
		extractWait.reset()

		if len(batch) > 0 {
			p.handleBatch(ctx, batch)
		}
	}

	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// batchResult pairs the results of a batch with the messages that produced
// them.
type batchResult struct {
	results []domain.GeocodeResult
	sources []domain.RawEvent
}

func (p *Pipeline) handleBatch(ctx context.Context, batch []domain.RawEvent) {
	start := time.Now()
	p.metrics.MessagesConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	out := p.resolveAll(ctx, batch)
	if len(out.results) == 0 {
		return
	}
	if !p.publish(ctx, out.results) {
		return
	}

	p.metrics.MessagesProduced.Add(float64(len(out.results)))
	for _, raw := range out.sources {
		p.commit(ctx, raw)
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
}

// resolveAll transforms every message of the batch. Malformed messages are
// committed right away since redelivery cannot fix them.
func (p *Pipeline) resolveAll(ctx context.Context, batch []domain.RawEvent) batchResult {
	out := batchResult{
		results: make([]domain.GeocodeResult, 0, len(batch)),
		sources: make([]domain.RawEvent, 0, len(batch)),
	}
	for _, raw := range batch {
		result, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("malformed geocode request, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		out.results = append(out.results, result)
		out.sources = append(out.sources, raw)
	}
	return out
}

// publish loads results, retrying the same slice until it succeeds or ctx is
// cancelled. It reports whether the results were published.
func (p *Pipeline) publish(ctx context.Context, results []domain.GeocodeResult) bool {
	wait := newBackoff(200*time.Millisecond, 5*time.Second)
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, results)
		if err == nil {
			return true
		}
		p.metrics.LoadRetries.Inc()
		p.logger.Error("publish geocode results failed",
			"error", err,
			"batch_size", len(results),
			"attempt", attempt,
			"retry_in", wait.delay,
		)
		if !wait.sleep(ctx) {
			p.logger.Warn("shutting down with unpublished results, offsets left uncommitted",
				"batch_size", len(results))
			return false
		}
	}
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// backoff is an exponential delay capped at ceiling.
type backoff struct {
	initial, ceiling, delay time.Duration
}

func newBackoff(initial, ceiling time.Duration) *backoff {
	return &backoff{initial: initial, ceiling: ceiling, delay: initial}
}

func (b *backoff) reset() { b.delay = b.initial }

// sleep waits for the current delay and doubles it for next time. It returns
// false if ctx ended first.
func (b *backoff) sleep(ctx context.Context) bool {
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	b.delay = min(b.delay*2, b.ceiling)

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
