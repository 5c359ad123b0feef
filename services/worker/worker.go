package worker

import (
	"context"
	"sync"
	"time"

	"fyndchans/listingworker/internal/crawler"
	"fyndchans/listingworker/internal/pipeline"
	"fyndchans/listingworker/logger"
	apperrors "fyndchans/listingworker/pkg/errors"
	"fyndchans/listingworker/services/publisher"
)

// Runner runs one pipeline pass at the given moment
type Runner interface {
	Run(ctx context.Context, now time.Time) (pipeline.Result, error)
}

// Archiver persists a freshly scraped snapshot
type Archiver interface {
	Write(ctx context.Context, runID string, capturedAt time.Time, listings []crawler.Listing) error
}

// Worker runs the pipeline and hands fresh snapshots to the sinks
type Worker struct {
	runner        Runner
	provider      string
	publisher     publisher.Publisher
	archive       Archiver
	crawlInterval time.Duration
	now           func() time.Time
	log           *logger.Logger
}

// Option configures a Worker
type Option func(*Worker)

// WithPublisher sends fresh snapshots to a stream
func WithPublisher(p publisher.Publisher) Option {
	return func(w *Worker) { w.publisher = p }
}

// WithArchive stores fresh snapshots
func WithArchive(a Archiver) Option {
	return func(w *Worker) { w.archive = a }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// WithLogger replaces the worker logger
func WithLogger(l *logger.Logger) Option {
	return func(w *Worker) { w.log = l }
}

// NewWorker creates a new worker
func NewWorker(runner Runner, provider string, crawlInterval time.Duration, opts ...Option) *Worker {
	w := &Worker{
		runner:        runner,
		provider:      provider,
		crawlInterval: crawlInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.ForWorker()
	}
	return w
}

// Start runs the pipeline immediately and then every crawl interval until
// ctx is cancelled. Failed runs are logged and retried on the next tick.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.crawlInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Error().
				Err(err).
				Str("error_type", string(apperrors.TypeOf(err))).
				Msg("Pipeline run failed")
		}
		w.log.Debug().Dur("elapsed", time.Since(start)).Msg("Run finished")

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce runs the pipeline once. Snapshots served from the store are
// returned as is; fresh ones are also published and archived. Sink failures
// are logged and never fail the run.
func (w *Worker) RunOnce(ctx context.Context) (pipeline.Result, error) {
	now := w.now()
	result, err := w.runner.Run(ctx, now)
	if err != nil {
		return pipeline.Result{}, err
	}

	if !result.FromCache {
		w.deliver(ctx, result)
	}
	w.logShowings(result.Listings, now)

	return result, nil
}

// deliver hands the snapshot to every configured sink in parallel
func (w *Worker) deliver(ctx context.Context, result pipeline.Result) {
	log := w.log.WithField("run_id", result.RunID)
	var wg sync.WaitGroup

	if w.publisher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := publisher.SnapshotMessage{
				RunID:      result.RunID,
				Provider:   w.provider,
				CapturedAt: result.WrittenAt,
				Listings:   result.Listings,
			}
			if err := publisher.PublishSnapshot(ctx, w.publisher, msg); err != nil {
				log.Error().Err(apperrors.NewPublisher(w.provider, "failed to publish snapshot", err)).Msg("Publish failed")
				return
			}
			if err := w.publisher.TrimStreams(ctx); err != nil {
				log.Warn().Err(err).Msg("Stream trimming failed")
			}
		}()
	}

	if w.archive != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.archive.Write(ctx, result.RunID, result.WrittenAt, result.Listings); err != nil {
				log.Error().Err(apperrors.NewArchive(w.provider, "failed to archive snapshot", err)).Msg("Archive failed")
			}
		}()
	}

	wg.Wait()
}

func (w *Worker) logShowings(listings []crawler.Listing, now time.Time) {
	for _, s := range pipeline.ShowingsSoon(listings, now) {
		event := w.log.Info().
			Str("showing", s.Bucket.Label()).
			Str("url", s.Listing.URL)
		if s.Listing.Address != nil {
			event = event.Str("address", *s.Listing.Address)
		}
		event.Msg("Upcoming showing")
	}
}
