package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/1TapDev/Target-Monitor/internal/metrics"
	"github.com/1TapDev/Target-Monitor/internal/notify"
	"github.com/1TapDev/Target-Monitor/internal/store"
	"github.com/1TapDev/Target-Monitor/internal/target"
	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// Engine orchestrates one monitoring cycle: fetch, reconcile, persist,
// notify, for every configured SKU/ZIP pair in order. Pairs are processed
// strictly sequentially; outbound call pacing lives in the stock client's
// rate limiter.
type Engine struct {
	client target.Client
	store  store.Store
	poster notify.Poster
	log    *slog.Logger

	pairs          [][2]string
	initialReports bool
	pairDelay      time.Duration
}

// NewEngine creates a new Engine with injected dependencies. pairs is the
// ordered list of (sku, zip) combinations to monitor.
func NewEngine(
	c target.Client,
	s store.Store,
	p notify.Poster,
	pairs [][2]string,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		client: c,
		store:  s,
		poster: p,
		log:    slog.Default(),
		pairs:  pairs,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithInitialReports enables the one-time full listing post for pairs that
// have never been reported.
func WithInitialReports(enabled bool) EngineOption {
	return func(e *Engine) {
		e.initialReports = enabled
	}
}

// WithPairDelay adds an extra pause between pairs on top of the client's
// rate limiting.
func WithPairDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.pairDelay = d
	}
}

// RunCycle processes every configured pair once. Per-pair failures are
// logged and skipped; only context cancellation stops the cycle early.
// Cancellation is observed between pairs, never mid-pair, so persisted
// state stays consistent through the last completed pair.
func (e *Engine) RunCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	log := e.log.With("cycle_id", uuid.NewString())
	log.Info("cycle starting", "pairs", len(e.pairs))

	for i, pair := range e.pairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sku, zip := pair[0], pair[1]
		if err := e.processPair(ctx, log, sku, zip); err != nil {
			log.Error("pair skipped", "sku", sku, "zip", zip, "error", err)
			metrics.PairsSkippedTotal.Inc()
		}

		if i < len(e.pairs)-1 && e.pairDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.pairDelay):
			}
		}
	}

	log.Info("cycle complete", "duration", time.Since(start))
	return nil
}

func (e *Engine) processPair(ctx context.Context, log *slog.Logger, sku, zip string) error {
	snapshot, err := e.client.FetchStock(ctx, sku, zip)
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}

	deltas, toPersist, err := Reconcile(ctx, sku, snapshot, e.store)
	if err != nil {
		return fmt.Errorf("reconciling: %w", err)
	}

	for i := range toPersist {
		if err := e.store.UpsertStock(ctx, &toPersist[i]); err != nil {
			return fmt.Errorf("persisting stock: %w", err)
		}
	}

	e.logDeltas(log, deltas)

	if e.initialReports {
		sent, err := e.store.HasInitialReport(ctx, sku, zip)
		if err != nil {
			return fmt.Errorf("checking initial report: %w", err)
		}
		if !sent {
			return e.sendInitialReport(ctx, log, sku, zip, snapshot)
		}
	}

	e.postBatch(ctx, log, notify.FormatAlerts(deltas))
	return nil
}

// sendInitialReport posts the full listing for a never-reported pair.
// The pair is only marked reported after every page posts, so a failed
// report is retried on the next cycle instead of alerting on stale state.
func (e *Engine) sendInitialReport(
	ctx context.Context,
	log *slog.Logger,
	sku, zip string,
	snapshot domain.Snapshot,
) error {
	batch := notify.FormatListing(sku, zip, snapshot)
	for _, msg := range batch {
		if err := e.poster.Post(ctx, msg); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			return fmt.Errorf("posting initial report: %w", err)
		}
		metrics.AlertsSentTotal.Inc()
	}

	if err := e.store.MarkInitialReport(ctx, sku, zip); err != nil {
		return fmt.Errorf("marking initial report: %w", err)
	}

	log.Info("initial stock report sent", "sku", sku, "zip", zip, "stores", len(snapshot))
	return nil
}

// postBatch delivers alert messages. Post failures are non-fatal: they are
// logged and the cycle continues.
func (e *Engine) postBatch(ctx context.Context, log *slog.Logger, batch notify.Batch) {
	for _, msg := range batch {
		if err := e.poster.Post(ctx, msg); err != nil {
			log.Error("notification post failed", "error", err)
			metrics.NotificationFailuresTotal.Inc()
			continue
		}
		metrics.AlertsSentTotal.Inc()
	}
}

func (e *Engine) logDeltas(log *slog.Logger, deltas []domain.Delta) {
	for i := range deltas {
		d := &deltas[i]
		if d.Kind == domain.DeltaUnchanged {
			continue
		}
		metrics.StockChangesTotal.WithLabelValues(string(d.Kind)).Inc()
		log.Info("inventory change",
			"action", d.Kind,
			"sku", d.Current.SKU,
			"store_id", d.Current.StoreID,
			"store_name", d.Current.StoreName,
			"prev_qty", d.PriorQuantity(),
			"new_qty", d.Current.Quantity,
			"city", d.Current.City,
			"state", d.Current.State,
		)
	}
}

// RunCheck performs one command-mode pass for a single pair: fetch,
// reconcile, persist, and return the listing batch. The caller decides
// whether to post or print it.
func (e *Engine) RunCheck(
	ctx context.Context,
	sku, zip string,
) (domain.Snapshot, notify.Batch, error) {
	snapshot, err := e.client.FetchStock(ctx, sku, zip)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching snapshot: %w", err)
	}

	_, toPersist, err := Reconcile(ctx, sku, snapshot, e.store)
	if err != nil {
		return nil, nil, fmt.Errorf("reconciling: %w", err)
	}
	for i := range toPersist {
		if err := e.store.UpsertStock(ctx, &toPersist[i]); err != nil {
			return nil, nil, fmt.Errorf("persisting stock: %w", err)
		}
	}

	return snapshot, notify.FormatListing(sku, zip, snapshot), nil
}
