// Package monitor implements the reconciliation core and the cycle engine
// that ties fetching, persistence, and notification together.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/1TapDev/Target-Monitor/internal/store"
	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// PriorLookup is the read capability Reconcile needs: the last known record
// for a (sku, store) key. store.Store satisfies it.
type PriorLookup interface {
	GetStock(ctx context.Context, sku, storeID string) (*domain.StoreAvailability, error)
}

// Reconcile compares a freshly fetched snapshot against the prior records
// for the same SKU and returns the classified deltas plus the records to
// persist. The delta sequence preserves snapshot order and retains unchanged
// entries; every snapshot member appears in the to-persist set so the state
// store always reflects the latest fetch.
//
// Reconcile performs no writes. If any prior lookup fails the whole call
// fails with store.ErrStorageUnavailable and both outputs are empty, so
// callers never partially persist.
func Reconcile(
	ctx context.Context,
	sku string,
	snapshot domain.Snapshot,
	prior PriorLookup,
) ([]domain.Delta, []domain.StoreAvailability, error) {
	deltas := make([]domain.Delta, 0, len(snapshot))
	toPersist := make([]domain.StoreAvailability, 0, len(snapshot))

	for i := range snapshot {
		current := snapshot[i]

		var priorQty *int
		prev, err := prior.GetStock(ctx, sku, current.StoreID)
		switch {
		case err == nil:
			q := prev.Quantity
			priorQty = &q
		case errors.Is(err, store.ErrNotFound):
			// First observation of this store for this SKU.
		default:
			if !errors.Is(err, store.ErrStorageUnavailable) {
				err = fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
			}
			return nil, nil, fmt.Errorf("looking up prior stock %s/%s: %w",
				sku, current.StoreID, err)
		}

		deltas = append(deltas, domain.Delta{
			Kind:    domain.Classify(priorQty, current.Quantity),
			Current: current,
			Prior:   priorQty,
		})
		toPersist = append(toPersist, current)
	}

	return deltas, toPersist, nil
}
