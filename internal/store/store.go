// Package store defines the datastore abstraction for the Target stock
// monitor. Business logic depends on the Store interface, never on concrete
// implementations, so the reconciler and engine are testable without a
// running database.
package store

import (
	"context"
	"errors"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// ErrNotFound is returned when a (sku, store_id) record does not exist.
var ErrNotFound = errors.New("stock record not found")

// ErrStorageUnavailable wraps storage-layer failures. Reconciliation for the
// affected pair aborts without partial persistence when it is returned.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store defines all data access operations for the monitor.
type Store interface {
	// Stock state
	GetStock(ctx context.Context, sku, storeID string) (*domain.StoreAvailability, error)
	UpsertStock(ctx context.Context, sa *domain.StoreAvailability) error
	ListStock(ctx context.Context, sku, zip string) ([]domain.StoreAvailability, error)

	// Initial report tracking
	HasInitialReport(ctx context.Context, sku, zip string) (bool, error)
	MarkInitialReport(ctx context.Context, sku, zip string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
