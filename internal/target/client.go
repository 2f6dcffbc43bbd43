// Package target provides a client for the Target store-stock lookup API
// abstracted behind an interface for testability.
package target

import (
	"context"
	"errors"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// ErrTransient marks fetch failures that are expected to clear on a later
// cycle: timeouts, non-2xx responses, connection errors. Callers skip the
// affected SKU/ZIP pair and continue.
var ErrTransient = errors.New("transient fetch error")

// ErrMalformedResponse marks payloads that cannot be parsed into
// StoreAvailability records. Treated as transient at the pair level.
var ErrMalformedResponse = errors.New("malformed stock response")

// Client defines the interface for fetching per-store stock snapshots.
type Client interface {
	// FetchStock returns the availability snapshot for one SKU near one ZIP
	// code. The returned order is whatever the API reported.
	FetchStock(ctx context.Context, sku, zip string) (domain.Snapshot, error)
}
