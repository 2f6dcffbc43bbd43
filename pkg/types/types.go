// Package domain defines the core business types for the Target stock monitor.
package domain

import (
	"time"
)

// HighStockSentinel is the quantity value the stock API returns when a store
// has more inventory than it reports precisely. ClampQuantity maps it to
// HighStockDisplay before the value enters the system.
const (
	HighStockSentinel = 9999
	HighStockDisplay  = 999
)

// StoreAvailability is one store's observed stock for one SKU.
// (SKU, StoreID) is unique within a snapshot and within the store_stock table.
type StoreAvailability struct {
	SKU       string  `json:"sku"        db:"sku"`
	StoreID   string  `json:"store_id"   db:"store_id"`
	StoreName string  `json:"store_name" db:"store_name"`
	Address   string  `json:"address"    db:"address"`
	City      string  `json:"city"       db:"city"`
	State     string  `json:"state"      db:"state"`
	ZipCode   string  `json:"zip_code"   db:"zip_code"`
	Phone     string  `json:"phone,omitempty" db:"phone"`
	Distance  float64 `json:"distance"   db:"distance"`

	// Quantity is the headline stock level: the larger of the pickup and
	// in-store channels, with the API's 9999 sentinel clamped.
	Quantity        int `json:"quantity"         db:"quantity"`
	PickupQuantity  int `json:"pickup_quantity"  db:"pickup_quantity"`
	InStoreQuantity int `json:"instore_quantity" db:"instore_quantity"`

	ObservedAt time.Time `json:"observed_at" db:"last_updated"`
}

// Snapshot is one fetch's full set of per-store availability results for a
// SKU/ZIP pair. It is never persisted as a unit; members are upserted
// individually.
type Snapshot []StoreAvailability

// DeltaKind classifies the change between a store's prior and current quantity.
type DeltaKind string

// Delta kind constants.
const (
	DeltaNew             DeltaKind = "new"
	DeltaRestocked       DeltaKind = "restocked"
	DeltaOutOfStock      DeltaKind = "out_of_stock"
	DeltaQuantityChanged DeltaKind = "quantity_changed"
	DeltaUnchanged       DeltaKind = "unchanged"
)

// Delta is a classified change for one (SKU, StoreID) between reconciliation
// cycles. Prior is nil when no record existed before this cycle.
type Delta struct {
	Kind    DeltaKind         `json:"kind"`
	Current StoreAvailability `json:"current"`
	Prior   *int              `json:"prior,omitempty"`
}

// PriorQuantity returns the prior quantity, treating a missing record as zero.
func (d *Delta) PriorQuantity() int {
	if d.Prior == nil {
		return 0
	}
	return *d.Prior
}

// Classify determines the DeltaKind for a prior/current quantity pair.
// A nil prior means the store was never seen for this SKU.
func Classify(prior *int, current int) DeltaKind {
	if prior == nil {
		return DeltaNew
	}
	switch {
	case *prior == current:
		return DeltaUnchanged
	case *prior == 0 && current > 0:
		return DeltaRestocked
	case *prior > 0 && current == 0:
		return DeltaOutOfStock
	default:
		return DeltaQuantityChanged
	}
}

// ClampQuantity normalizes a raw API quantity, mapping the high-stock
// sentinel to its display value and negative values to zero.
func ClampQuantity(q int) int {
	if q == HighStockSentinel {
		return HighStockDisplay
	}
	if q < 0 {
		return 0
	}
	return q
}
