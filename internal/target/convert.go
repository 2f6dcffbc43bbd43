package target

import (
	"fmt"
	"time"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// toSnapshot joins store metadata with per-store availability into
// StoreAvailability records. Stores with no availability entry are reported
// with zero quantity. A payload with no locations or no items yields an
// empty snapshot.
func toSnapshot(sku string, resp *stockResponse, observedAt time.Time) (domain.Snapshot, error) {
	if len(resp.Locations) == 0 || len(resp.Items) == 0 {
		return domain.Snapshot{}, nil
	}

	// Availability for the queried item, keyed by location ID.
	byLocation := make(map[string]*itemLocation, len(resp.Items[0].Locations))
	for i := range resp.Items[0].Locations {
		loc := &resp.Items[0].Locations[i]
		byLocation[loc.LocationID.String()] = loc
	}

	snapshot := make(domain.Snapshot, 0, len(resp.Locations))
	for i := range resp.Locations {
		loc := &resp.Locations[i]
		storeID := loc.ID.String()
		if storeID == "" {
			return nil, fmt.Errorf("%w: location %d has no id", ErrMalformedResponse, i)
		}

		var pickup, inStore int
		if avail, ok := byLocation[storeID]; ok {
			pickup = domain.ClampQuantity(avail.Availability.AvailablePickupQuantity)
			inStore = domain.ClampQuantity(avail.InStore.AvailableInStoreQuantity)
		}

		snapshot = append(snapshot, domain.StoreAvailability{
			SKU:             sku,
			StoreID:         storeID,
			StoreName:       loc.Name,
			Address:         loc.Address,
			City:            loc.City,
			State:           loc.State,
			ZipCode:         loc.ZipCode,
			Phone:           loc.Phone,
			Distance:        loc.Distance,
			Quantity:        max(pickup, inStore),
			PickupQuantity:  pickup,
			InStoreQuantity: inStore,
			ObservedAt:      observedAt,
		})
	}

	return snapshot, nil
}
