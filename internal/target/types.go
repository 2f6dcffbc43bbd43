package target

import "encoding/json"

// Wire types for the stock endpoint. The payload carries store metadata under
// "locations" and per-store availability under "items[0].locations", joined
// by location ID.

type stockResponse struct {
	Locations []stockLocation `json:"locations"`
	Items     []stockItem     `json:"items"`
}

type stockLocation struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	City     string      `json:"city"`
	State    string      `json:"state"`
	ZipCode  string      `json:"zipCode"`
	Phone    string      `json:"phone"`
	Distance float64     `json:"distance"`
}

type stockItem struct {
	Locations []itemLocation `json:"locations"`
}

type itemLocation struct {
	LocationID   json.Number      `json:"locationId"`
	Availability itemAvailability `json:"availability"`
	InStore      inStoreStock     `json:"inStoreAvailability"`
}

type itemAvailability struct {
	AvailablePickupQuantity int `json:"availablePickupQuantity"`
}

type inStoreStock struct {
	AvailableInStoreQuantity int `json:"availableInStoreQuantity"`
}
