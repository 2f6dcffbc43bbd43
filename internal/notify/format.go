package notify

import (
	"fmt"
	"sort"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

// Target brand palette.
const (
	colorRestock    = 0xCC0000 // Target red
	colorOutOfStock = 0x8B0000 // dark red
	colorIncrease   = 0xFF4500 // orange red
	colorDecrease   = 0xDC143C // crimson
	colorInfo       = 0xB22222 // fire brick
	colorError      = 0x800000 // maroon
)

// FormatAlerts converts a delta sequence into a size-bounded batch of alert
// messages. Unchanged deltas are dropped; everything else maps to one embed
// in input order. An empty result after filtering yields an empty batch,
// which callers must not post.
func FormatAlerts(deltas []domain.Delta) Batch {
	embeds := make([]Embed, 0, len(deltas))
	for i := range deltas {
		if deltas[i].Kind == domain.DeltaUnchanged {
			continue
		}
		embeds = append(embeds, alertEmbed(&deltas[i]))
	}
	return groupEmbeds(embeds)
}

// FormatListing converts a full snapshot into a paginated store listing,
// sorted by distance ascending with store ID as the tie-break. An empty
// snapshot yields exactly one message confirming the query ran.
func FormatListing(sku, zip string, snapshot domain.Snapshot) Batch {
	if len(snapshot) == 0 {
		return Batch{{
			Content: fmt.Sprintf("Stock lookup for SKU %s near %s", sku, zip),
			Embeds: []Embed{{
				Title:       "No stores found",
				Color:       colorError,
				Description: fmt.Sprintf("No Target stores reported for SKU `%s` near ZIP `%s`.", sku, zip),
			}},
		}}
	}

	sorted := make(domain.Snapshot, len(snapshot))
	copy(sorted, snapshot)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Distance != sorted[j].Distance {
			return sorted[i].Distance < sorted[j].Distance
		}
		return sorted[i].StoreID < sorted[j].StoreID
	})

	embeds := make([]Embed, 0, len(sorted))
	for i := range sorted {
		embeds = append(embeds, listingEmbed(&sorted[i]))
	}

	batch := groupEmbeds(embeds)
	for i := range batch {
		batch[i].Content = fmt.Sprintf(
			"Stock for SKU %s near %s - %d stores (page %d/%d)",
			sku, zip, len(sorted), i+1, len(batch),
		)
	}
	return batch
}

func alertEmbed(d *domain.Delta) Embed {
	sa := &d.Current
	status, color := deltaStatus(d)

	fields := []Field{
		{Name: "Status", Value: status, Inline: true},
		{Name: "Store", Value: storeName(sa), Inline: true},
		{Name: "Distance", Value: fmt.Sprintf("%.1f miles", sa.Distance), Inline: true},
		{Name: "Previous Stock", Value: priorQuantityLabel(d), Inline: true},
		{Name: "Current Stock", Value: formatQuantity(sa.Quantity), Inline: true},
		{Name: "Phone", Value: phoneOrNA(sa.Phone), Inline: true},
		{Name: "Address", Value: fullAddress(sa), Inline: false},
		{Name: "SKU", Value: fmt.Sprintf("`%s`", sa.SKU), Inline: true},
		{Name: "Store ID", Value: fmt.Sprintf("`%s`", sa.StoreID), Inline: true},
	}

	return Embed{
		Title:  fmt.Sprintf("%s - %s", status, storeName(sa)),
		Color:  color,
		Fields: fields,
	}
}

func listingEmbed(sa *domain.StoreAvailability) Embed {
	return Embed{
		Title: storeName(sa),
		Color: colorInfo,
		Fields: []Field{
			{Name: "Stock", Value: formatQuantity(sa.Quantity), Inline: true},
			{Name: "Distance", Value: fmt.Sprintf("%.1f mi", sa.Distance), Inline: true},
			{Name: "Store ID", Value: fmt.Sprintf("`%s`", sa.StoreID), Inline: true},
		},
	}
}

func deltaStatus(d *domain.Delta) (string, int) {
	switch d.Kind {
	case domain.DeltaRestocked:
		return "RESTOCK ALERT", colorRestock
	case domain.DeltaOutOfStock:
		return "OUT OF STOCK", colorOutOfStock
	case domain.DeltaQuantityChanged:
		if d.Current.Quantity > d.PriorQuantity() {
			return "STOCK INCREASE", colorIncrease
		}
		return "STOCK DECREASE", colorDecrease
	case domain.DeltaNew:
		if d.Current.Quantity > 0 {
			return "NEW STORE IN STOCK", colorRestock
		}
		return "NEW STORE", colorInfo
	default:
		return "NO CHANGE", colorInfo
	}
}

func priorQuantityLabel(d *domain.Delta) string {
	if d.Prior == nil {
		return "N/A"
	}
	return formatQuantity(*d.Prior)
}

func formatQuantity(q int) string {
	switch {
	case q == 0:
		return "Out of Stock"
	case q >= 100:
		return "99+ in stock"
	default:
		return fmt.Sprintf("%d in stock", q)
	}
}

func storeName(sa *domain.StoreAvailability) string {
	if sa.StoreName == "" {
		return "Target " + sa.StoreID
	}
	return "Target " + sa.StoreName
}

func fullAddress(sa *domain.StoreAvailability) string {
	return fmt.Sprintf("%s, %s, %s %s", sa.Address, sa.City, sa.State, sa.ZipCode)
}

func phoneOrNA(phone string) string {
	if phone == "" {
		return "N/A"
	}
	return phone
}
