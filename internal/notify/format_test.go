package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

func intPtr(n int) *int { return &n }

func availability(storeID string, qty int, distance float64) domain.StoreAvailability {
	return domain.StoreAvailability{
		SKU:       "94693225",
		StoreID:   storeID,
		StoreName: "Store " + storeID,
		Address:   "123 Main St",
		City:      "Atlanta",
		State:     "GA",
		ZipCode:   "30307",
		Phone:     "404-555-0100",
		Distance:  distance,
		Quantity:  qty,
	}
}

func delta(kind domain.DeltaKind, storeID string, prior *int, current int) domain.Delta {
	return domain.Delta{
		Kind:    kind,
		Current: availability(storeID, current, 1.0),
		Prior:   prior,
	}
}

func TestFormatAlerts_FiltersUnchanged(t *testing.T) {
	t.Parallel()

	deltas := []domain.Delta{
		delta(domain.DeltaRestocked, "101", intPtr(0), 5),
		delta(domain.DeltaUnchanged, "102", intPtr(3), 3),
		delta(domain.DeltaOutOfStock, "103", intPtr(5), 0),
	}

	batch := FormatAlerts(deltas)
	require.Len(t, batch, 1)
	require.Len(t, batch[0].Embeds, 2)
	assert.Contains(t, batch[0].Embeds[0].Title, "RESTOCK ALERT")
	assert.Contains(t, batch[0].Embeds[1].Title, "OUT OF STOCK")
}

func TestFormatAlerts_EmptyAfterFiltering(t *testing.T) {
	t.Parallel()

	deltas := []domain.Delta{
		delta(domain.DeltaUnchanged, "101", intPtr(3), 3),
		delta(domain.DeltaUnchanged, "102", intPtr(0), 0),
	}

	assert.Empty(t, FormatAlerts(deltas))
	assert.Empty(t, FormatAlerts(nil))
}

func TestFormatAlerts_Colors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delta domain.Delta
		want  int
	}{
		{"restocked", delta(domain.DeltaRestocked, "1", intPtr(0), 5), colorRestock},
		{"out of stock", delta(domain.DeltaOutOfStock, "1", intPtr(5), 0), colorOutOfStock},
		{"increase", delta(domain.DeltaQuantityChanged, "1", intPtr(2), 7), colorIncrease},
		{"decrease", delta(domain.DeltaQuantityChanged, "1", intPtr(7), 2), colorDecrease},
		{"new with stock", delta(domain.DeltaNew, "1", nil, 4), colorRestock},
		{"new without stock", delta(domain.DeltaNew, "1", nil, 0), colorInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			batch := FormatAlerts([]domain.Delta{tt.delta})
			require.Len(t, batch, 1)
			require.Len(t, batch[0].Embeds, 1)
			assert.Equal(t, tt.want, batch[0].Embeds[0].Color)
		})
	}
}

func TestFormatAlerts_GroupsByEmbedLimit(t *testing.T) {
	t.Parallel()

	deltas := make([]domain.Delta, 23)
	for i := range deltas {
		deltas[i] = delta(domain.DeltaRestocked, fmt.Sprintf("%03d", i), intPtr(0), 1)
	}

	batch := FormatAlerts(deltas)
	require.Len(t, batch, 3)
	assert.Len(t, batch[0].Embeds, MaxEmbedsPerMessage)
	assert.Len(t, batch[1].Embeds, MaxEmbedsPerMessage)
	assert.Len(t, batch[2].Embeds, 3)

	// Concatenation preserves the filtered input order.
	var ids []string
	for _, msg := range batch {
		for _, e := range msg.Embeds {
			for _, f := range e.Fields {
				if f.Name == "Store ID" {
					ids = append(ids, strings.Trim(f.Value, "`"))
				}
			}
		}
	}
	require.Len(t, ids, 23)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("%03d", i), id)
	}
}

func TestFormatAlerts_NeverExceedsLimits(t *testing.T) {
	t.Parallel()

	deltas := make([]domain.Delta, 47)
	for i := range deltas {
		d := delta(domain.DeltaQuantityChanged, fmt.Sprintf("%d", i), intPtr(1), 2+i)
		// Pad addresses so the char limit also comes into play.
		d.Current.Address = strings.Repeat("Long Street Name ", 40)
		deltas[i] = d
	}

	for _, msg := range FormatAlerts(deltas) {
		assert.LessOrEqual(t, len(msg.Embeds), MaxEmbedsPerMessage)
		var chars int
		for i := range msg.Embeds {
			chars += msg.Embeds[i].chars()
		}
		assert.LessOrEqual(t, chars, MaxMessageChars)
	}
}

func TestFormatListing_SortsByDistance(t *testing.T) {
	t.Parallel()

	snapshot := domain.Snapshot{
		availability("202", 3, 10.0),
		availability("203", 1, 2.0),
	}

	batch := FormatListing("94693225", "30313", snapshot)
	require.Len(t, batch, 1)
	require.Len(t, batch[0].Embeds, 2)
	assert.Contains(t, batch[0].Embeds[0].Title, "203")
	assert.Contains(t, batch[0].Embeds[1].Title, "202")
	assert.Equal(t, "Stock for SKU 94693225 near 30313 - 2 stores (page 1/1)", batch[0].Content)
}

func TestFormatListing_TieBreakByStoreID(t *testing.T) {
	t.Parallel()

	snapshot := domain.Snapshot{
		availability("300", 1, 5.0),
		availability("100", 1, 5.0),
		availability("200", 1, 5.0),
	}

	batch := FormatListing("94693225", "30313", snapshot)
	require.Len(t, batch, 1)
	assert.Contains(t, batch[0].Embeds[0].Title, "100")
	assert.Contains(t, batch[0].Embeds[1].Title, "200")
	assert.Contains(t, batch[0].Embeds[2].Title, "300")
}

func TestFormatListing_Pagination(t *testing.T) {
	t.Parallel()

	snapshot := make(domain.Snapshot, 25)
	for i := range snapshot {
		snapshot[i] = availability(fmt.Sprintf("%03d", i), 1, float64(i))
	}

	batch := FormatListing("94693225", "30313", snapshot)
	require.Len(t, batch, 3) // ceil(25/10)

	for i, msg := range batch {
		assert.Equal(t, fmt.Sprintf(
			"Stock for SKU 94693225 near 30313 - 25 stores (page %d/3)", i+1,
		), msg.Content)
	}
	assert.Len(t, batch[2].Embeds, 5)
}

func TestFormatListing_EmptySnapshot(t *testing.T) {
	t.Parallel()

	batch := FormatListing("94693225", "30313", nil)
	require.Len(t, batch, 1)
	require.Len(t, batch[0].Embeds, 1)
	assert.Equal(t, "No stores found", batch[0].Embeds[0].Title)
	assert.Equal(t, colorError, batch[0].Embeds[0].Color)
}

func TestFormatQuantity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Out of Stock", formatQuantity(0))
	assert.Equal(t, "7 in stock", formatQuantity(7))
	assert.Equal(t, "99 in stock", formatQuantity(99))
	assert.Equal(t, "99+ in stock", formatQuantity(100))
	assert.Equal(t, "99+ in stock", formatQuantity(999))
}

func TestGroupEmbeds_SingleOversizedEmbed(t *testing.T) {
	t.Parallel()

	big := Embed{Title: strings.Repeat("x", MaxMessageChars+10)}
	batch := groupEmbeds([]Embed{big})
	require.Len(t, batch, 1)
	assert.Len(t, batch[0].Embeds, 1)
}
