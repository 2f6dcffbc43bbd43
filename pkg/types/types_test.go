package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prior   *int
		current int
		want    DeltaKind
	}{
		{"no prior record", nil, 3, DeltaNew},
		{"no prior record zero quantity", nil, 0, DeltaNew},
		{"zero to positive", intPtr(0), 5, DeltaRestocked},
		{"positive to zero", intPtr(5), 0, DeltaOutOfStock},
		{"positive to higher", intPtr(2), 7, DeltaQuantityChanged},
		{"positive to lower", intPtr(7), 2, DeltaQuantityChanged},
		{"same positive", intPtr(4), 4, DeltaUnchanged},
		{"same zero", intPtr(0), 0, DeltaUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.prior, tt.current))
		})
	}
}

func TestClampQuantity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ClampQuantity(0))
	assert.Equal(t, 42, ClampQuantity(42))
	assert.Equal(t, HighStockDisplay, ClampQuantity(HighStockSentinel))
	assert.Equal(t, 0, ClampQuantity(-1))
}

func TestDeltaPriorQuantity(t *testing.T) {
	t.Parallel()

	d := Delta{Kind: DeltaNew}
	assert.Equal(t, 0, d.PriorQuantity())

	d = Delta{Kind: DeltaOutOfStock, Prior: intPtr(9)}
	assert.Equal(t, 9, d.PriorQuantity())
}
