package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-api/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	cases := []struct {
		name   string
		stock  int64
		cost   string
		inQty  int64
		inCost string
		want   string
	}{
		{"sin stock previo toma el costo de entrada", 0, "0", 10, "500", "500"},
		{"promedia por cantidades", 10, "100", 10, "200", "150"},
		{"redondea a dos decimales", 2, "10", 1, "0", "6.67"},
		{"entrada vacía sobre stock vacío", 0, "0", 0, "100", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(tc.stock, decimal.RequireFromString(tc.cost), tc.inQty, decimal.RequireFromString(tc.inCost))
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}
