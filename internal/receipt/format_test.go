package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fidelio1234/qrcode-finale/internal/orders"
)

var printedAt = time.Date(2026, 3, 14, 20, 30, 0, 0, time.Local)

func pizzaOrder() orders.Order {
	return orders.Order{
		ID:    1,
		Table: "3",
		Items: []orders.LineItem{
			{Kind: orders.KindProduct, Product: "Pizza", Quantity: 2, UnitPrice: 8.00},
			{Kind: orders.KindCoverCharge, Product: "Coperto", Quantity: 2, UnitPrice: 2.00},
		},
	}
}

func TestKitchenTicketHasNoPrices(t *testing.T) {
	lines := KitchenTicket(pizzaOrder(), printedAt)

	assert.Contains(t, lines, "2 x Pizza")
	assert.Contains(t, lines, "TABLE: 3")
	for _, line := range lines {
		assert.NotContains(t, line, "euro")
	}
}

func TestKitchenTicketCoverChargeWithoutMultiplier(t *testing.T) {
	lines := KitchenTicket(pizzaOrder(), printedAt)

	assert.Contains(t, lines, "Coperto")
	for _, line := range lines {
		assert.NotContains(t, line, "x Coperto")
	}
}

func TestFinalBillLayout(t *testing.T) {
	lines := FinalBill([]orders.Order{pizzaOrder()}, "3", printedAt)
	joined := strings.Join(lines, "\n")

	assert.Contains(t, joined, "FINAL BILL:")
	assert.Contains(t, joined, "--- Order 1 ---")
	assert.Contains(t, joined, "TABLE TOTAL: euro 20.00")
	assert.Contains(t, joined, "Collect your receipt at the till")

	// priced lines fill the printer width with the amount flush right
	for _, line := range lines {
		if strings.Contains(line, "x Pizza") {
			assert.Len(t, line, lineWidth)
			assert.True(t, strings.HasSuffix(line, "euro 16.00"))
		}
	}
}

func TestFinalBillPerOrderTotals(t *testing.T) {
	second := orders.Order{
		ID:    2,
		Table: "3",
		Items: []orders.LineItem{
			{Kind: orders.KindProduct, Product: "Tiramisu", Quantity: 1, UnitPrice: 5.50},
		},
	}
	joined := strings.Join(FinalBill([]orders.Order{pizzaOrder(), second}, "3", printedAt), "\n")

	assert.Contains(t, joined, "Order total: euro 20.00")
	assert.Contains(t, joined, "Order total: euro 5.50")
	assert.Contains(t, joined, "TABLE TOTAL: euro 25.50")
}

// The sum of the itemized amounts on the bill must equal the ledger-computed
// table total.
func TestFinalBillRoundTrip(t *testing.T) {
	tableOrders := []orders.Order{pizzaOrder(), {
		ID:    2,
		Table: "3",
		Items: []orders.LineItem{
			{Kind: orders.KindProduct, Product: "Tiramisu", Quantity: 3, UnitPrice: 5.50},
		},
	}}

	var expected float64
	for _, o := range tableOrders {
		expected += o.Total()
	}

	amount := regexp.MustCompile(`euro (\d+\.\d{2})$`)
	var itemSum float64
	for _, line := range FinalBill(tableOrders, "3", printedAt) {
		m := amount.FindStringSubmatch(line)
		if m == nil || strings.Contains(line, "total") || strings.Contains(line, "TOTAL") {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		itemSum += v
	}
	assert.InDelta(t, expected, itemSum, 0.001)
}

func TestFinalBillEmptyOrders(t *testing.T) {
	joined := strings.Join(FinalBill(nil, "9", printedAt), "\n")
	assert.Contains(t, joined, "TABLE TOTAL: euro 0.00")
}
