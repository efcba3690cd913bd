// Package receipt turns orders into printable text lines for a 32-column
// thermal printer. It is pure formatting: no I/O and no clock, the caller
// supplies the print timestamp.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/Fidelio1234/qrcode-finale/internal/orders"
)

// lineWidth is the column count of the thermal printer.
const lineWidth = 32

const (
	header       = "RISTORANTE BELLAVISTA"
	billFooter   = "Collect your receipt at the till"
	billGoodbye  = "Thank you, see you soon!"
	thinDivider  = "------------------------"
	thickDivider = "================================"
)

// KitchenTicket renders the price-free ticket handed to the kitchen. Cover
// charge lines print without a quantity multiplier.
func KitchenTicket(o orders.Order, at time.Time) []string {
	lines := []string{
		center(header),
		thinDivider,
		fmt.Sprintf("TABLE: %s", o.Table),
		fmt.Sprintf("DATE: %s", at.Format("02/01/2006 15:04")),
		thinDivider,
		"ORDER:",
		"",
	}
	for _, li := range o.Items {
		if li.Kind == orders.KindCoverCharge {
			lines = append(lines, li.Product)
			continue
		}
		lines = append(lines, fmt.Sprintf("%d x %s", li.Quantity, li.Product))
	}
	lines = append(lines, thinDivider, "", "", "")
	return lines
}

// FinalBill renders the priced bill for a table's orders: per-order sections
// with right-aligned subtotals, an order total each, and the grand total.
// Amounts are rounded to two decimals for display only.
func FinalBill(tableOrders []orders.Order, table string, at time.Time) []string {
	lines := []string{
		center(header),
		thinDivider,
		fmt.Sprintf("TABLE: %s", table),
		fmt.Sprintf("DATE: %s", at.Format("02/01/2006 15:04")),
		thinDivider,
		"FINAL BILL:",
		"",
	}

	var grandTotal float64
	for i, o := range tableOrders {
		lines = append(lines, fmt.Sprintf("--- Order %d ---", i+1))
		for _, li := range o.Items {
			label := fmt.Sprintf("%d x %s", li.Quantity, li.Product)
			if li.Kind == orders.KindCoverCharge {
				label = li.Product
			}
			lines = append(lines, priced(label, li.Total()))
		}
		lines = append(lines,
			"---",
			rightAlign(fmt.Sprintf("Order total: %s", euro(o.Total()))),
			"",
		)
		grandTotal += o.Total()
	}

	lines = append(lines,
		thickDivider,
		rightAlign(fmt.Sprintf("TABLE TOTAL: %s", euro(grandTotal))),
		"",
		thickDivider,
		"",
		center(billFooter),
		"",
		center(billGoodbye),
		"",
		"",
	)
	return lines
}

func euro(amount float64) string {
	return fmt.Sprintf("euro %.2f", amount)
}

// priced lays out a label with a right-aligned amount, keeping at least one
// space between them even when the label overflows the line.
func priced(label string, amount float64) string {
	price := euro(amount)
	gap := lineWidth - len(label) - len(price)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + price
}

func rightAlign(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	return strings.Repeat(" ", lineWidth-len(s)) + s
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	return strings.Repeat(" ", (lineWidth-len(s))/2) + s
}
