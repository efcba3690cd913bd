// Package printer drives ESC/POS thermal printers over raw TCP. A single
// print is one connection: initialize, write the lines, cut, close. No
// retries; callers treat failures as log-only events.
package printer

import (
	"bytes"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/Fidelio1234/qrcode-finale/internal/orders"
	"github.com/Fidelio1234/qrcode-finale/internal/receipt"
)

// ESC/POS command sequences.
var (
	cmdInit = []byte{0x1B, 0x40}       // ESC @  reset printer
	cmdCut  = []byte{0x1D, 0x56, 0x00} // GS V 0  full cut
)

// Sink accepts formatted receipt lines for a target printer address.
type Sink interface {
	Print(addr string, lines []string) error
}

// Network is a Sink over TCP, the transport ESC/POS network printers expose
// on port 9100.
type Network struct {
	port    int
	timeout time.Duration
}

// NewNetwork creates a network sink with the given printer port and dial
// timeout.
func NewNetwork(port int, timeout time.Duration) *Network {
	return &Network{port: port, timeout: timeout}
}

// Print sends the lines to the printer at addr, one attempt only.
func (n *Network) Print(addr string, lines []string) error {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(addr, strconv.Itoa(n.port)), n.timeout)
	if err != nil {
		return fmt.Errorf("printer %s unreachable: %w", addr, err)
	}
	defer conn.Close()

	var buf bytes.Buffer
	buf.Write(cmdInit)
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.Write(cmdCut)

	if _, err := conn.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("printer %s write failed: %w", addr, err)
	}
	log.Printf("printer: %d lines sent to %s", len(lines), addr)
	return nil
}

// Station binds a sink to the configured printer address and renders the
// receipts it prints. It satisfies the ledger's ticket printer contract.
type Station struct {
	sink  Sink
	addr  string
	nowFn func() time.Time
}

// NewStation creates a station printing to addr through sink.
func NewStation(sink Sink, addr string) *Station {
	return &Station{sink: sink, addr: addr, nowFn: time.Now}
}

// PrintKitchenTicket renders and prints the price-free kitchen ticket.
func (s *Station) PrintKitchenTicket(o orders.Order) error {
	return s.sink.Print(s.addr, receipt.KitchenTicket(o, s.nowFn()))
}

// PrintFinalBill renders and prints the priced bill for a table's orders.
func (s *Station) PrintFinalBill(tableOrders []orders.Order, table string) error {
	return s.sink.Print(s.addr, receipt.FinalBill(tableOrders, table, s.nowFn()))
}
