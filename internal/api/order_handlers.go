package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fidelio1234/qrcode-finale/internal/orders"
)

// TableID accepts both string and numeric table identifiers in request
// bodies; tables are compared as strings everywhere after decoding.
type TableID string

func (t *TableID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TableID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = TableID(n.String())
		return nil
	}
	return fmt.Errorf("invalid table identifier: %s", data)
}

func (s *Server) handleActiveOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ActiveOrders(""))
}

func (s *Server) handleAllOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.AllOrders())
}

func (s *Server) handleTableOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ActiveOrders(c.Param("table")))
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req struct {
		Table TableID              `json:"table"`
		Items []orders.ItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}

	placed, err := s.ledger.PlaceOrder(string(req.Table), req.Items)
	if err != nil {
		s.writeOrderError(c, err)
		return
	}

	s.hub.Broadcast(Event{Type: EventOrderPlaced, Payload: placed})
	c.JSON(http.StatusCreated, placed)
}

func (s *Server) handleMarkFulfilled(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := s.ledger.MarkFulfilled(id)
	if err != nil {
		s.writeOrderError(c, err)
		return
	}

	s.hub.Broadcast(Event{Type: EventOrderFulfilled, Payload: order})
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleCloseTable(c *gin.Context) {
	table := c.Param("table")
	closed, err := s.ledger.CloseTable(table)
	if err != nil {
		s.writeOrderError(c, err)
		return
	}

	s.hub.Broadcast(Event{Type: EventTableClosed, Payload: gin.H{
		"table":        table,
		"ordersClosed": closed,
	}})
	c.JSON(http.StatusOK, gin.H{"table": table, "ordersClosed": closed})
}

// handlePurgeOrders forces a stale sweep and reports what it removed.
func (s *Server) handlePurgeOrders(c *gin.Context) {
	before := len(s.ledger.AllOrders())
	removed := s.ledger.StaleSweep()
	c.JSON(http.StatusOK, gin.H{
		"before":  before,
		"after":   before - len(removed),
		"removed": len(removed),
	})
}

func (s *Server) writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrIncompleteOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
