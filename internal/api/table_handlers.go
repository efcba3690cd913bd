package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleOccupiedTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.tracker.ListOccupied()})
}

func (s *Server) handleOccupyTable(c *gin.Context) {
	var req struct {
		Table TableID `json:"table"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table is required"})
		return
	}
	s.tracker.Occupy(string(req.Table))
	c.JSON(http.StatusOK, gin.H{"tables": s.tracker.ListOccupied()})
}

func (s *Server) handleReleaseTable(c *gin.Context) {
	var req struct {
		Table TableID `json:"table"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table is required"})
		return
	}
	released := s.tracker.Release(string(req.Table))
	c.JSON(http.StatusOK, gin.H{"released": released, "tables": s.tracker.ListOccupied()})
}

func (s *Server) handleTableTotal(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ClosedTableTotal(c.Param("table")))
}

// handleTablesDebug reports the occupancy set next to the occupancy derived
// from the ledger, so drift between the two is visible in the field.
func (s *Server) handleTablesDebug(c *gin.Context) {
	occupied := s.tracker.ListOccupied()
	derived := s.ledger.ActiveTables()

	derivedSet := make(map[string]bool, len(derived))
	for _, t := range derived {
		derivedSet[t] = true
	}
	occupiedSet := make(map[string]bool, len(occupied))
	for _, t := range occupied {
		occupiedSet[t] = true
	}

	drift := []string{}
	for _, t := range occupied {
		if !derivedSet[t] {
			drift = append(drift, t)
		}
	}
	for _, t := range derived {
		if !occupiedSet[t] {
			drift = append(drift, t)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"occupied":   occupied,
		"fromLedger": derived,
		"drift":      drift,
	})
}

// handlePrintBill prints the final bill for a table's active orders and
// reports the total. Unlike kitchen tickets, the bill print is synchronous:
// the waiter is standing at the till waiting for the paper.
func (s *Server) handlePrintBill(c *gin.Context) {
	table := c.Param("table")
	active := s.ledger.ActiveOrders(table)
	if len(active) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active orders for table " + table})
		return
	}

	var total float64
	for _, o := range active {
		total += o.Total()
	}

	printed := true
	if s.bills != nil {
		if err := s.bills.PrintFinalBill(active, table); err != nil {
			printed = false
			log.Printf("api: final bill for table %s failed: %v", table, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"table":      table,
		"orderCount": len(active),
		"total":      total,
		"printed":    printed,
	})
}
