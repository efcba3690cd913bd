package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fidelio1234/qrcode-finale/internal/config"
	"github.com/Fidelio1234/qrcode-finale/internal/license"
	"github.com/Fidelio1234/qrcode-finale/internal/menu"
	"github.com/Fidelio1234/qrcode-finale/internal/monitoring"
	"github.com/Fidelio1234/qrcode-finale/internal/orders"
	"github.com/Fidelio1234/qrcode-finale/internal/tables"
)

// BillPrinter prints the priced final bill for a table.
type BillPrinter interface {
	PrintFinalBill(tableOrders []orders.Order, table string) error
}

// Server wires the HTTP surface to the application components.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	licenses *license.Manager
	menu     *menu.Catalog
	tracker  *tables.Tracker
	ledger   *orders.Ledger
	bills    BillPrinter
	cover    *CoverCharge
	hub      *Hub
	metrics  *monitoring.Collector
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg *config.Config,
	licenses *license.Manager,
	menuCatalog *menu.Catalog,
	tracker *tables.Tracker,
	ledger *orders.Ledger,
	cover *CoverCharge,
	bills BillPrinter,
	metrics *monitoring.Collector,
) *Server {
	s := &Server{
		router:   gin.Default(),
		cfg:      cfg,
		licenses: licenses,
		menu:     menuCatalog,
		tracker:  tracker,
		ledger:   ledger,
		bills:    bills,
		cover:    cover,
		hub:      NewHub(),
		metrics:  metrics,
	}

	s.setupRoutes()
	return s
}

// Router returns the Gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(corsMiddleware())

	s.router.GET("/ws/kitchen", s.handleKitchenFeed)

	// public endpoints: reachable with any license state
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/keep-alive", s.handleKeepAlive)

	lic := s.router.Group("/api/license")
	{
		lic.GET("/status", s.handleLicenseStatus)
		lic.GET("/types", s.handleLicenseTypes)
		lic.GET("/debug", s.handleLicenseDebug)
		lic.POST("/activate", s.handleLicenseActivate)
		lic.POST("/trial", s.handleLicenseTrial)
		lic.POST("/reset", s.adminAuth(), s.handleLicenseReset)
	}

	// everything else requires a valid license
	gated := s.router.Group("/api", s.licenseGate())
	{
		gated.GET("/cover-charge", s.handleGetCoverCharge)
		gated.POST("/cover-charge", s.handleSetCoverCharge)

		gated.GET("/orders", s.handleActiveOrders)
		gated.GET("/orders/all", s.handleAllOrders)
		gated.GET("/orders/table/:table", s.handleTableOrders)
		gated.POST("/orders", s.handlePlaceOrder)
		gated.POST("/orders/:id/fulfilled", s.handleMarkFulfilled)
		gated.DELETE("/orders/table/:table", s.handleCloseTable)
		gated.POST("/orders/purge", s.handlePurgeOrders)

		gated.GET("/tables/occupied", s.handleOccupiedTables)
		gated.POST("/tables/occupy", s.handleOccupyTable)
		gated.POST("/tables/release", s.handleReleaseTable)
		gated.GET("/tables/debug", s.handleTablesDebug)
		gated.GET("/tables/:table/total", s.handleTableTotal)
		gated.POST("/tables/:table/print-bill", s.handlePrintBill)

		gated.GET("/menu", s.handleListMenu)
		gated.POST("/menu", s.handleAddProduct)
		gated.PUT("/menu/:id", s.handleUpdateProduct)
		gated.DELETE("/menu/:id", s.handleDeleteProduct)
		gated.DELETE("/menu/category/:category", s.handleDeleteCategory)
	}
}

// handleHealth reports process status, a statistics snapshot and the license
// summary. Always reachable so monitoring survives license expiry.
func (s *Server) handleHealth(c *gin.Context) {
	status := s.licenses.Verify()

	summary := gin.H{
		"valid":         status.Valid,
		"daysRemaining": status.DaysRemaining,
	}
	if status.License != nil {
		summary["type"] = status.License.Type
		summary["expiry"] = status.License.ExpiryDate
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"server":    "Ristorante Bellavista",
		"version":   "2.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"statistics": gin.H{
			"activeOrders":   len(s.ledger.ActiveOrders("")),
			"occupiedTables": len(s.tracker.ListOccupied()),
			"menuProducts":   len(s.menu.Products()),
			"uptimeSeconds":  int(s.metrics.Uptime().Seconds()),
		},
		"license": summary,
	})
}

func (s *Server) handleKeepAlive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Server running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetCoverCharge(c *gin.Context) {
	active, price := s.cover.Get()
	c.JSON(http.StatusOK, gin.H{"active": active, "price": price})
}

func (s *Server) handleSetCoverCharge(c *gin.Context) {
	var req struct {
		Active *bool    `json:"active"`
		Price  *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active and price are required"})
		return
	}
	s.cover.Set(*req.Active, *req.Price)
	c.JSON(http.StatusOK, gin.H{"active": *req.Active, "price": *req.Price})
}
