package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fidelio1234/qrcode-finale/internal/api"
	"github.com/Fidelio1234/qrcode-finale/internal/config"
	"github.com/Fidelio1234/qrcode-finale/internal/license"
	"github.com/Fidelio1234/qrcode-finale/internal/menu"
	"github.com/Fidelio1234/qrcode-finale/internal/monitoring"
	"github.com/Fidelio1234/qrcode-finale/internal/orders"
	"github.com/Fidelio1234/qrcode-finale/internal/printer"
	"github.com/Fidelio1234/qrcode-finale/internal/store"
	"github.com/Fidelio1234/qrcode-finale/internal/tables"

	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dataStore, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}
	dataStore.EnsureSlots(store.SlotOrders, store.SlotMenu, store.SlotTables)

	licenses := license.NewManager(cfg.License.File)
	status, err := licenses.Init()
	if err != nil {
		log.Fatalf("Failed to initialize license: %v", err)
	}
	if status.Valid {
		log.Printf("License %s valid, %d days remaining", status.License.Type, status.DaysRemaining)
	} else {
		log.Printf("License invalid: %s", status.Reason)
	}

	metrics := monitoring.NewCollector()
	menuCatalog := menu.NewCatalog(dataStore)
	tracker := tables.NewTracker(dataStore)
	cover := api.NewCoverCharge()

	sink := printer.NewNetwork(cfg.Printer.Port, cfg.Printer.Timeout)
	station := printer.NewStation(sink, cfg.Printer.Address)

	ledger := orders.NewLedger(dataStore, menuCatalog, tracker, cover,
		orders.WithPrinter(station),
		orders.WithMetrics(metrics),
	)

	server := api.NewServer(cfg, licenses, menuCatalog, tracker, ledger, cover, station, metrics)

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, metrics)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on %s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, metrics *monitoring.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	log.Printf("Starting metrics server on port %d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Printf("Metrics server error: %v", err)
	}
}
