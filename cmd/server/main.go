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

	"go.uber.org/zap"

	"github.com/thanhnp/explorer-apis/internal/api"
	"github.com/thanhnp/explorer-apis/internal/cache"
	"github.com/thanhnp/explorer-apis/internal/chain"
	"github.com/thanhnp/explorer-apis/internal/config"
	"github.com/thanhnp/explorer-apis/internal/logger"
	"github.com/thanhnp/explorer-apis/internal/rpc"
	"github.com/thanhnp/explorer-apis/internal/service"
	"github.com/thanhnp/explorer-apis/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	logg.Info("Starting explorer block APIs server")

	// Optional persistent summary store
	var db *storage.PebbleDB
	var summaryStore *storage.SummaryStore
	if cfg.Pebble.Path != "" {
		logg.Info("Opening Pebble database", zap.String("path", cfg.Pebble.Path))
		db, err = storage.NewPebbleDB(cfg.Pebble.Path)
		if err != nil {
			logg.Fatal("Failed to open Pebble database", zap.Error(err))
		}
		summaryStore = storage.NewSummaryStore(db)
	}

	blockCache, err := cache.NewBlockCache(cfg.Cache.DetailSize, cfg.Cache.SummarySize, summaryStore)
	if err != nil {
		logg.Fatal("Failed to initialize block cache", zap.Error(err))
	}

	// Pool signature table: built once, read-only afterwards
	sigs := make([]chain.PoolSignature, 0, len(cfg.Pools))
	for _, p := range cfg.Pools {
		sigs = append(sigs, chain.PoolSignature{
			Signature: p.Signature,
			PoolName:  p.PoolName,
			URL:       p.URL,
		})
	}
	pools := chain.NewPoolMatcher(sigs)

	logg.Info("Connecting to chain node", zap.String("host", cfg.Node.Host))
	node, err := rpc.NewNodeClient(&cfg.Node)
	if err != nil {
		logg.Fatal("Failed to connect to chain node", zap.Error(err))
	}

	blocks := service.NewBlockService(node, blockCache, pools, logg, cfg.Blocks.ListLimit)

	router := api.NewRouter(blocks, logg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		logg.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down")

	node.Close()

	if db != nil {
		if err := db.Close(); err != nil {
			logg.Error("Error closing database", zap.Error(err))
		}
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP server shutdown error", zap.Error(err))
	}

	logg.Info("Server stopped")
}
