package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/sysmod-go/api"
	"github.com/yourusername/sysmod-go/internal/app"
	"github.com/yourusername/sysmod-go/internal/infrastructure"
	"github.com/yourusername/sysmod-go/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting sysmod intake server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("download_dir", config.Storage.DownloadDir))

	store, err := infrastructure.NewSQLiteStore(config.Storage.DatabasePath, config.Storage.DownloadDir)
	if err != nil {
		log.Fatal("Failed to open subject store", zap.Error(err))
	}
	defer store.Close()

	// Seed the allocator past every id already on record, so restarts
	// never reuse a notification id
	floor, err := store.MaxNotifyID()
	if err != nil {
		log.Fatal("Failed to read notify-id high-water mark", zap.Error(err))
	}
	ids := infrastructure.NewCounterAllocator(floor)

	actions := infrastructure.NewInstallerActionFactory(&config.Installer, log)

	svc := app.NewSubjectService(store, ids, store, actions, config.NetTest.Endpoint, log)

	router := api.SetupRouter(svc, log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", server.Addr))

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
