package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
	"github.com/verdantlabs/carbon-ledger/internal/chain"
	"github.com/verdantlabs/carbon-ledger/internal/config"
	"github.com/verdantlabs/carbon-ledger/internal/logger"
	"github.com/verdantlabs/carbon-ledger/internal/messaging"
	"github.com/verdantlabs/carbon-ledger/internal/mirror"
	"github.com/verdantlabs/carbon-ledger/internal/providers/jetstream"
	"github.com/verdantlabs/carbon-ledger/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadLedgerSyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ledger-sync",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Carbon Ledger Sync")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Initialize chain client
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Chain.WebSocketURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial chain node", zap.Error(err),
			zap.String("websocket_url", cfg.Chain.WebSocketURL))
	}
	defer ethClient.Close()
	chainClient := chain.NewClient(ethClient, cfg.Chain.ContractAddress)
	logger.InfoCtx(ctx, "Connected to chain node",
		zap.String("chain", cfg.Chain.ChainID),
		zap.String("contract", cfg.Chain.ContractAddress))

	// Initialize NATS publisher when a broker is configured
	var natsPublisher messaging.Publisher
	if cfg.NATS.URL != "" {
		natsJS := adapter.NewNatsJetStream()
		natsPublisher, err = jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, natsJS, jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer natsPublisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, mirrored events will not be published")
	}

	// The mirror applies decoded events to the ledger; the store doubles as
	// the identity resolver
	ledgerMirror := mirror.New(dataStore, dataStore, natsPublisher, jsonAdapter, clockAdapter)

	// Resume from the saved cursor, fall back to the configured start block
	resumeFrom := cfg.Chain.StartBlock
	cursor, err := dataStore.GetBlockCursor(ctx, cfg.Chain.ChainID)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read block cursor", zap.Error(err))
	}
	if cursor >= resumeFrom && cursor > 0 {
		resumeFrom = cursor + 1
	}

	// Replay the historical range before going live
	backfiller := chain.NewBackfiller(chainClient, dataStore, ledgerMirror.Apply, chain.BackfillConfig{
		ChainID:   cfg.Chain.ChainID,
		ChunkSize: cfg.Chain.ChunkSize,
	})
	if _, err := backfiller.Run(ctx, resumeFrom); err != nil {
		logger.FatalCtx(ctx, "Backfill failed", zap.Error(err))
	}

	// Start the live listener
	listener := chain.NewListener(chainClient, dataStore, ledgerMirror.Apply, clockAdapter, chain.ListenerConfig{
		ChainID:         cfg.Chain.ChainID,
		WorkerPoolSize:  cfg.Worker.WorkerPoolSize,
		WorkerQueueSize: cfg.Worker.WorkerQueueSize,
		CursorSaveFreq:  cfg.Chain.CursorSaveFreq,
		CursorSaveDelay: cfg.Chain.CursorSaveDelay,
	})
	if err := listener.Start(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to start listener", zap.Error(err))
	}
	defer listener.Stop()

	// Start the receipt confirmer
	confirmer := mirror.NewConfirmer(chainClient, dataStore, ledgerMirror, clockAdapter, mirror.ConfirmerConfig{
		Interval:          cfg.Chain.ConfirmInterval,
		ConfirmationDepth: cfg.Chain.ConfirmationDepth,
		StalePendingAge:   cfg.Chain.StalePendingAge,
	})
	defer confirmer.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := confirmer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or component failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "confirmer"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Carbon Ledger Sync stopped")
}
