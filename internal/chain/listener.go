package chain

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/logger"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 8
	DEFAULT_WORKER_QUEUE_SIZE = 256
	DEFAULT_CURSOR_SAVE_FREQ  = 10
	DEFAULT_CURSOR_SAVE_DELAY = 30 * time.Second
)

// EventHandler processes one decoded registry event
type EventHandler func(ctx context.Context, event *domain.LedgerEvent) error

// CursorStore persists the last processed block number per chain
type CursorStore interface {
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}

// ListenerConfig holds the configuration for the live event listener
type ListenerConfig struct {
	ChainID         string
	WorkerPoolSize  int
	WorkerQueueSize int
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
}

// Listener maintains one live log subscription per registry event signature
// and dispatches decoded events to a worker pool.
type Listener struct {
	client  Client
	cursors CursorStore
	handler EventHandler
	clock   adapter.Clock
	config  ListenerConfig

	mu        sync.Mutex
	listening bool
	stopCh    chan struct{}
	subs      []ethereum.Subscription
	pool      pond.Pool

	cursorMu       sync.Mutex
	lastSavedBlock uint64
	lastSaveTime   time.Time
}

// NewListener creates a live registry event listener
func NewListener(client Client, cursors CursorStore, handler EventHandler, clock adapter.Clock, cfg ListenerConfig) *Listener {
	if cfg.WorkerPoolSize == 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	if cfg.WorkerQueueSize == 0 {
		cfg.WorkerQueueSize = DEFAULT_WORKER_QUEUE_SIZE
	}
	if cfg.CursorSaveFreq == 0 {
		cfg.CursorSaveFreq = DEFAULT_CURSOR_SAVE_FREQ
	}
	if cfg.CursorSaveDelay == 0 {
		cfg.CursorSaveDelay = DEFAULT_CURSOR_SAVE_DELAY
	}

	return &Listener{
		client:  client,
		cursors: cursors,
		handler: handler,
		clock:   clock,
		config:  cfg,
	}
}

// Start opens the log subscriptions and begins dispatching events. Calling
// Start while already listening is a no-op.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		logger.WarnCtx(ctx, "Already listening for registry events",
			zap.String("chain", l.config.ChainID))
		return nil
	}

	l.pool = pond.NewPool(
		l.config.WorkerPoolSize,
		pond.WithQueueSize(l.config.WorkerQueueSize),
		pond.WithContext(ctx),
	)
	l.stopCh = make(chan struct{})
	l.subs = nil
	l.lastSaveTime = l.clock.Now()

	for _, signature := range EventSignatures() {
		logs := make(chan types.Log, 64)
		sub, err := l.client.SubscribeLogs(ctx, []common.Hash{signature}, logs)
		if err != nil {
			for _, s := range l.subs {
				s.Unsubscribe()
			}
			l.subs = nil
			l.pool.StopAndWait()
			return err
		}

		l.subs = append(l.subs, sub)
		go l.consume(ctx, sub, logs)
	}

	l.listening = true
	logger.InfoCtx(ctx, "Listening for registry events",
		zap.String("chain", l.config.ChainID),
		zap.Int("subscriptions", len(l.subs)),
		zap.Int("workers", l.config.WorkerPoolSize))

	return nil
}

// Stop closes the subscriptions and drains the worker pool
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.listening {
		l.mu.Unlock()
		return
	}

	close(l.stopCh)
	for _, sub := range l.subs {
		sub.Unsubscribe()
	}
	l.subs = nil
	l.listening = false
	pool := l.pool
	l.mu.Unlock()

	pool.StopAndWait()
	logger.Info("Registry event listener stopped",
		zap.String("chain", l.config.ChainID))
}

// Listening reports whether the listener currently holds live subscriptions
func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

func (l *Listener) consume(ctx context.Context, sub ethereum.Subscription, logs <-chan types.Log) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case err := <-sub.Err():
			if err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Registry log subscription failed"))
			}
			return
		case vLog := <-logs:
			event, err := DecodeLog(vLog)
			if err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Error decoding registry log"),
					zap.String("tx_hash", vLog.TxHash.Hex()))
				continue
			}
			if event == nil {
				continue
			}

			l.pool.Submit(func() {
				if err := l.handler(ctx, event); err != nil {
					logger.ErrorCtx(ctx, err,
						zap.String("message", "Error handling registry event"),
						zap.String("tx_hash", event.TxHash),
						zap.String("kind", string(event.Kind)))
					return
				}
				l.saveCursor(ctx, event.BlockNumber)
			})
		}
	}
}

// saveCursor persists the block cursor every N blocks or N seconds,
// whichever comes first
func (l *Listener) saveCursor(ctx context.Context, blockNumber uint64) {
	l.cursorMu.Lock()
	defer l.cursorMu.Unlock()

	if blockNumber < l.lastSavedBlock {
		return
	}

	shouldSave := blockNumber-l.lastSavedBlock >= l.config.CursorSaveFreq ||
		l.clock.Since(l.lastSaveTime) >= l.config.CursorSaveDelay
	if !shouldSave {
		return
	}

	if err := l.cursors.SetBlockCursor(ctx, l.config.ChainID, blockNumber); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"))
		return
	}

	l.lastSavedBlock = blockNumber
	l.lastSaveTime = l.clock.Now()
}
