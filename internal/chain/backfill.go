package chain

import (
	"context"

	"go.uber.org/zap"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/logger"
)

const DEFAULT_BACKFILL_CHUNK_SIZE = 1000

// BackfillConfig holds the configuration for historical log replay
type BackfillConfig struct {
	ChainID   string
	ChunkSize uint64
}

// Backfiller replays historical registry logs in fixed-size block chunks.
// Replay is idempotent because the mirror ignores transaction hashes it has
// already recorded, so an interrupted run can simply be restarted.
type Backfiller struct {
	client  Client
	cursors CursorStore
	handler EventHandler
	config  BackfillConfig
}

// NewBackfiller creates a historical log replayer
func NewBackfiller(client Client, cursors CursorStore, handler EventHandler, cfg BackfillConfig) *Backfiller {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DEFAULT_BACKFILL_CHUNK_SIZE
	}
	return &Backfiller{
		client:  client,
		cursors: cursors,
		handler: handler,
		config:  cfg,
	}
}

// Run replays logs from fromBlock up to the chain head observed at start.
// The head is read once; blocks mined during the replay are left to the live
// listener. Returns the last fully processed block.
//
// A handler or decode failure on a single event is logged and skipped. A
// failed chunk query aborts the run with a BackfillInterruptedError naming
// the last block that completed.
func (b *Backfiller) Run(ctx context.Context, fromBlock uint64) (uint64, error) {
	head, err := b.client.ChainHead(ctx)
	if err != nil {
		return fromBlock, &domain.BackfillInterruptedError{LastProcessedBlock: fromBlock, Err: err}
	}

	if fromBlock > head {
		logger.InfoCtx(ctx, "No blocks to backfill",
			zap.Uint64("from_block", fromBlock),
			zap.Uint64("head", head))
		return fromBlock, nil
	}

	logger.InfoCtx(ctx, "Starting backfill",
		zap.String("chain", b.config.ChainID),
		zap.Uint64("from_block", fromBlock),
		zap.Uint64("head", head),
		zap.Uint64("chunk_size", b.config.ChunkSize))

	lastProcessed := fromBlock
	for start := fromBlock; start <= head; start += b.config.ChunkSize {
		select {
		case <-ctx.Done():
			return lastProcessed, &domain.BackfillInterruptedError{LastProcessedBlock: lastProcessed, Err: ctx.Err()}
		default:
		}

		end := start + b.config.ChunkSize - 1
		if end > head {
			end = head
		}

		logs, err := b.client.QueryLogs(ctx, EventSignatures(), start, end)
		if err != nil {
			return lastProcessed, &domain.BackfillInterruptedError{LastProcessedBlock: lastProcessed, Err: err}
		}

		for _, vLog := range logs {
			event, err := DecodeLog(vLog)
			if err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Error decoding backfilled log"),
					zap.String("tx_hash", vLog.TxHash.Hex()))
				continue
			}
			if event == nil {
				continue
			}

			if err := b.handler(ctx, event); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Error handling backfilled event"),
					zap.String("tx_hash", event.TxHash),
					zap.String("kind", string(event.Kind)))
			}
		}

		lastProcessed = end
		if err := b.cursors.SetBlockCursor(ctx, b.config.ChainID, end); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"))
		}
	}

	logger.InfoCtx(ctx, "Backfill complete",
		zap.String("chain", b.config.ChainID),
		zap.Uint64("last_block", lastProcessed))

	return lastProcessed, nil
}
