package mirror

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
	"github.com/verdantlabs/carbon-ledger/internal/chain"
	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/logger"
	"github.com/verdantlabs/carbon-ledger/internal/store"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

const (
	DEFAULT_CONFIRM_INTERVAL   = 15 * time.Second
	DEFAULT_CONFIRM_BATCH_SIZE = 100
	DEFAULT_RECEIPT_RETRIES    = 3
)

// ConfirmerConfig holds the configuration for the receipt confirmer
type ConfirmerConfig struct {
	Interval          time.Duration
	BatchSize         int
	ConfirmationDepth uint64
	// StalePendingAge removes pending records older than this on each
	// sweep. Zero disables the cleanup.
	StalePendingAge time.Duration
}

// Confirmer polls receipts for pending ledger records and advances them to
// confirmed or failed once they are buried deep enough in the chain.
type Confirmer struct {
	client chain.Client
	store  store.Store
	mirror *Mirror
	clock  adapter.Clock
	config ConfirmerConfig

	running  atomic.Bool
	stopMu   sync.Mutex
	stopChan chan struct{}
}

// NewConfirmer creates a receipt confirmer
func NewConfirmer(client chain.Client, st store.Store, m *Mirror, clock adapter.Clock, cfg ConfirmerConfig) *Confirmer {
	if cfg.Interval == 0 {
		cfg.Interval = DEFAULT_CONFIRM_INTERVAL
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DEFAULT_CONFIRM_BATCH_SIZE
	}

	return &Confirmer{
		client: client,
		store:  st,
		mirror: m,
		clock:  clock,
		config: cfg,
	}
}

// Start runs the confirmation loop until the context is canceled or Stop is
// called. Returns an error when already running.
func (c *Confirmer) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return domain.ErrAlreadyRunning
	}
	defer c.running.Store(false)

	// A fresh channel per run so a stopped confirmer can be started again
	c.stopMu.Lock()
	c.stopChan = make(chan struct{})
	stopChan := c.stopChan
	c.stopMu.Unlock()

	logger.InfoCtx(ctx, "Starting receipt confirmer",
		zap.Duration("interval", c.config.Interval),
		zap.Int("batch_size", c.config.BatchSize),
		zap.Uint64("confirmation_depth", c.config.ConfirmationDepth))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Receipt confirmer stopping", zap.Error(ctx.Err()))
			return nil
		case <-stopChan:
			logger.InfoCtx(ctx, "Receipt confirmer stop requested")
			return nil
		case <-c.clock.After(c.config.Interval):
			if err := c.sweep(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// Stop requests the confirmation loop to exit. Safe to call repeatedly and
// before the first Start.
func (c *Confirmer) Stop() {
	c.stopMu.Lock()
	defer c.stopMu.Unlock()

	if c.stopChan == nil {
		return
	}
	select {
	case <-c.stopChan:
	default:
		close(c.stopChan)
	}
}

func (c *Confirmer) sweep(ctx context.Context) error {
	head, err := c.client.ChainHead(ctx)
	if err != nil {
		return err
	}

	records, err := c.store.GetPendingLedgerRecords(ctx, c.config.BatchSize)
	if err != nil {
		return err
	}

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.confirmRecord(ctx, record, head)
	}

	if c.config.StalePendingAge > 0 {
		cutoff := c.clock.Now().Add(-c.config.StalePendingAge)
		deleted, err := c.store.DeleteStalePendingRecords(ctx, cutoff)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to delete stale pending records"))
		} else if deleted > 0 {
			logger.InfoCtx(ctx, "Deleted stale pending records", zap.Int64("count", deleted))
		}
	}

	return nil
}

func (c *Confirmer) confirmRecord(ctx context.Context, record schema.LedgerRecord, head uint64) {
	receipt, err := c.fetchReceipt(ctx, record.TxHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			// Not mined yet, try again next sweep
			return
		}
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to fetch receipt"),
			zap.String("tx_hash", record.TxHash))
		return
	}

	// Wait until the transaction is buried deep enough to be considered final
	minedAt := receipt.BlockNumber.Uint64()
	if head < minedAt+c.config.ConfirmationDepth {
		return
	}

	update := StatusUpdate{TxHash: record.TxHash}
	if receipt.Status == types.ReceiptStatusSuccessful {
		gasUsed := strconv.FormatUint(receipt.GasUsed, 10)
		gasPrice := receipt.EffectiveGasPrice.String()
		update.Status = domain.StatusConfirmed
		update.GasUsed = &gasUsed
		update.GasPrice = &gasPrice
	} else {
		reason := "transaction reverted"
		update.Status = domain.StatusFailed
		update.ErrorMessage = &reason
	}

	if _, err := c.mirror.AdvanceStatus(ctx, update); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to advance ledger status"),
			zap.String("tx_hash", record.TxHash))
	}
}

// fetchReceipt retries transient node failures with exponential backoff.
// A missing receipt is permanent for this sweep, the record stays pending.
func (c *Confirmer) fetchReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	var receipt *types.Receipt

	operation := func() error {
		var err error
		receipt, err = c.client.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), DEFAULT_RECEIPT_RETRIES), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return receipt, nil
}
