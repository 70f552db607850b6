package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

// LedgerRecordFilter holds optional filters for listing ledger records
type LedgerRecordFilter struct {
	Kind      *domain.RecordKind
	Status    *domain.RecordStatus
	AccountID *uuid.UUID
	ProjectID *uuid.UUID
	// Address matches either side of the transaction
	Address  *string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// LedgerStats holds aggregate counts and volume over the mirrored ledger
type LedgerStats struct {
	TotalRecords     int64                        `json:"total_records"`
	PendingRecords   int64                        `json:"pending_records"`
	ConfirmedRecords int64                        `json:"confirmed_records"`
	FailedRecords    int64                        `json:"failed_records"`
	TotalVolume      string                       `json:"total_volume"` // sum of confirmed amounts, decimal text
	RecordsByKind    map[domain.RecordKind]int64  `json:"records_by_kind"`
}

// StatusAdvance carries the fields applied when a pending record advances to
// a terminal status
type StatusAdvance struct {
	Status       domain.RecordStatus
	GasUsed      *string
	GasPrice     *string
	Fee          *string
	ErrorMessage *string
	ConfirmedAt  time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateLedgerRecord inserts a record keyed by its transaction hash.
	// Returns false when a record with the same hash already exists; the
	// existing row is left untouched.
	CreateLedgerRecord(ctx context.Context, record *schema.LedgerRecord) (bool, error)
	// GetLedgerRecordByTxHash retrieves a record by transaction hash, nil if absent
	GetLedgerRecordByTxHash(ctx context.Context, txHash string) (*schema.LedgerRecord, error)
	// ListLedgerRecords retrieves records matching the filter plus the total count
	ListLedgerRecords(ctx context.Context, filter LedgerRecordFilter) ([]schema.LedgerRecord, int64, error)
	// GetLedgerStats computes aggregate counts and confirmed volume,
	// optionally scoped to one account
	GetLedgerStats(ctx context.Context, accountID *uuid.UUID) (*LedgerStats, error)
	// GetPendingLedgerRecords retrieves pending records oldest first
	GetPendingLedgerRecords(ctx context.Context, limit int) ([]schema.LedgerRecord, error)
	// AdvanceLedgerStatus moves a pending record to a terminal status.
	// Returns false when the record is absent or already terminal.
	AdvanceLedgerStatus(ctx context.Context, txHash string, advance StatusAdvance) (bool, error)
	// DeleteStalePendingRecords removes pending records created before the cutoff
	DeleteStalePendingRecords(ctx context.Context, cutoff time.Time) (int64, error)

	// FindAccountIDByAddress looks up an account by wallet address, nil on miss
	FindAccountIDByAddress(ctx context.Context, address string) (*uuid.UUID, error)
	// FindProjectIDByExternalID looks up a project by its registry-facing id, nil on miss
	FindProjectIDByExternalID(ctx context.Context, externalID string) (*uuid.UUID, error)
	// MarkProjectVerified sets the project status to verified and stamps the
	// verification time. Returns false when no project matches.
	MarkProjectVerified(ctx context.Context, externalID string, verifiedAt time.Time) (bool, error)

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}
