package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateLedgerRecord inserts a record keyed by its transaction hash. Inserts
// racing on the same hash resolve via ON CONFLICT DO NOTHING, so the first
// writer wins and later writers observe created=false instead of an error.
func (s *pgStore) CreateLedgerRecord(ctx context.Context, record *schema.LedgerRecord) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create ledger record: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (s *pgStore) GetLedgerRecordByTxHash(ctx context.Context, txHash string) (*schema.LedgerRecord, error) {
	var record schema.LedgerRecord
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger record: %w", err)
	}
	return &record, nil
}

func (s *pgStore) ListLedgerRecords(ctx context.Context, filter LedgerRecordFilter) ([]schema.LedgerRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.LedgerRecord{})

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Address != nil {
		query = query.Where("from_address = ? OR to_address = ?", *filter.Address, *filter.Address)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger records: %w", err)
	}

	var records []schema.LedgerRecord
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger records: %w", err)
	}

	return records, total, nil
}

func (s *pgStore) GetLedgerStats(ctx context.Context, accountID *uuid.UUID) (*LedgerStats, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&schema.LedgerRecord{})
		if accountID != nil {
			q = q.Where("account_id = ?", *accountID)
		}
		return q
	}

	stats := &LedgerStats{
		RecordsByKind: make(map[domain.RecordKind]int64),
	}

	var statusCounts []struct {
		Status domain.RecordStatus
		Count  int64
	}
	err := base().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count records by status: %w", err)
	}
	for _, sc := range statusCounts {
		stats.TotalRecords += sc.Count
		switch sc.Status {
		case domain.StatusPending:
			stats.PendingRecords = sc.Count
		case domain.StatusConfirmed:
			stats.ConfirmedRecords = sc.Count
		case domain.StatusFailed:
			stats.FailedRecords = sc.Count
		}
	}

	var kindCounts []struct {
		Kind  domain.RecordKind
		Count int64
	}
	err = base().
		Select("kind, COUNT(*) AS count").
		Group("kind").
		Scan(&kindCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count records by kind: %w", err)
	}
	for _, kc := range kindCounts {
		stats.RecordsByKind[kc.Kind] = kc.Count
	}

	var volume string
	err = base().
		Where("status = ?", domain.StatusConfirmed).
		Select("COALESCE(SUM(amount), 0)::text").
		Scan(&volume).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum confirmed volume: %w", err)
	}
	if volume == "" {
		volume = "0"
	}
	stats.TotalVolume = volume

	return stats, nil
}

func (s *pgStore) GetPendingLedgerRecords(ctx context.Context, limit int) ([]schema.LedgerRecord, error) {
	var records []schema.LedgerRecord
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending ledger records: %w", err)
	}
	return records, nil
}

// AdvanceLedgerStatus moves a pending record to a terminal status. The WHERE
// clause pins the current status to pending, so records already confirmed or
// failed are never rewritten regardless of delivery order.
func (s *pgStore) AdvanceLedgerStatus(ctx context.Context, txHash string, advance StatusAdvance) (bool, error) {
	if !advance.Status.Terminal() {
		return false, fmt.Errorf("status %q is not terminal", advance.Status)
	}

	updates := map[string]interface{}{
		"status": advance.Status,
	}
	if advance.Status == domain.StatusConfirmed {
		updates["confirmed_at"] = advance.ConfirmedAt
	}
	if advance.GasUsed != nil {
		updates["gas_used"] = *advance.GasUsed
	}
	if advance.GasPrice != nil {
		updates["gas_price"] = *advance.GasPrice
	}
	if advance.Fee != nil {
		updates["fee"] = *advance.Fee
	}
	if advance.ErrorMessage != nil {
		updates["error_message"] = *advance.ErrorMessage
	}

	result := s.db.WithContext(ctx).
		Model(&schema.LedgerRecord{}).
		Where("tx_hash = ? AND status = ?", txHash, domain.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to advance ledger status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (s *pgStore) DeleteStalePendingRecords(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.StatusPending, cutoff).
		Delete(&schema.LedgerRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale pending records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *pgStore) FindAccountIDByAddress(ctx context.Context, address string) (*uuid.UUID, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).
		Select("id").
		Where("wallet_address = ?", address).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by address: %w", err)
	}
	return &account.ID, nil
}

func (s *pgStore) FindProjectIDByExternalID(ctx context.Context, externalID string) (*uuid.UUID, error) {
	var project schema.Project
	err := s.db.WithContext(ctx).
		Select("id").
		Where("external_id = ?", externalID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project by external id: %w", err)
	}
	return &project.ID, nil
}

func (s *pgStore) MarkProjectVerified(ctx context.Context, externalID string, verifiedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Project{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"status":      schema.ProjectStatusVerified,
			"verified_at": verifiedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark project verified: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", chain)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	key := fmt.Sprintf("block_cursor:%s", chain)
	value := strconv.FormatUint(blockNumber, 10)

	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
