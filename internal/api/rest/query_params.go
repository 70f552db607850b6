package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/store"
)

const MAX_PAGE_SIZE = 100

var (
	validRecordKinds = map[domain.RecordKind]bool{
		domain.RecordKindMint:     true,
		domain.RecordKindTransfer: true,
		domain.RecordKindRetire:   true,
		domain.RecordKindApprove:  true,
		domain.RecordKindBurn:     true,
	}
	validRecordStatuses = map[domain.RecordStatus]bool{
		domain.StatusPending:   true,
		domain.StatusConfirmed: true,
		domain.StatusFailed:    true,
	}
)

// ListLedgerRecordsQueryParams holds query parameters for GET /ledger/records
type ListLedgerRecordsQueryParams struct {
	// Filters
	Kind      string `form:"kind"`
	Status    string `form:"status"`
	Address   string `form:"address"`
	AccountID string `form:"account_id"`
	ProjectID string `form:"project_id"`
	FromDate  string `form:"from_date"` // RFC 3339
	ToDate    string `form:"to_date"`   // RFC 3339

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParseListLedgerRecordsQuery parses and validates query parameters for
// GET /ledger/records, returning the store filter
func ParseListLedgerRecordsQuery(c *gin.Context) (*store.LedgerRecordFilter, error) {
	var params ListLedgerRecordsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limits
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	filter := &store.LedgerRecordFilter{
		Limit:  params.Limit,
		Offset: params.Offset,
	}

	if params.Kind != "" {
		kind := domain.RecordKind(params.Kind)
		if !validRecordKinds[kind] {
			return nil, fmt.Errorf("invalid kind %q", params.Kind)
		}
		filter.Kind = &kind
	}

	if params.Status != "" {
		status := domain.RecordStatus(params.Status)
		if !validRecordStatuses[status] {
			return nil, fmt.Errorf("invalid status %q", params.Status)
		}
		filter.Status = &status
	}

	if params.Address != "" {
		filter.Address = &params.Address
	}

	if params.AccountID != "" {
		id, err := uuid.Parse(params.AccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid account_id: %w", err)
		}
		filter.AccountID = &id
	}

	if params.ProjectID != "" {
		id, err := uuid.Parse(params.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project_id: %w", err)
		}
		filter.ProjectID = &id
	}

	if params.FromDate != "" {
		t, err := time.Parse(time.RFC3339, params.FromDate)
		if err != nil {
			return nil, fmt.Errorf("invalid from_date: %w", err)
		}
		filter.FromDate = &t
	}

	if params.ToDate != "" {
		t, err := time.Parse(time.RFC3339, params.ToDate)
		if err != nil {
			return nil, fmt.Errorf("invalid to_date: %w", err)
		}
		filter.ToDate = &t
	}

	return filter, nil
}
