package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbon-ledger/internal/api/middleware"
	"github.com/verdantlabs/carbon-ledger/internal/store"
)

// Handler defines the REST API handler interface
type Handler interface {
	// HealthCheck handles GET /health
	HealthCheck(c *gin.Context)
	// ListLedgerRecords handles GET /api/v1/ledger/records
	ListLedgerRecords(c *gin.Context)
	// ListAccountLedgerRecords handles GET /api/v1/accounts/:id/records
	ListAccountLedgerRecords(c *gin.Context)
	// ListProjectLedgerRecords handles GET /api/v1/projects/:id/records
	ListProjectLedgerRecords(c *gin.Context)
	// GetLedgerRecord handles GET /api/v1/ledger/records/:tx_hash
	GetLedgerRecord(c *gin.Context)
	// GetLedgerStats handles GET /api/v1/ledger/stats
	GetLedgerStats(c *gin.Context)
	// DeleteStalePendingRecords handles DELETE /api/v1/ledger/records/pending
	DeleteStalePendingRecords(c *gin.Context)
}

type handler struct {
	store store.Store
}

// NewHandler creates a new REST handler
func NewHandler(st store.Store) Handler {
	return &handler{store: st}
}

// HealthCheck returns service liveness
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLedgerRecords returns mirrored transactions matching the query filters
func (h *handler) ListLedgerRecords(c *gin.Context) {
	filter, err := ParseListLedgerRecordsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.listRecords(c, filter)
}

// ListAccountLedgerRecords returns the transactions correlated to one account.
// The remaining query filters still apply.
func (h *handler) ListAccountLedgerRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "Invalid account id")
		return
	}

	filter, err := ParseListLedgerRecordsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	filter.AccountID = &id

	h.listRecords(c, filter)
}

// ListProjectLedgerRecords returns the transactions correlated to one project
func (h *handler) ListProjectLedgerRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "Invalid project id")
		return
	}

	filter, err := ParseListLedgerRecordsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	filter.ProjectID = &id

	h.listRecords(c, filter)
}

func (h *handler) listRecords(c *gin.Context, filter *store.LedgerRecordFilter) {
	records, total, err := h.store.ListLedgerRecords(c.Request.Context(), *filter)
	if err != nil {
		respondInternalError(c, err, "Failed to list ledger records")
		return
	}

	c.JSON(http.StatusOK, ListLedgerRecordsResponse{
		Records: toLedgerRecordDTOs(records),
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

// GetLedgerRecord returns one mirrored transaction by its hash
func (h *handler) GetLedgerRecord(c *gin.Context) {
	txHash := c.Param("tx_hash")
	if txHash == "" {
		respondBadRequest(c, "Transaction hash is required")
		return
	}

	record, err := h.store.GetLedgerRecordByTxHash(c.Request.Context(), txHash)
	if err != nil {
		respondInternalError(c, err, "Failed to get ledger record",
			zap.String("tx_hash", txHash))
		return
	}
	if record == nil {
		respondNotFound(c, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, toLedgerRecordDTO(record))
}

// GetLedgerStats returns aggregate ledger counters. With scope=me the stats
// are restricted to the authenticated account.
func (h *handler) GetLedgerStats(c *gin.Context) {
	var accountID *uuid.UUID

	if c.Query("scope") == "me" {
		subject := middleware.AuthSubject(c)
		id, err := uuid.Parse(subject)
		if err != nil {
			respondBadRequest(c, "Token subject is not an account id")
			return
		}
		accountID = &id
	}

	stats, err := h.store.GetLedgerStats(c.Request.Context(), accountID)
	if err != nil {
		respondInternalError(c, err, "Failed to compute ledger stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteStalePendingRecords drops pending records older than the requested
// age. Operator-facing complement to the confirmer's periodic cleanup.
func (h *handler) DeleteStalePendingRecords(c *gin.Context) {
	age, err := time.ParseDuration(c.DefaultQuery("older_than", "24h"))
	if err != nil || age <= 0 {
		respondValidationError(c, "older_than must be a positive duration")
		return
	}

	deleted, err := h.store.DeleteStalePendingRecords(c.Request.Context(), time.Now().Add(-age))
	if err != nil {
		respondInternalError(c, err, "Failed to delete stale pending records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
