// Package mirror applies decoded registry events to the relational ledger.
// Every on-chain transaction becomes exactly one ledger record regardless of
// how many times its log is delivered; replays and races on the same
// transaction hash are absorbed by the store's insert-once contract.
package mirror

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/identity"
	"github.com/verdantlabs/carbon-ledger/internal/logger"
	"github.com/verdantlabs/carbon-ledger/internal/messaging"
	"github.com/verdantlabs/carbon-ledger/internal/store"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

// StatusUpdate carries a terminal status transition for one transaction
type StatusUpdate struct {
	TxHash       string
	Status       domain.RecordStatus
	GasUsed      *string
	GasPrice     *string
	ErrorMessage *string
}

// Mirror writes registry events into the ledger and keeps project
// verification state in sync
type Mirror struct {
	store     store.Store
	resolver  identity.Resolver
	publisher messaging.Publisher // optional
	json      adapter.JSON
	clock     adapter.Clock
}

// New creates a mirror. The publisher may be nil, in which case applied
// events are not forwarded to the broker.
func New(st store.Store, resolver identity.Resolver, publisher messaging.Publisher, jsonAdapter adapter.JSON, clock adapter.Clock) *Mirror {
	return &Mirror{
		store:     st,
		resolver:  resolver,
		publisher: publisher,
		json:      jsonAdapter,
		clock:     clock,
	}
}

// Apply mirrors one decoded registry event. Applying the same transaction
// hash twice is a no-op.
func (m *Mirror) Apply(ctx context.Context, event *domain.LedgerEvent) error {
	if event.Kind == domain.EventProjectVerified {
		return m.applyProjectVerified(ctx, event)
	}

	// Zero-address transfers are covered by the dedicated mint and retire
	// events, recording them again would double-count the movement.
	// Zero-amount transfers move nothing and are skipped as well.
	if event.Kind == domain.EventTransferred &&
		(domain.IsZeroAddress(event.FromAddress) ||
			domain.IsZeroAddress(event.ToAddress) ||
			domain.IsZeroAmount(event.Amount)) {
		logger.DebugCtx(ctx, "Skipping zero transfer",
			zap.String("tx_hash", event.TxHash))
		return nil
	}

	kind, ok := event.RecordKind()
	if !ok {
		return fmt.Errorf("%w: event kind %q produces no ledger record", domain.ErrInvalidLog, event.Kind)
	}

	return m.applyLedgerEvent(ctx, event, kind)
}

func (m *Mirror) applyLedgerEvent(ctx context.Context, event *domain.LedgerEvent, kind domain.RecordKind) error {
	accountID, projectID := m.correlate(ctx, event)

	metadata, err := m.buildMetadata(event)
	if err != nil {
		return fmt.Errorf("failed to build metadata: %w", err)
	}

	blockNumber := event.BlockNumber
	record := &schema.LedgerRecord{
		TxHash:      event.TxHash,
		Kind:        kind,
		Status:      domain.StatusPending,
		FromAddress: event.FromAddress,
		ToAddress:   event.ToAddress,
		Amount:      event.Amount,
		CreditID:    event.CreditID,
		BlockNumber: &blockNumber,
		Metadata:    metadata,
		AccountID:   accountID,
		ProjectID:   projectID,
	}

	created, err := m.store.CreateLedgerRecord(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to mirror event %s: %w", event.TxHash, err)
	}
	if !created {
		logger.DebugCtx(ctx, "Transaction already mirrored",
			zap.String("tx_hash", event.TxHash))
		return nil
	}

	logger.InfoCtx(ctx, "Mirrored registry event",
		zap.String("tx_hash", event.TxHash),
		zap.String("kind", string(kind)),
		zap.String("amount", event.Amount))

	m.publish(ctx, event)
	return nil
}

func (m *Mirror) applyProjectVerified(ctx context.Context, event *domain.LedgerEvent) error {
	if event.ProjectID == nil {
		return fmt.Errorf("%w: ProjectVerified without project id", domain.ErrInvalidLog)
	}

	marked, err := m.store.MarkProjectVerified(ctx, *event.ProjectID, m.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to mark project verified: %w", err)
	}
	if !marked {
		logger.WarnCtx(ctx, "Verified project not found in registry",
			zap.String("project_id", *event.ProjectID),
			zap.String("tx_hash", event.TxHash))
		return nil
	}

	logger.InfoCtx(ctx, "Project marked verified",
		zap.String("project_id", *event.ProjectID))

	m.publish(ctx, event)
	return nil
}

// correlate resolves the event to internal account and project ids.
// Resolution is best-effort: lookup failures are logged and the event is
// recorded without the correlation.
func (m *Mirror) correlate(ctx context.Context, event *domain.LedgerEvent) (*uuid.UUID, *uuid.UUID) {
	var accountID, projectID *uuid.UUID

	switch event.Kind {
	case domain.EventMinted:
		accountID = m.resolveAccount(ctx, event.ToAddress)
		if event.ProjectID != nil {
			id, err := m.resolver.FindProjectIDByExternalID(ctx, *event.ProjectID)
			if err != nil {
				logger.WarnCtx(ctx, "Project lookup failed",
					zap.String("project_id", *event.ProjectID),
					zap.Error(err))
			} else {
				projectID = id
			}
		}
	case domain.EventTransferred:
		// Prefer the sender, fall back to the receiver
		accountID = m.resolveAccount(ctx, event.FromAddress)
		if accountID == nil {
			accountID = m.resolveAccount(ctx, event.ToAddress)
		}
	case domain.EventRetired:
		accountID = m.resolveAccount(ctx, event.FromAddress)
	case domain.EventApproved:
		accountID = m.resolveAccount(ctx, event.FromAddress)
	}

	return accountID, projectID
}

func (m *Mirror) resolveAccount(ctx context.Context, address string) *uuid.UUID {
	if domain.IsZeroAddress(address) {
		return nil
	}

	id, err := m.resolver.FindAccountIDByAddress(ctx, address)
	if err != nil {
		logger.WarnCtx(ctx, "Account lookup failed",
			zap.String("address", address),
			zap.Error(err))
		return nil
	}
	return id
}

// buildMetadata assembles the free-form context column for the record kind
func (m *Mirror) buildMetadata(event *domain.LedgerEvent) (datatypes.JSON, error) {
	var payload map[string]interface{}

	switch event.Kind {
	case domain.EventMinted:
		payload = map[string]interface{}{}
		if event.ProjectID != nil {
			payload["project_id"] = *event.ProjectID
		}
		if event.CreditType != nil {
			payload["credit_type"] = *event.CreditType
		}
	case domain.EventRetired:
		if event.CreditID != nil {
			payload = map[string]interface{}{"credit_id": *event.CreditID}
		}
	}

	if len(payload) == 0 {
		return nil, nil
	}

	data, err := m.json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// AdvanceStatus moves a pending record to a terminal status, deriving the
// transaction fee when both gas fields are present. Returns false when the
// record is absent or already terminal.
func (m *Mirror) AdvanceStatus(ctx context.Context, update StatusUpdate) (bool, error) {
	advance := store.StatusAdvance{
		Status:       update.Status,
		GasUsed:      update.GasUsed,
		GasPrice:     update.GasPrice,
		ErrorMessage: update.ErrorMessage,
		ConfirmedAt:  m.clock.Now(),
	}

	if update.GasUsed != nil && update.GasPrice != nil {
		fee, err := domain.TransactionFee(*update.GasUsed, *update.GasPrice)
		if err != nil {
			return false, fmt.Errorf("failed to derive fee for %s: %w", update.TxHash, err)
		}
		advance.Fee = &fee
	}

	advanced, err := m.store.AdvanceLedgerStatus(ctx, update.TxHash, advance)
	if err != nil {
		return false, err
	}
	if !advanced {
		logger.DebugCtx(ctx, "Status advance skipped, record absent or terminal",
			zap.String("tx_hash", update.TxHash),
			zap.String("status", string(update.Status)))
		return false, nil
	}

	logger.InfoCtx(ctx, "Ledger record advanced",
		zap.String("tx_hash", update.TxHash),
		zap.String("status", string(update.Status)))

	return true, nil
}

func (m *Mirror) publish(ctx context.Context, event *domain.LedgerEvent) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to publish mirrored event"),
			zap.String("tx_hash", event.TxHash))
	}
}
