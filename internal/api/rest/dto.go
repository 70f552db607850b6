package rest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

// LedgerRecordDTO is the API representation of one mirrored transaction
type LedgerRecordDTO struct {
	ID           uuid.UUID           `json:"id"`
	TxHash       string              `json:"tx_hash"`
	Kind         domain.RecordKind   `json:"kind"`
	Status       domain.RecordStatus `json:"status"`
	FromAddress  string              `json:"from_address"`
	ToAddress    string              `json:"to_address"`
	Amount       string              `json:"amount"`
	CreditID     *string             `json:"credit_id,omitempty"`
	BlockNumber  *uint64             `json:"block_number,omitempty"`
	GasUsed      *string             `json:"gas_used,omitempty"`
	GasPrice     *string             `json:"gas_price,omitempty"`
	Fee          *string             `json:"fee,omitempty"`
	Metadata     json.RawMessage     `json:"metadata,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	AccountID    *uuid.UUID          `json:"account_id,omitempty"`
	ProjectID    *uuid.UUID          `json:"project_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
}

// ListLedgerRecordsResponse is the paginated listing envelope
type ListLedgerRecordsResponse struct {
	Records []LedgerRecordDTO `json:"records"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

func toLedgerRecordDTO(record *schema.LedgerRecord) LedgerRecordDTO {
	return LedgerRecordDTO{
		ID:           record.ID,
		TxHash:       record.TxHash,
		Kind:         record.Kind,
		Status:       record.Status,
		FromAddress:  record.FromAddress,
		ToAddress:    record.ToAddress,
		Amount:       record.Amount,
		CreditID:     record.CreditID,
		BlockNumber:  record.BlockNumber,
		GasUsed:      record.GasUsed,
		GasPrice:     record.GasPrice,
		Fee:          record.Fee,
		Metadata:     json.RawMessage(record.Metadata),
		ErrorMessage: record.ErrorMessage,
		AccountID:    record.AccountID,
		ProjectID:    record.ProjectID,
		CreatedAt:    record.CreatedAt,
		ConfirmedAt:  record.ConfirmedAt,
	}
}

func toLedgerRecordDTOs(records []schema.LedgerRecord) []LedgerRecordDTO {
	dtos := make([]LedgerRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toLedgerRecordDTO(&records[i]))
	}
	return dtos
}
