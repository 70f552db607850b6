package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
)

// LedgerRecord represents the ledger_records table - the durable mirror of one
// on-chain registry transaction, keyed by its transaction hash
type LedgerRecord struct {
	// ID is the internal database primary key
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	// TxHash is the natural key; a second event with the same hash updates
	// the existing row, never inserts a duplicate
	TxHash string `gorm:"column:tx_hash;not null;uniqueIndex;type:text"`
	// Kind is the transaction type (mint, transfer, retire, approve, burn)
	Kind domain.RecordKind `gorm:"column:kind;not null;type:text;index:idx_ledger_records_kind_status,priority:1"`
	// Status is the lifecycle status; pending advances to confirmed or failed
	Status domain.RecordStatus `gorm:"column:status;not null;type:text;default:pending;index:idx_ledger_records_kind_status,priority:2"`
	// FromAddress is the source wallet (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text;index"`
	// ToAddress is the destination wallet (zero address for retirements)
	ToAddress string `gorm:"column:to_address;not null;type:text;index"`
	// Amount is the credit amount as decimal text (up to 256 bits)
	Amount string `gorm:"column:amount;not null;type:decimal(78,0)"`
	// CreditID identifies the credit batch (mints and retirements)
	CreditID *string `gorm:"column:credit_id;type:text"`
	// BlockNumber is the block the transaction was included in
	BlockNumber *uint64 `gorm:"column:block_number;type:bigint"`
	// GasUsed and GasPrice are populated by the status-advance operation
	GasUsed  *string `gorm:"column:gas_used;type:decimal(78,0)"`
	GasPrice *string `gorm:"column:gas_price;type:decimal(78,0)"`
	// Fee is gas_used * gas_price, derived once both are known
	Fee *string `gorm:"column:fee;type:decimal(78,0)"`
	// Metadata holds free-form structured context (project id, credit type)
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// ErrorMessage records why a transaction was marked failed
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// AccountID is the best-effort correlated internal account
	AccountID *uuid.UUID `gorm:"column:account_id;type:uuid;index"`
	// ProjectID is the best-effort correlated internal project
	ProjectID *uuid.UUID `gorm:"column:project_id;type:uuid;index"`
	// CreatedAt is when the record was first mirrored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();index"`
	// ConfirmedAt is stamped by the status-advance operation
	ConfirmedAt *time.Time `gorm:"column:confirmed_at"`

	// Associations
	Account *Account `gorm:"foreignKey:AccountID"`
	Project *Project `gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for the LedgerRecord model
func (LedgerRecord) TableName() string {
	return "ledger_records"
}

// BeforeCreate assigns the primary key when not set
func (r *LedgerRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
