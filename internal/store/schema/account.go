package schema

import (
	"time"

	"github.com/google/uuid"
)

// Account represents the accounts table. Accounts are owned by the identity
// subsystem; this core only reads them for correlation.
type Account struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email         string    `gorm:"column:email;not null;uniqueIndex;type:text"`
	WalletAddress *string   `gorm:"column:wallet_address;uniqueIndex;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
