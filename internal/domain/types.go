package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// EventKind represents the kind of registry event decoded from a chain log
type EventKind string

const (
	EventMinted          EventKind = "minted"
	EventTransferred     EventKind = "transferred"
	EventRetired         EventKind = "retired"
	EventApproved        EventKind = "approved"
	EventProjectVerified EventKind = "project_verified"
)

// RecordKind represents the transaction type of a mirrored ledger record
type RecordKind string

const (
	RecordKindMint     RecordKind = "mint"
	RecordKindTransfer RecordKind = "transfer"
	RecordKindRetire   RecordKind = "retire"
	RecordKindApprove  RecordKind = "approve"
	RecordKindBurn     RecordKind = "burn"
)

// RecordStatus represents the lifecycle status of a mirrored ledger record.
// Pending may advance to Confirmed or Failed; both are terminal.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusConfirmed RecordStatus = "confirmed"
	StatusFailed    RecordStatus = "failed"
)

// Terminal reports whether the status accepts no further transitions
func (s RecordStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// LedgerEvent is a decoded registry event. It is transient: built by the
// decoder from one raw log, consumed once by the mirror, then discarded.
type LedgerEvent struct {
	Kind        EventKind `json:"kind"`
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	FromAddress string    `json:"from_address,omitempty"` // zero address for mints
	ToAddress   string    `json:"to_address,omitempty"`   // zero address for retirements
	Amount      string    `json:"amount,omitempty"`       // decimal text, non-negative
	CreditID    *string   `json:"credit_id,omitempty"`    // Minted/Retired
	ProjectID   *string   `json:"project_id,omitempty"`   // external project id (Minted/ProjectVerified)
	CreditType  *uint8    `json:"credit_type,omitempty"`  // Minted
}

// RecordKind maps the event kind to the ledger record kind it produces.
// ProjectVerified produces no ledger record and returns false.
func (e *LedgerEvent) RecordKind() (RecordKind, bool) {
	switch e.Kind {
	case EventMinted:
		return RecordKindMint, true
	case EventTransferred:
		return RecordKindTransfer, true
	case EventRetired:
		return RecordKindRetire, true
	case EventApproved:
		return RecordKindApprove, true
	default:
		return "", false
	}
}

// IsZeroAddress reports whether the address is the null/burn sentinel
func IsZeroAddress(address string) bool {
	return address == "" || strings.EqualFold(address, ZeroAddress)
}

// IsZeroAmount reports whether the decimal-text amount parses to zero.
// Unparseable text is not treated as zero.
func IsZeroAmount(amount string) bool {
	v, ok := new(big.Int).SetString(amount, 10)
	return ok && v.Sign() == 0
}

// TransactionFee derives the fee from gas used and gas price, both decimal
// text. Values up to 256 bits are handled without precision loss.
func TransactionFee(gasUsed, gasPrice string) (string, error) {
	used, ok := new(big.Int).SetString(gasUsed, 10)
	if !ok || used.Sign() < 0 {
		return "", fmt.Errorf("%w: gas used %q", ErrInvalidAmount, gasUsed)
	}

	price, ok := new(big.Int).SetString(gasPrice, 10)
	if !ok || price.Sign() < 0 {
		return "", fmt.Errorf("%w: gas price %q", ErrInvalidAmount, gasPrice)
	}

	return new(big.Int).Mul(used, price).String(), nil
}
