package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKindMapping(t *testing.T) {
	tests := []struct {
		event EventKind
		kind  RecordKind
		ok    bool
	}{
		{EventMinted, RecordKindMint, true},
		{EventTransferred, RecordKindTransfer, true},
		{EventRetired, RecordKindRetire, true},
		{EventApproved, RecordKindApprove, true},
		{EventProjectVerified, "", false},
		{EventKind("unknown"), "", false},
	}

	for _, tt := range tests {
		event := &LedgerEvent{Kind: tt.event}
		kind, ok := event.RecordKind()
		assert.Equal(t, tt.ok, ok, "event %s", tt.event)
		assert.Equal(t, tt.kind, kind, "event %s", tt.event)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, IsZeroAddress(ZeroAddress))
	assert.True(t, IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.True(t, IsZeroAddress(""))
	assert.False(t, IsZeroAddress("0x1111111111111111111111111111111111111111"))
}

func TestIsZeroAmount(t *testing.T) {
	assert.True(t, IsZeroAmount("0"))
	assert.True(t, IsZeroAmount("000"))
	assert.False(t, IsZeroAmount("1"))
	assert.False(t, IsZeroAmount("1000000000000000000"))
	// Unparseable text must not be mistaken for zero
	assert.False(t, IsZeroAmount(""))
	assert.False(t, IsZeroAmount("abc"))
}

func TestTransactionFee(t *testing.T) {
	fee, err := TransactionFee("21000", "20000000000")
	require.NoError(t, err)
	assert.Equal(t, "420000000000000", fee)
}

func TestTransactionFeeLargeValues(t *testing.T) {
	// Values near the 256-bit range must not lose precision
	fee, err := TransactionFee("115792089237316195423570985008687907853269984665640564039457", "2")
	require.NoError(t, err)
	assert.Equal(t, "231584178474632390847141970017375815706539969331281128078914", fee)
}

func TestTransactionFeeInvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		gasUsed  string
		gasPrice string
	}{
		{"empty gas used", "", "1"},
		{"non-numeric gas used", "abc", "1"},
		{"negative gas used", "-21000", "1"},
		{"empty gas price", "21000", ""},
		{"non-numeric gas price", "21000", "abc"},
		{"negative gas price", "21000", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransactionFee(tt.gasUsed, tt.gasPrice)
			require.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}
