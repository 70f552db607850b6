package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
)

var (
	testTxHash     = common.HexToHash("0x5f8a1c7e3bd2a90f4c6e8b1d2a3f4e5d6c7b8a9e0f1d2c3b4a5e6f7a8b9c0d1e")
	holderAddress  = common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	counterAddress = common.HexToAddress("0x2546BcD3c84621e976D8185a91A922aE77ECEc30")
)

func packEventData(t *testing.T, eventName string, values ...interface{}) []byte {
	t.Helper()

	data, err := registryABI.Events[eventName].Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return data
}

func TestDecodeLogCreditMinted(t *testing.T) {
	vLog := types.Log{
		TxHash:      testTxHash,
		BlockNumber: 1200,
		Topics: []common.Hash{
			creditMintedSignature,
			common.BigToHash(big.NewInt(42)),
			common.BytesToHash(holderAddress.Bytes()),
		},
		Data: packEventData(t, "CreditMinted", big.NewInt(1500), "PROJ-1", uint8(2)),
	}

	event, err := DecodeLog(vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventMinted, event.Kind)
	assert.Equal(t, testTxHash.Hex(), event.TxHash)
	assert.Equal(t, uint64(1200), event.BlockNumber)
	assert.Equal(t, domain.ZeroAddress, event.FromAddress)
	assert.Equal(t, holderAddress.Hex(), event.ToAddress)
	assert.Equal(t, "1500", event.Amount)
	require.NotNil(t, event.CreditID)
	assert.Equal(t, "42", *event.CreditID)
	require.NotNil(t, event.ProjectID)
	assert.Equal(t, "PROJ-1", *event.ProjectID)
	require.NotNil(t, event.CreditType)
	assert.Equal(t, uint8(2), *event.CreditType)
}

func TestDecodeLogTransfer(t *testing.T) {
	vLog := types.Log{
		TxHash:      testTxHash,
		BlockNumber: 1300,
		Topics: []common.Hash{
			transferSignature,
			common.BytesToHash(holderAddress.Bytes()),
			common.BytesToHash(counterAddress.Bytes()),
		},
		Data: packEventData(t, "Transfer", big.NewInt(250)),
	}

	event, err := DecodeLog(vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventTransferred, event.Kind)
	assert.Equal(t, holderAddress.Hex(), event.FromAddress)
	assert.Equal(t, counterAddress.Hex(), event.ToAddress)
	assert.Equal(t, "250", event.Amount)
	assert.Nil(t, event.CreditID)
	assert.Nil(t, event.ProjectID)
}

func TestDecodeLogCreditRetired(t *testing.T) {
	vLog := types.Log{
		TxHash:      testTxHash,
		BlockNumber: 1400,
		Topics: []common.Hash{
			creditRetiredSignature,
			common.BigToHash(big.NewInt(7)),
			common.BytesToHash(holderAddress.Bytes()),
		},
		Data: packEventData(t, "CreditRetired", big.NewInt(100)),
	}

	event, err := DecodeLog(vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventRetired, event.Kind)
	assert.Equal(t, holderAddress.Hex(), event.FromAddress)
	assert.Equal(t, domain.ZeroAddress, event.ToAddress)
	assert.Equal(t, "100", event.Amount)
	require.NotNil(t, event.CreditID)
	assert.Equal(t, "7", *event.CreditID)
}

func TestDecodeLogApproval(t *testing.T) {
	vLog := types.Log{
		TxHash:      testTxHash,
		BlockNumber: 1500,
		Topics: []common.Hash{
			approvalSignature,
			common.BytesToHash(holderAddress.Bytes()),
			common.BytesToHash(counterAddress.Bytes()),
		},
		Data: packEventData(t, "Approval", big.NewInt(9999)),
	}

	event, err := DecodeLog(vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventApproved, event.Kind)
	assert.Equal(t, holderAddress.Hex(), event.FromAddress)
	assert.Equal(t, counterAddress.Hex(), event.ToAddress)
	assert.Equal(t, "9999", event.Amount)
}

func TestDecodeLogProjectVerified(t *testing.T) {
	vLog := types.Log{
		TxHash:      testTxHash,
		BlockNumber: 1600,
		Topics:      []common.Hash{projectVerifiedSignature},
		Data:        packEventData(t, "ProjectVerified", "PROJ-1"),
	}

	event, err := DecodeLog(vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventProjectVerified, event.Kind)
	require.NotNil(t, event.ProjectID)
	assert.Equal(t, "PROJ-1", *event.ProjectID)
	assert.Empty(t, event.FromAddress)
	assert.Empty(t, event.ToAddress)
	assert.Empty(t, event.Amount)
}

func TestDecodeLogUnknownSignatureSkipped(t *testing.T) {
	vLog := types.Log{
		TxHash: testTxHash,
		Topics: []common.Hash{
			common.HexToHash("0xdeadbeef00000000000000000000000000000000000000000000000000000000"),
		},
	}

	event, err := DecodeLog(vLog)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestDecodeLogWithoutTopics(t *testing.T) {
	event, err := DecodeLog(types.Log{TxHash: testTxHash})
	assert.ErrorIs(t, err, domain.ErrInvalidLog)
	assert.Nil(t, event)
}

func TestDecodeLogERC721ShapedTransferRejected(t *testing.T) {
	// An NFT Transfer indexes the token id as a third topic and is not a
	// credit movement
	vLog := types.Log{
		TxHash: testTxHash,
		Topics: []common.Hash{
			transferSignature,
			common.BytesToHash(holderAddress.Bytes()),
			common.BytesToHash(counterAddress.Bytes()),
			common.BigToHash(big.NewInt(1)),
		},
	}

	event, err := DecodeLog(vLog)
	assert.ErrorIs(t, err, domain.ErrInvalidLog)
	assert.Nil(t, event)
}

func TestDecodeLogMalformedData(t *testing.T) {
	vLog := types.Log{
		TxHash: testTxHash,
		Topics: []common.Hash{
			creditMintedSignature,
			common.BigToHash(big.NewInt(42)),
			common.BytesToHash(holderAddress.Bytes()),
		},
		Data: []byte{0x01, 0x02, 0x03},
	}

	event, err := DecodeLog(vLog)
	assert.ErrorIs(t, err, domain.ErrInvalidLog)
	assert.Nil(t, event)
}

func TestEventSignaturesCoverAllRegistryEvents(t *testing.T) {
	signatures := EventSignatures()
	assert.Len(t, signatures, 5)
	assert.Contains(t, signatures, creditMintedSignature)
	assert.Contains(t, signatures, transferSignature)
	assert.Contains(t, signatures, creditRetiredSignature)
	assert.Contains(t, signatures, approvalSignature)
	assert.Contains(t, signatures, projectVerifiedSignature)
}
