package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
)

// Registry event signatures
var (
	// CreditMinted(uint256 indexed creditId, address indexed to, uint256 amount, string projectId, uint8 creditType)
	creditMintedSignature = crypto.Keccak256Hash([]byte("CreditMinted(uint256,address,uint256,string,uint8)"))

	// Transfer(address indexed from, address indexed to, uint256 value) - ERC20 shape
	transferSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	// CreditRetired(uint256 indexed creditId, address indexed retiredBy, uint256 amount)
	creditRetiredSignature = crypto.Keccak256Hash([]byte("CreditRetired(uint256,address,uint256)"))

	// Approval(address indexed owner, address indexed spender, uint256 value)
	approvalSignature = crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))

	// ProjectVerified(string projectId) - nothing indexed, payload in data
	projectVerifiedSignature = crypto.Keccak256Hash([]byte("ProjectVerified(string)"))
)

// EventSignatures returns the topic0 hashes of every registry event the
// ingestion pipeline handles
func EventSignatures() []common.Hash {
	return []common.Hash{
		creditMintedSignature,
		transferSignature,
		creditRetiredSignature,
		approvalSignature,
		projectVerifiedSignature,
	}
}

const registryABIJSON = `[
	{"type":"event","name":"CreditMinted","inputs":[
		{"name":"creditId","type":"uint256","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"projectId","type":"string","indexed":false},
		{"name":"creditType","type":"uint8","indexed":false}]},
	{"type":"event","name":"Transfer","inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"CreditRetired","inputs":[
		{"name":"creditId","type":"uint256","indexed":true},
		{"name":"retiredBy","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"Approval","inputs":[
		{"name":"owner","type":"address","indexed":true},
		{"name":"spender","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"ProjectVerified","inputs":[
		{"name":"projectId","type":"string","indexed":false}]}
]`

var registryABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid registry ABI: %v", err))
	}
	return parsed
}()

// DecodeLog decodes a raw chain log into a registry event.
//
// Logs whose topic0 does not match a registry event return (nil, nil) so that
// callers can tolerate unrelated logs in a shared stream. Logs that match a
// registry signature but carry a malformed payload return an error wrapping
// domain.ErrInvalidLog.
func DecodeLog(vLog types.Log) (*domain.LedgerEvent, error) {
	if len(vLog.Topics) == 0 {
		return nil, fmt.Errorf("%w: log without topics", domain.ErrInvalidLog)
	}

	event := &domain.LedgerEvent{
		TxHash:      vLog.TxHash.Hex(),
		BlockNumber: vLog.BlockNumber,
	}

	switch vLog.Topics[0] {
	case creditMintedSignature:
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("%w: CreditMinted expects 3 topics, got %d", domain.ErrInvalidLog, len(vLog.Topics))
		}
		values, err := registryABI.Events["CreditMinted"].Inputs.NonIndexed().Unpack(vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: CreditMinted data: %v", domain.ErrInvalidLog, err)
		}
		amount, ok1 := values[0].(*big.Int)
		projectID, ok2 := values[1].(string)
		creditType, ok3 := values[2].(uint8)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: CreditMinted data types", domain.ErrInvalidLog)
		}

		creditID := new(big.Int).SetBytes(vLog.Topics[1].Bytes()).String()
		event.Kind = domain.EventMinted
		event.FromAddress = domain.ZeroAddress
		event.ToAddress = common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()
		event.Amount = amount.String()
		event.CreditID = &creditID
		event.ProjectID = &projectID
		event.CreditType = &creditType

	case transferSignature:
		if len(vLog.Topics) != 3 {
			// ERC721-shaped Transfer with an indexed third argument is not
			// a registry credit movement
			return nil, fmt.Errorf("%w: Transfer expects 3 topics, got %d", domain.ErrInvalidLog, len(vLog.Topics))
		}
		values, err := registryABI.Events["Transfer"].Inputs.NonIndexed().Unpack(vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: Transfer data: %v", domain.ErrInvalidLog, err)
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: Transfer data types", domain.ErrInvalidLog)
		}

		event.Kind = domain.EventTransferred
		event.FromAddress = common.BytesToAddress(vLog.Topics[1].Bytes()).Hex()
		event.ToAddress = common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()
		event.Amount = amount.String()

	case creditRetiredSignature:
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("%w: CreditRetired expects 3 topics, got %d", domain.ErrInvalidLog, len(vLog.Topics))
		}
		values, err := registryABI.Events["CreditRetired"].Inputs.NonIndexed().Unpack(vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: CreditRetired data: %v", domain.ErrInvalidLog, err)
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: CreditRetired data types", domain.ErrInvalidLog)
		}

		creditID := new(big.Int).SetBytes(vLog.Topics[1].Bytes()).String()
		event.Kind = domain.EventRetired
		event.FromAddress = common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()
		event.ToAddress = domain.ZeroAddress
		event.Amount = amount.String()
		event.CreditID = &creditID

	case approvalSignature:
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("%w: Approval expects 3 topics, got %d", domain.ErrInvalidLog, len(vLog.Topics))
		}
		values, err := registryABI.Events["Approval"].Inputs.NonIndexed().Unpack(vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: Approval data: %v", domain.ErrInvalidLog, err)
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: Approval data types", domain.ErrInvalidLog)
		}

		event.Kind = domain.EventApproved
		event.FromAddress = common.BytesToAddress(vLog.Topics[1].Bytes()).Hex()
		event.ToAddress = common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()
		event.Amount = amount.String()

	case projectVerifiedSignature:
		values, err := registryABI.Events["ProjectVerified"].Inputs.NonIndexed().Unpack(vLog.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: ProjectVerified data: %v", domain.ErrInvalidLog, err)
		}
		projectID, ok := values[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: ProjectVerified data types", domain.ErrInvalidLog)
		}

		event.Kind = domain.EventProjectVerified
		event.ProjectID = &projectID

	default:
		// Unrelated log in the stream, skip
		return nil, nil
	}

	return event, nil
}
