package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
)

// Client provides registry-scoped access to the chain node. All queries and
// subscriptions are pinned to the registry contract address.
//
//go:generate mockgen -source=client.go -destination=../mocks/chain_client.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// ChainHead returns the latest block number
	ChainHead(ctx context.Context) (uint64, error)
	// QueryLogs fetches historical registry logs for the given signatures
	// over an inclusive block range
	QueryLogs(ctx context.Context, signatures []common.Hash, fromBlock, toBlock uint64) ([]types.Log, error)
	// SubscribeLogs opens a live subscription for the given signatures
	SubscribeLogs(ctx context.Context, signatures []common.Hash, ch chan<- types.Log) (ethereum.Subscription, error)
	// TransactionReceipt returns the receipt of a mined transaction
	TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error)
	// Close closes the underlying connection
	Close()
}

type registryClient struct {
	client   adapter.EthClient
	contract common.Address
}

// NewClient creates a chain client scoped to the registry contract
func NewClient(ethClient adapter.EthClient, contractAddress string) Client {
	return &registryClient{
		client:   ethClient,
		contract: common.HexToAddress(contractAddress),
	}
}

func (c *registryClient) ChainHead(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain head: %w", err)
	}
	return header.Number.Uint64(), nil
}

func (c *registryClient) QueryLogs(ctx context.Context, signatures []common.Hash, fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{signatures},
	}

	logs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs [%d, %d]: %w", fromBlock, toBlock, err)
	}
	return logs, nil
}

func (c *registryClient) SubscribeLogs(ctx context.Context, signatures []common.Hash, ch chan<- types.Log) (ethereum.Subscription, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{signatures},
	}

	sub, err := c.client.SubscribeFilterLogs(ctx, query, ch)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to filter logs: %w", err)
	}
	return sub, nil
}

func (c *registryClient) TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	return receipt, nil
}

func (c *registryClient) Close() {
	if c.client == nil {
		return
	}
	c.client.Close()
}
