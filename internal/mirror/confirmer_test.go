package mirror

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbon-ledger/internal/adapter"
	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/mocks"
	"github.com/verdantlabs/carbon-ledger/internal/store"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

type confirmerMocks struct {
	client *mocks.MockChainClient
	store  *mocks.MockStore
	clock  *mocks.MockClock
}

func newTestConfirmer(t *testing.T, cfg ConfirmerConfig) (*Confirmer, confirmerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := confirmerMocks{
		client: mocks.NewMockChainClient(ctrl),
		store:  mocks.NewMockStore(ctrl),
		clock:  mocks.NewMockClock(ctrl),
	}

	resolver := mocks.NewMockResolver(ctrl)
	mirror := New(m.store, resolver, nil, adapter.NewJSON(), m.clock)

	return NewConfirmer(m.client, m.store, mirror, m.clock, cfg), m
}

func pendingRecord(txHash string) schema.LedgerRecord {
	return schema.LedgerRecord{
		TxHash:      txHash,
		Kind:        domain.RecordKindTransfer,
		Status:      domain.StatusPending,
		FromAddress: senderAddress,
		ToAddress:   receiverAddress,
		Amount:      "250",
	}
}

func TestConfirmerSweepConfirmsBuriedTransaction(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{ConfirmationDepth: 6})
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	mk.client.EXPECT().ChainHead(ctx).Return(uint64(120), nil)
	mk.store.EXPECT().GetPendingLedgerRecords(ctx, DEFAULT_CONFIRM_BATCH_SIZE).
		Return([]schema.LedgerRecord{pendingRecord(testTxHash)}, nil)

	mk.client.EXPECT().TransactionReceipt(ctx, testTxHash).Return(&types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		BlockNumber:       big.NewInt(100),
		GasUsed:           21000,
		EffectiveGasPrice: big.NewInt(20000000000),
	}, nil)

	mk.clock.EXPECT().Now().Return(now)
	mk.store.EXPECT().
		AdvanceLedgerStatus(ctx, testTxHash, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, advance store.StatusAdvance) (bool, error) {
			assert.Equal(t, domain.StatusConfirmed, advance.Status)
			require.NotNil(t, advance.GasUsed)
			assert.Equal(t, "21000", *advance.GasUsed)
			require.NotNil(t, advance.GasPrice)
			assert.Equal(t, "20000000000", *advance.GasPrice)
			require.NotNil(t, advance.Fee)
			assert.Equal(t, "420000000000000", *advance.Fee)
			return true, nil
		})

	require.NoError(t, confirmer.sweep(ctx))
}

func TestConfirmerSweepWaitsForConfirmationDepth(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{ConfirmationDepth: 6})
	ctx := context.Background()

	mk.client.EXPECT().ChainHead(ctx).Return(uint64(104), nil)
	mk.store.EXPECT().GetPendingLedgerRecords(ctx, DEFAULT_CONFIRM_BATCH_SIZE).
		Return([]schema.LedgerRecord{pendingRecord(testTxHash)}, nil)

	mk.client.EXPECT().TransactionReceipt(ctx, testTxHash).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(100),
	}, nil)
	// Mined 4 blocks ago with depth 6 required, the record stays pending

	require.NoError(t, confirmer.sweep(ctx))
}

func TestConfirmerSweepMarksRevertedTransactionFailed(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{ConfirmationDepth: 6})
	ctx := context.Background()

	mk.client.EXPECT().ChainHead(ctx).Return(uint64(120), nil)
	mk.store.EXPECT().GetPendingLedgerRecords(ctx, DEFAULT_CONFIRM_BATCH_SIZE).
		Return([]schema.LedgerRecord{pendingRecord(testTxHash)}, nil)

	mk.client.EXPECT().TransactionReceipt(ctx, testTxHash).Return(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(100),
	}, nil)

	mk.clock.EXPECT().Now().Return(time.Now())
	mk.store.EXPECT().
		AdvanceLedgerStatus(ctx, testTxHash, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, advance store.StatusAdvance) (bool, error) {
			assert.Equal(t, domain.StatusFailed, advance.Status)
			require.NotNil(t, advance.ErrorMessage)
			assert.Equal(t, "transaction reverted", *advance.ErrorMessage)
			assert.Nil(t, advance.GasUsed)
			assert.Nil(t, advance.Fee)
			return true, nil
		})

	require.NoError(t, confirmer.sweep(ctx))
}

func TestConfirmerSweepUnminedReceiptStaysPending(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{ConfirmationDepth: 6})
	ctx := context.Background()

	mk.client.EXPECT().ChainHead(ctx).Return(uint64(120), nil)
	mk.store.EXPECT().GetPendingLedgerRecords(ctx, DEFAULT_CONFIRM_BATCH_SIZE).
		Return([]schema.LedgerRecord{pendingRecord(testTxHash)}, nil)

	// A missing receipt is permanent for the sweep, no retries and no advance
	mk.client.EXPECT().TransactionReceipt(ctx, testTxHash).Return(nil, ethereum.NotFound).Times(1)

	require.NoError(t, confirmer.sweep(ctx))
}

func TestConfirmerSweepDeletesStalePendingRecords(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{
		ConfirmationDepth: 6,
		StalePendingAge:   time.Hour,
	})
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	mk.client.EXPECT().ChainHead(ctx).Return(uint64(120), nil)
	mk.store.EXPECT().GetPendingLedgerRecords(ctx, DEFAULT_CONFIRM_BATCH_SIZE).
		Return(nil, nil)

	mk.clock.EXPECT().Now().Return(now)
	mk.store.EXPECT().DeleteStalePendingRecords(ctx, now.Add(-time.Hour)).Return(int64(2), nil)

	require.NoError(t, confirmer.sweep(ctx))
}

func TestConfirmerStartTwiceReturnsAlreadyRunning(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{})

	never := make(chan time.Time)
	mk.clock.EXPECT().After(DEFAULT_CONFIRM_INTERVAL).Return(never).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- confirmer.Start(ctx)
	}()

	// Give the loop time to take the running flag
	time.Sleep(50 * time.Millisecond)
	assert.ErrorIs(t, confirmer.Start(ctx), domain.ErrAlreadyRunning)

	confirmer.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for confirmer to stop")
	}
}

func TestConfirmerStopIsIdempotent(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{})

	// Stop before the first Start is a no-op
	confirmer.Stop()

	never := make(chan time.Time)
	mk.clock.EXPECT().After(DEFAULT_CONFIRM_INTERVAL).Return(never).AnyTimes()

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- confirmer.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	confirmer.Stop()
	confirmer.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for confirmer to stop")
	}
}

func TestConfirmerRestartsAfterStop(t *testing.T) {
	confirmer, mk := newTestConfirmer(t, ConfirmerConfig{})

	never := make(chan time.Time)
	mk.clock.EXPECT().After(DEFAULT_CONFIRM_INTERVAL).Return(never).AnyTimes()

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		done := make(chan error, 1)
		go func() {
			done <- confirmer.Start(ctx)
		}()

		time.Sleep(50 * time.Millisecond)
		confirmer.Stop()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for confirmer to stop")
		}
	}
}
