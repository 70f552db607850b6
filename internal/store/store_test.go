package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
	"github.com/verdantlabs/carbon-ledger/internal/store/schema"
)

// Accounts and projects seeded by db/pg_test_data.sql
var (
	seedAccountAlice   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seedAccountBob     = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	seedProjectMangrove = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	aliceAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bobAddress   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func strPtr(s string) *string { return &s }

// buildTestRecord creates a pending ledger record with a unique tx hash
func buildTestRecord(kind domain.RecordKind, txHash string) *schema.LedgerRecord {
	block := uint64(120)
	return &schema.LedgerRecord{
		TxHash:      txHash,
		Kind:        kind,
		Status:      domain.StatusPending,
		FromAddress: domain.ZeroAddress,
		ToAddress:   aliceAddress,
		Amount:      "1000",
		BlockNumber: &block,
		Metadata:    datatypes.JSON([]byte(`{"project_id":"PROJ-1","credit_type":2}`)),
	}
}

func testCreateLedgerRecord(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first insert creates the record", func(t *testing.T) {
		record := buildTestRecord(domain.RecordKindMint, "0xtx_create_1")
		created, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_create_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.RecordKindMint, got.Kind)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.Equal(t, "1000", got.Amount)
		assert.NotEqual(t, uuid.Nil, got.ID)
	})

	t.Run("duplicate tx hash leaves the existing row untouched", func(t *testing.T) {
		record := buildTestRecord(domain.RecordKindMint, "0xtx_create_dup")
		created, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)
		require.True(t, created)

		replay := buildTestRecord(domain.RecordKindTransfer, "0xtx_create_dup")
		replay.Amount = "999999"
		created, err = store.CreateLedgerRecord(ctx, replay)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_create_dup")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.RecordKindMint, got.Kind)
		assert.Equal(t, "1000", got.Amount)
	})

	t.Run("lookup miss returns nil without error", func(t *testing.T) {
		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_never_seen")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func testAdvanceLedgerStatus(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("pending advances to confirmed with gas fields", func(t *testing.T) {
		record := buildTestRecord(domain.RecordKindMint, "0xtx_advance_1")
		_, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)

		now := time.Now().UTC()
		advanced, err := store.AdvanceLedgerStatus(ctx, "0xtx_advance_1", StatusAdvance{
			Status:      domain.StatusConfirmed,
			GasUsed:     strPtr("21000"),
			GasPrice:    strPtr("20000000000"),
			Fee:         strPtr("420000000000000"),
			ConfirmedAt: now,
		})
		require.NoError(t, err)
		assert.True(t, advanced)

		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_advance_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		require.NotNil(t, got.Fee)
		assert.Equal(t, "420000000000000", *got.Fee)
		require.NotNil(t, got.ConfirmedAt)
	})

	t.Run("terminal records never move again", func(t *testing.T) {
		record := buildTestRecord(domain.RecordKindRetire, "0xtx_advance_2")
		_, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)

		advanced, err := store.AdvanceLedgerStatus(ctx, "0xtx_advance_2", StatusAdvance{
			Status:      domain.StatusConfirmed,
			ConfirmedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		require.True(t, advanced)

		// Confirmed -> failed must be a no-op
		advanced, err = store.AdvanceLedgerStatus(ctx, "0xtx_advance_2", StatusAdvance{
			Status:       domain.StatusFailed,
			ErrorMessage: strPtr("reverted"),
		})
		require.NoError(t, err)
		assert.False(t, advanced)

		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_advance_2")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		assert.Nil(t, got.ErrorMessage)
	})

	t.Run("failure records the error message without a confirmation time", func(t *testing.T) {
		record := buildTestRecord(domain.RecordKindTransfer, "0xtx_advance_3")
		_, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)

		advanced, err := store.AdvanceLedgerStatus(ctx, "0xtx_advance_3", StatusAdvance{
			Status:       domain.StatusFailed,
			ErrorMessage: strPtr("transaction reverted"),
		})
		require.NoError(t, err)
		assert.True(t, advanced)

		got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_advance_3")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "transaction reverted", *got.ErrorMessage)
		assert.Nil(t, got.ConfirmedAt)
	})

	t.Run("unknown tx hash returns false", func(t *testing.T) {
		advanced, err := store.AdvanceLedgerStatus(ctx, "0xtx_missing", StatusAdvance{
			Status:      domain.StatusConfirmed,
			ConfirmedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, advanced)
	})

	t.Run("non-terminal target is rejected", func(t *testing.T) {
		_, err := store.AdvanceLedgerStatus(ctx, "0xtx_advance_1", StatusAdvance{
			Status: domain.StatusPending,
		})
		require.Error(t, err)
	})
}

func testListLedgerRecords(t *testing.T, store Store) {
	ctx := context.Background()

	seed := []*schema.LedgerRecord{
		{TxHash: "0xtx_list_1", Kind: domain.RecordKindMint, Status: domain.StatusConfirmed, FromAddress: domain.ZeroAddress, ToAddress: aliceAddress, Amount: "100", AccountID: &seedAccountAlice},
		{TxHash: "0xtx_list_2", Kind: domain.RecordKindTransfer, Status: domain.StatusPending, FromAddress: aliceAddress, ToAddress: bobAddress, Amount: "40", AccountID: &seedAccountAlice},
		{TxHash: "0xtx_list_3", Kind: domain.RecordKindRetire, Status: domain.StatusConfirmed, FromAddress: bobAddress, ToAddress: domain.ZeroAddress, Amount: "10", AccountID: &seedAccountBob},
	}
	for _, r := range seed {
		created, err := store.CreateLedgerRecord(ctx, r)
		require.NoError(t, err)
		require.True(t, created)
	}

	t.Run("filter by kind", func(t *testing.T) {
		kind := domain.RecordKindTransfer
		records, total, err := store.ListLedgerRecords(ctx, LedgerRecordFilter{Kind: &kind, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, records, 1)
		assert.Equal(t, "0xtx_list_2", records[0].TxHash)
	})

	t.Run("filter by address matches either side", func(t *testing.T) {
		records, total, err := store.ListLedgerRecords(ctx, LedgerRecordFilter{Address: &bobAddress, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, records, 2)
	})

	t.Run("filter by account", func(t *testing.T) {
		records, total, err := store.ListLedgerRecords(ctx, LedgerRecordFilter{AccountID: &seedAccountAlice, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, records, 2)
	})

	t.Run("pagination returns total across pages", func(t *testing.T) {
		status := domain.StatusConfirmed
		records, total, err := store.ListLedgerRecords(ctx, LedgerRecordFilter{Status: &status, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, records, 1)

		records, total, err = store.ListLedgerRecords(ctx, LedgerRecordFilter{Status: &status, Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, records, 1)
	})
}

func testGetLedgerStats(t *testing.T, store Store) {
	ctx := context.Background()

	seed := []*schema.LedgerRecord{
		{TxHash: "0xtx_stats_1", Kind: domain.RecordKindMint, Status: domain.StatusConfirmed, FromAddress: domain.ZeroAddress, ToAddress: aliceAddress, Amount: "100", AccountID: &seedAccountAlice},
		{TxHash: "0xtx_stats_2", Kind: domain.RecordKindMint, Status: domain.StatusConfirmed, FromAddress: domain.ZeroAddress, ToAddress: bobAddress, Amount: "200", AccountID: &seedAccountBob},
		{TxHash: "0xtx_stats_3", Kind: domain.RecordKindTransfer, Status: domain.StatusPending, FromAddress: aliceAddress, ToAddress: bobAddress, Amount: "50", AccountID: &seedAccountAlice},
		{TxHash: "0xtx_stats_4", Kind: domain.RecordKindRetire, Status: domain.StatusFailed, FromAddress: bobAddress, ToAddress: domain.ZeroAddress, Amount: "25", AccountID: &seedAccountBob},
	}
	for _, r := range seed {
		created, err := store.CreateLedgerRecord(ctx, r)
		require.NoError(t, err)
		require.True(t, created)
	}

	t.Run("global stats", func(t *testing.T) {
		stats, err := store.GetLedgerStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalRecords)
		assert.Equal(t, int64(1), stats.PendingRecords)
		assert.Equal(t, int64(2), stats.ConfirmedRecords)
		assert.Equal(t, int64(1), stats.FailedRecords)
		assert.Equal(t, "300", stats.TotalVolume)
		assert.Equal(t, int64(2), stats.RecordsByKind[domain.RecordKindMint])
		assert.Equal(t, int64(1), stats.RecordsByKind[domain.RecordKindTransfer])
	})

	t.Run("stats scoped to one account", func(t *testing.T) {
		stats, err := store.GetLedgerStats(ctx, &seedAccountAlice)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalRecords)
		assert.Equal(t, "100", stats.TotalVolume)
	})
}

func testGetPendingLedgerRecords(t *testing.T, store Store) {
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		record := buildTestRecord(domain.RecordKindMint, fmt.Sprintf("0xtx_pending_%d", i))
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		created, err := store.CreateLedgerRecord(ctx, record)
		require.NoError(t, err)
		require.True(t, created)
	}

	records, err := store.GetPendingLedgerRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Oldest first
	assert.Equal(t, "0xtx_pending_0", records[0].TxHash)
	assert.Equal(t, "0xtx_pending_1", records[1].TxHash)
}

func testDeleteStalePendingRecords(t *testing.T, store Store) {
	ctx := context.Background()

	stale := buildTestRecord(domain.RecordKindMint, "0xtx_stale_1")
	stale.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	_, err := store.CreateLedgerRecord(ctx, stale)
	require.NoError(t, err)

	fresh := buildTestRecord(domain.RecordKindMint, "0xtx_stale_2")
	_, err = store.CreateLedgerRecord(ctx, fresh)
	require.NoError(t, err)

	confirmed := buildTestRecord(domain.RecordKindMint, "0xtx_stale_3")
	confirmed.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	_, err = store.CreateLedgerRecord(ctx, confirmed)
	require.NoError(t, err)
	_, err = store.AdvanceLedgerStatus(ctx, "0xtx_stale_3", StatusAdvance{
		Status:      domain.StatusConfirmed,
		ConfirmedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	deleted, err := store.DeleteStalePendingRecords(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Fresh pending and old confirmed records survive
	got, err := store.GetLedgerRecordByTxHash(ctx, "0xtx_stale_1")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = store.GetLedgerRecordByTxHash(ctx, "0xtx_stale_2")
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = store.GetLedgerRecordByTxHash(ctx, "0xtx_stale_3")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func testIdentityLookups(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("account by wallet address", func(t *testing.T) {
		id, err := store.FindAccountIDByAddress(ctx, aliceAddress)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, seedAccountAlice, *id)
	})

	t.Run("unknown address returns nil", func(t *testing.T) {
		id, err := store.FindAccountIDByAddress(ctx, "0xcccccccccccccccccccccccccccccccccccccccc")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("project by external id", func(t *testing.T) {
		id, err := store.FindProjectIDByExternalID(ctx, "PROJ-1")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, seedProjectMangrove, *id)
	})

	t.Run("unknown external id returns nil", func(t *testing.T) {
		id, err := store.FindProjectIDByExternalID(ctx, "PROJ-404")
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}

func testMarkProjectVerified(t *testing.T, store Store) {
	ctx := context.Background()

	verifiedAt := time.Now().UTC()
	marked, err := store.MarkProjectVerified(ctx, "PROJ-1", verifiedAt)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = store.MarkProjectVerified(ctx, "PROJ-404", verifiedAt)
	require.NoError(t, err)
	assert.False(t, marked)
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing cursor reads as zero", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and get round trip", func(t *testing.T) {
		err := store.SetBlockCursor(ctx, "sepolia", 12345)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(12345), cursor)
	})

	t.Run("overwrite advances the cursor", func(t *testing.T) {
		err := store.SetBlockCursor(ctx, "sepolia", 12345)
		require.NoError(t, err)
		err = store.SetBlockCursor(ctx, "sepolia", 20000)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(20000), cursor)
	})
}

// RunStoreTests runs the suite against any Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CreateLedgerRecord", testCreateLedgerRecord},
		{"AdvanceLedgerStatus", testAdvanceLedgerStatus},
		{"ListLedgerRecords", testListLedgerRecords},
		{"GetLedgerStats", testGetLedgerStats},
		{"GetPendingLedgerRecords", testGetPendingLedgerRecords},
		{"DeleteStalePendingRecords", testDeleteStalePendingRecords},
		{"IdentityLookups", testIdentityLookups},
		{"MarkProjectVerified", testMarkProjectVerified},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
