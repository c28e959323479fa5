package sellers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSellersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	profiles := `
CREATE TABLE IF NOT EXISTS seller_profiles (
  id TEXT PRIMARY KEY,
  stripe_account_id TEXT UNIQUE,
  stripe_verified INTEGER NOT NULL DEFAULT 0,
  is_seller INTEGER NOT NULL DEFAULT 0,
  credits INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(profiles).Error)
	require.NoError(t, db.Exec("DELETE FROM seller_profiles").Error)
	return db
}

func TestUpsertAccountStatusCreatesProfile(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.UpsertAccountStatus(ctx, userID, "acct_new_1", true))

	got, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got.StripeAccountID)
	assert.Equal(t, "acct_new_1", *got.StripeAccountID)
	assert.True(t, got.StripeVerified)
	assert.True(t, got.IsSeller)
}

func TestUpsertAccountStatusUpdatesExistingProfile(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.UpsertAccountStatus(ctx, userID, "acct_upd_1", true))
	require.NoError(t, repo.UpsertAccountStatus(ctx, userID, "acct_upd_1", false))

	got, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, got.StripeVerified)
	assert.False(t, got.IsSeller)
}

func TestUpdateByAccountID(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.UpsertAccountStatus(ctx, userID, "acct_by_id_1", false))

	affected, err := repo.UpdateByAccountID(ctx, "acct_by_id_1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, got.StripeVerified)
	assert.True(t, got.IsSeller)
}

func TestUpdateByAccountIDUnknownAccount(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.UpdateByAccountID(context.Background(), "acct_missing", true)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
