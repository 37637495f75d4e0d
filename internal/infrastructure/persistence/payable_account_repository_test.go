package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fatura/backend/internal/domain/payable"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPayableTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.PayableAccountModel{}, &models.InstallmentModel{})
	require.NoError(t, err)

	return db
}

func newPersistedAccount(t *testing.T, repo *GormPayableAccountRepository, total string, installments int) *payable.PayableAccount {
	t.Helper()
	acc, err := payable.NewPayableAccount(
		"Aluguel do escritório",
		decimal.RequireFromString(total),
		installments,
		time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC),
		false,
		uuid.New(), uuid.New(), uuid.New(),
		payable.DocumentTypeBoleto,
	)
	require.NoError(t, err)
	require.NoError(t, repo.CreateWithInstallments(context.Background(), acc))
	return acc
}

func TestGormPayableAccountRepository_CreateAndFind(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	acc := newPersistedAccount(t, repo, "100.00", 3)

	found, err := repo.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, found.Installments, 3)

	// installments come back ordered by number
	for i, inst := range found.Installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, payable.InstallmentStatusOpen, inst.Status)
	}
	assert.True(t, found.Installments[0].Amount.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, found.Installments[2].Amount.Equal(decimal.RequireFromString("33.34")))
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("100.00")))
}

func TestGormPayableAccountRepository_FindByID_NotFound(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	assert.Nil(t, found)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormPayableAccountRepository_FindByInstallmentID(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	acc := newPersistedAccount(t, repo, "100.00", 3)

	found, err := repo.FindByInstallmentID(ctx, acc.Installments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)
	require.Len(t, found.Installments, 3)

	_, err = repo.FindByInstallmentID(ctx, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormPayableAccountRepository_SaveInstallment(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	acc := newPersistedAccount(t, repo, "100.00", 2)

	inst := &acc.Installments[0]
	require.NoError(t, inst.ConfirmPayment())
	require.NoError(t, repo.SaveInstallment(ctx, inst))

	found, err := repo.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, payable.InstallmentStatusPaid, found.Installments[0].Status)
	assert.NotNil(t, found.Installments[0].PaidAt)
	assert.Equal(t, payable.InstallmentStatusOpen, found.Installments[1].Status)
}

func TestGormPayableAccountRepository_DeleteInstallment(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	t.Run("keeps account when other installments remain", func(t *testing.T) {
		acc := newPersistedAccount(t, repo, "100.00", 3)

		err := repo.DeleteInstallment(ctx, acc.Installments[0].ID, false)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Len(t, found.Installments, 2)
	})

	t.Run("cascades to the account when requested", func(t *testing.T) {
		acc := newPersistedAccount(t, repo, "50.00", 1)

		err := repo.DeleteInstallment(ctx, acc.Installments[0].ID, true)
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, acc.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("unknown installment", func(t *testing.T) {
		err := repo.DeleteInstallment(ctx, uuid.New(), false)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormPayableAccountRepository_DeleteWithInstallments(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	acc := newPersistedAccount(t, repo, "100.00", 3)

	require.NoError(t, repo.DeleteWithInstallments(ctx, acc.ID))

	_, err := repo.FindByID(ctx, acc.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	var count int64
	require.NoError(t, db.Model(&models.InstallmentModel{}).
		Where("payable_account_id = ?", acc.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGormPayableAccountRepository_FindAll(t *testing.T) {
	db := setupPayableTestDB(t)
	repo := NewGormPayableAccountRepository(db)
	ctx := context.Background()

	newPersistedAccount(t, repo, "100.00", 2)
	newPersistedAccount(t, repo, "200.00", 1)

	accounts, err := repo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
