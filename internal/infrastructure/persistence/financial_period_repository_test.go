package persistence

import (
	"context"
	"testing"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPeriodTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.FinancialPeriodModel{}, &models.InvoiceModel{})
	require.NoError(t, err)

	return db
}

func newPersistedPeriod(t *testing.T, repo *GormFinancialPeriodRepository, period string) *billing.FinancialPeriod {
	t.Helper()
	fp, err := billing.NewFinancialPeriod(period,
		decimal.RequireFromString("5.00"),
		decimal.RequireFromString("2.00"),
		decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), fp))
	return fp
}

func TestGormFinancialPeriodRepository_SaveAndFindByPeriod(t *testing.T) {
	db := setupPeriodTestDB(t)
	repo := NewGormFinancialPeriodRepository(db)
	ctx := context.Background()

	fp := newPersistedPeriod(t, repo, "09/2025")

	found, err := repo.FindByPeriod(ctx, "2025-09")
	require.NoError(t, err)
	assert.Equal(t, fp.ID, found.ID)
	assert.Equal(t, "2025-09", found.Period)
	assert.True(t, found.GeneralTaxRate.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, found.ISSRate.Equal(decimal.RequireFromString("2.00")))

	_, err = repo.FindByPeriod(ctx, "2030-01")
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormFinancialPeriodRepository_FindAll_NewestFirst(t *testing.T) {
	db := setupPeriodTestDB(t)
	repo := NewGormFinancialPeriodRepository(db)
	ctx := context.Background()

	newPersistedPeriod(t, repo, "2025-08")
	newPersistedPeriod(t, repo, "2025-10")
	newPersistedPeriod(t, repo, "2025-09")

	periods, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, "2025-10", periods[0].Period)
	assert.Equal(t, "2025-09", periods[1].Period)
	assert.Equal(t, "2025-08", periods[2].Period)
}

func TestGormFinancialPeriodRepository_Delete(t *testing.T) {
	db := setupPeriodTestDB(t)
	repo := NewGormFinancialPeriodRepository(db)
	ctx := context.Background()

	fp := newPersistedPeriod(t, repo, "2025-09")

	require.NoError(t, repo.Delete(ctx, fp.ID))

	_, err := repo.FindByID(ctx, fp.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, uuid.New()))
}

func TestGormFinancialPeriodRepository_CountInvoices(t *testing.T) {
	db := setupPeriodTestDB(t)
	repo := NewGormFinancialPeriodRepository(db)
	ctx := context.Background()

	fp := newPersistedPeriod(t, repo, "2025-09")

	inv, err := billing.NewInvoice(uuid.New(), nil, fp.ID, fp.Period,
		decimal.RequireFromString("1000.00"),
		decimal.RequireFromString("5.00"), 0)
	require.NoError(t, err)
	require.NoError(t, db.Create(models.InvoiceModelFromDomain(inv)).Error)

	count, err := repo.CountInvoices(ctx, fp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountInvoices(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
