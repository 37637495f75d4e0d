package payable

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, total string, count int, recurring bool) *PayableAccount {
	t.Helper()
	acc, err := NewPayableAccount(
		"office rent",
		decimal.RequireFromString(total),
		count,
		date(2025, time.February, 10),
		recurring,
		uuid.New(), uuid.New(), uuid.New(),
		DocumentTypeBoleto,
	)
	require.NoError(t, err)
	return acc
}

func TestNewPayableAccount_CreatesInstallmentsAtomically(t *testing.T) {
	acc := newTestAccount(t, "300.00", 3, false)

	require.Len(t, acc.Installments, 3)
	sum := decimal.Zero
	for i, inst := range acc.Installments {
		assert.Equal(t, acc.ID, inst.PayableAccountID)
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, InstallmentStatusOpen, inst.Status)
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(acc.TotalAmount))

	events := acc.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "PayableAccountCreated", events[0].EventType())
}

func TestNewPayableAccount_RejectsNonPositiveTotal(t *testing.T) {
	_, err := NewPayableAccount("x", decimal.Zero, 1, date(2025, time.January, 1), false,
		uuid.New(), uuid.New(), uuid.New(), DocumentTypeOther)
	assert.Error(t, err)
}

func TestPayableAccount_EnsureDeletable(t *testing.T) {
	acc := newTestAccount(t, "200.00", 2, false)
	require.NoError(t, acc.EnsureDeletable())

	require.NoError(t, acc.Installments[0].ConfirmPayment())
	err := acc.EnsureDeletable()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHasPaidInstallments)
}

func TestInstallment_ConfirmPaymentTwiceFails(t *testing.T) {
	acc := newTestAccount(t, "100.00", 1, false)
	inst := &acc.Installments[0]

	require.NoError(t, inst.ConfirmPayment())
	require.NotNil(t, inst.PaidAt)
	assert.ErrorIs(t, inst.ConfirmPayment(), ErrInstallmentAlreadyPaid)
}

func TestInstallment_RescheduleGuardsPaid(t *testing.T) {
	acc := newTestAccount(t, "100.00", 2, false)

	require.NoError(t, acc.Installments[0].Reschedule(date(2025, time.March, 1)))
	assert.Equal(t, date(2025, time.March, 1), acc.Installments[0].DueDate)

	require.NoError(t, acc.Installments[1].ConfirmPayment())
	assert.ErrorIs(t, acc.Installments[1].Reschedule(date(2025, time.April, 1)), ErrInstallmentAlreadyPaid)
}

func TestPayableAccount_OpenAmount(t *testing.T) {
	acc := newTestAccount(t, "90.00", 3, false)
	require.NoError(t, acc.Installments[0].ConfirmPayment())

	assert.True(t, acc.OpenAmount().Equal(decimal.RequireFromString("60.00")))
}

func TestPayableAccount_UpdateDescriptiveKeepsSchedule(t *testing.T) {
	acc := newTestAccount(t, "150.00", 3, false)
	before := make([]decimal.Decimal, len(acc.Installments))
	for i, inst := range acc.Installments {
		before[i] = inst.Amount
	}

	require.NoError(t, acc.UpdateDescriptive("updated", uuid.New(), uuid.New(), uuid.New(), DocumentTypeInvoice))

	assert.Equal(t, "updated", acc.Description)
	assert.Equal(t, DocumentTypeInvoice, acc.DocumentType)
	require.Len(t, acc.Installments, 3)
	for i, inst := range acc.Installments {
		assert.True(t, inst.Amount.Equal(before[i]))
	}
}
