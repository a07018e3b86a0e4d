package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/domain/settlement"
	"partstock/internal/infrastructure/storage/memory"
)

func seedTransaction(repo *memory.Store, ref string, typ settlement.Type) *settlement.Transaction {
	tx := &settlement.Transaction{
		ID:              id.New(),
		BranchID:        "main",
		ReferenceNumber: ref,
		Type:            typ,
		Total:           12500,
		CreatedAt:       time.Now().UTC(),
	}
	repo.PutTransaction(tx)
	return tx
}

func TestSettle_OnHold(t *testing.T) {
	repo := memory.New()
	seedTransaction(repo, "TXN-100", settlement.TypeOnHold)
	svc := settlement.NewService(repo)

	settled, err := svc.Settle(context.Background(), "TXN-100")
	require.NoError(t, err)

	assert.Equal(t, settlement.TypeOnHoldPaid, settled.Type)
	assert.Equal(t, "main", settled.BranchID)
	assert.EqualValues(t, 12500, settled.Total)
	require.NotNil(t, settled.OriginalReferenceNumber)
	assert.Equal(t, "TXN-100", *settled.OriginalReferenceNumber)
	assert.NotEqual(t, "TXN-100", settled.ReferenceNumber)
}

func TestSettle_Credit(t *testing.T) {
	repo := memory.New()
	seedTransaction(repo, "TXN-200", settlement.TypeCredit)
	svc := settlement.NewService(repo)

	settled, err := svc.Settle(context.Background(), "TXN-200")
	require.NoError(t, err)
	assert.Equal(t, settlement.TypeCreditPaid, settled.Type)
}

func TestSettle_EmptyReference(t *testing.T) {
	svc := settlement.NewService(memory.New())

	_, err := svc.Settle(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSettle_UnknownReference(t *testing.T) {
	svc := settlement.NewService(memory.New())

	_, err := svc.Settle(context.Background(), "TXN-999")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSettle_NonDeferredRejected(t *testing.T) {
	repo := memory.New()
	seedTransaction(repo, "TXN-300", settlement.TypeOnHoldPaid)
	svc := settlement.NewService(repo)

	_, err := svc.Settle(context.Background(), "TXN-300")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSettle_SecondAttemptAlreadySettled(t *testing.T) {
	repo := memory.New()
	seedTransaction(repo, "TXN-400", settlement.TypeOnHold)
	svc := settlement.NewService(repo)

	first, err := svc.Settle(context.Background(), "TXN-400")
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), "TXN-400")
	require.Error(t, err)
	assert.True(t, apperror.IsAlreadySettled(err))

	// The winning settlement is still readable under its new reference.
	kept, err := repo.GetTransaction(context.Background(), first.ReferenceNumber)
	require.NoError(t, err)
	assert.Equal(t, first.ID, kept.ID)
}
