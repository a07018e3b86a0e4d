package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/settlement"
	"partstock/internal/infrastructure/storage/memory"
)

type recordedChange struct {
	branchID   string
	entityType string
	entityID   id.ID
	action     AuditAction
}

type fakeSink struct {
	entries []recordedChange
	err     error
}

func (f *fakeSink) LogChange(_ context.Context, branchID, entityType string, entityID id.ID, action AuditAction, _ any) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, recordedChange{branchID, entityType, entityID, action})
	return nil
}

// passthroughRunner stands in for TxManager where no database exists.
type passthroughRunner struct{}

func (passthroughRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestAuditedItemRepo_LogsEveryWrite(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	repo := NewAuditedItemRepo(memory.New(), sink, passthroughRunner{})

	item := catalog.NewItem("main", "Oil Filter", id.New(), 900)
	require.NoError(t, repo.CreateItem(ctx, item))

	item.Name = "Oil Filter Pro"
	require.NoError(t, repo.UpdateItem(ctx, item))
	require.NoError(t, repo.DeleteItem(ctx, item.ID))

	require.Len(t, sink.entries, 3)
	assert.Equal(t, recordedChange{"main", "item", item.ID, AuditActionCreate}, sink.entries[0])
	assert.Equal(t, recordedChange{"main", "item", item.ID, AuditActionUpdate}, sink.entries[1])
	assert.Equal(t, recordedChange{"", "item", item.ID, AuditActionDelete}, sink.entries[2])
}

func TestAuditedItemRepo_RejectedWriteIsNotLogged(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	mem := memory.New()
	repo := NewAuditedItemRepo(mem, sink, passthroughRunner{})

	mem.FailNextWrite(errors.New("connection reset"))
	err := repo.CreateItem(ctx, catalog.NewItem("main", "Brake Pads", id.New(), 3500))

	require.Error(t, err)
	assert.Empty(t, sink.entries)
}

func TestAuditedItemRepo_SinkFailureDoesNotBlockWrite(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{err: errors.New("audit table missing")}
	mem := memory.New()
	repo := NewAuditedItemRepo(mem, sink, passthroughRunner{})

	item := catalog.NewItem("main", "Coolant", id.New(), 1500)
	require.NoError(t, repo.CreateItem(ctx, item))

	stored, err := mem.FetchItems(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAuditedReferenceRepo_LogsReferenceWrites(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	repo := NewAuditedReferenceRepo(memory.New(), sink, passthroughRunner{})

	cat := catalog.NewCategory("Filters")
	require.NoError(t, repo.CreateCategory(ctx, cat))

	cat.Name = "Filtration"
	require.NoError(t, repo.UpdateCategory(ctx, cat))
	require.NoError(t, repo.DeleteCategory(ctx, cat.ID))

	brand := catalog.NewBrand("Bosch")
	require.NoError(t, repo.CreateBrand(ctx, brand))

	sup := catalog.NewSupplier("AutoParts GmbH")
	require.NoError(t, repo.CreateSupplier(ctx, sup))

	require.Len(t, sink.entries, 5)
	assert.Equal(t, recordedChange{"", "category", cat.ID, AuditActionCreate}, sink.entries[0])
	assert.Equal(t, recordedChange{"", "category", cat.ID, AuditActionUpdate}, sink.entries[1])
	assert.Equal(t, recordedChange{"", "category", cat.ID, AuditActionDelete}, sink.entries[2])
	assert.Equal(t, recordedChange{"", "brand", brand.ID, AuditActionCreate}, sink.entries[3])
	assert.Equal(t, recordedChange{"", "supplier", sup.ID, AuditActionCreate}, sink.entries[4])
}

func TestAuditedSettlementRepo_LogsSettleOnce(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	mem := memory.New()
	repo := NewAuditedSettlementRepo(mem, sink, passthroughRunner{})

	ref := "TXN-100"
	mem.PutTransaction(&settlement.Transaction{
		ID:              id.New(),
		BranchID:        "main",
		ReferenceNumber: ref,
		Type:            settlement.TypeOnHold,
		Total:           5000,
		CreatedAt:       time.Now().UTC(),
	})

	settled := &settlement.Transaction{
		ID:                      id.New(),
		BranchID:                "main",
		ReferenceNumber:         "STL-1",
		Type:                    settlement.TypeOnHoldPaid,
		Total:                   5000,
		OriginalReferenceNumber: &ref,
		CreatedAt:               time.Now().UTC(),
	}
	require.NoError(t, repo.CreateSettlement(ctx, settled))

	dup := *settled
	dup.ID = id.New()
	dup.ReferenceNumber = "STL-2"
	require.Error(t, repo.CreateSettlement(ctx, &dup))

	// Only the winning settlement is audited.
	require.Len(t, sink.entries, 1)
	assert.Equal(t, recordedChange{"main", "transaction", settled.ID, AuditActionSettle}, sink.entries[0])
}
