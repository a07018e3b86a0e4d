package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"partstock/internal/core/apperror"
	"partstock/internal/domain/settlement"
)

// SettlementRepo persists transactions and enforces the exactly-once
// settlement discipline at the database level: a unique index on
// original_reference_number makes a second settlement for the same
// reference impossible regardless of request interleaving.
type SettlementRepo struct {
	txm *TxManager
}

// NewSettlementRepo creates a settlement repository.
func NewSettlementRepo(txm *TxManager) *SettlementRepo {
	return &SettlementRepo{txm: txm}
}

// GetTransaction returns the transaction with the given reference.
func (r *SettlementRepo) GetTransaction(ctx context.Context, referenceNumber string) (*settlement.Transaction, error) {
	sql, args, err := builder().
		Select("id", "branch_id", "reference_number", "type", "total",
			"original_reference_number", "created_at").
		From("transactions").
		Where("reference_number = ?", referenceNumber).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select transaction: %w", err)
	}

	var tx settlement.Transaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &tx, sql, args...); err != nil {
		return nil, notFoundIfNoRows(fmt.Errorf("select transaction: %w", err), "transaction", referenceNumber)
	}
	return &tx, nil
}

// insertSettlementSQL targets the partial unique index
// idx_transactions_original_ref. The conflict target must repeat the
// index predicate (WHERE original_reference_number IS NOT NULL) or
// Postgres cannot infer the index and rejects the statement with 42P10.
const insertSettlementSQL = `
	INSERT INTO transactions (
		id, branch_id, reference_number, type, total,
		original_reference_number, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (original_reference_number) WHERE original_reference_number IS NOT NULL DO NOTHING
`

// CreateSettlement inserts the settlement transaction if and only if
// no settlement exists yet for its original reference. Zero rows
// affected means another settlement got there first.
func (r *SettlementRepo) CreateSettlement(ctx context.Context, tx *settlement.Transaction) error {
	if tx.OriginalReferenceNumber == nil {
		return apperror.NewValidation("settlement requires an original reference number")
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, insertSettlementSQL,
		tx.ID, tx.BranchID, tx.ReferenceNumber, tx.Type, int64(tx.Total),
		tx.OriginalReferenceNumber, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewAlreadySettled(*tx.OriginalReferenceNumber)
	}
	return nil
}
