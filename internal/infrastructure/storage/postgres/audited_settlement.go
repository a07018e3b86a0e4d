package postgres

import (
	"context"

	"partstock/internal/core/id"
	"partstock/internal/domain/settlement"
	"partstock/pkg/logger"
)

// auditSink records audit entries. Satisfied by AuditService.
type auditSink interface {
	LogChange(ctx context.Context, branchID, entityType string, entityID id.ID, action AuditAction, changes any) error
}

// txRunner runs a function inside a transaction. Satisfied by TxManager.
type txRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditedSettlementRepo wraps a settlement repository so every
// settlement write lands together with its audit entry in one
// transaction.
type AuditedSettlementRepo struct {
	repo  settlement.Repository
	audit auditSink
	txm   txRunner
}

// NewAuditedSettlementRepo decorates a settlement repository with audit
// logging.
func NewAuditedSettlementRepo(repo settlement.Repository, audit auditSink, txm txRunner) *AuditedSettlementRepo {
	return &AuditedSettlementRepo{repo: repo, audit: audit, txm: txm}
}

// GetTransaction delegates to the underlying repository.
func (r *AuditedSettlementRepo) GetTransaction(ctx context.Context, referenceNumber string) (*settlement.Transaction, error) {
	return r.repo.GetTransaction(ctx, referenceNumber)
}

// CreateSettlement inserts the settlement and its audit entry
// atomically. If the insert is rejected as a duplicate, no audit entry
// is written.
func (r *AuditedSettlementRepo) CreateSettlement(ctx context.Context, tx *settlement.Transaction) error {
	return r.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := r.repo.CreateSettlement(txCtx, tx); err != nil {
			return err
		}
		if err := r.audit.LogChange(txCtx, tx.BranchID, "transaction", tx.ID, AuditActionSettle, tx); err != nil {
			logger.Warn(txCtx, "audit log write failed", "error", err)
		}
		return nil
	})
}
