package settlement

import (
	"context"
	"fmt"
	"time"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/pkg/logger"
)

// Repository is the persistence contract the service needs. It matches
// domain.SettlementRepository; redeclared here to keep the package
// self-contained.
type Repository interface {
	GetTransaction(ctx context.Context, referenceNumber string) (*Transaction, error)
	CreateSettlement(ctx context.Context, tx *Transaction) error
}

// Service settles deferred transactions exactly once.
type Service struct {
	repo Repository
}

// NewService creates a settlement service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Settle creates the paid counterpart of the deferred transaction with
// the given reference number.
//
// Rejections: NOT_FOUND when the reference is unknown, VALIDATION_ERROR
// when the referenced transaction is not ON_HOLD/CREDIT, and
// ALREADY_SETTLED when a settlement already exists for the reference.
// The duplicate check is delegated to the repository's create-if-absent
// insert so concurrent attempts cannot both succeed.
func (s *Service) Settle(ctx context.Context, referenceNumber string) (*Transaction, error) {
	if referenceNumber == "" {
		return nil, apperror.NewValidation("reference number is required").
			WithDetail("field", "referenceNumber")
	}

	original, err := s.repo.GetTransaction(ctx, referenceNumber)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewPersistence("get transaction", err)
	}

	if !original.Type.IsDeferred() {
		return nil, apperror.NewValidation("only on-hold or credit transactions can be settled").
			WithDetail("reference_number", referenceNumber).
			WithDetail("type", string(original.Type))
	}

	ref := referenceNumber
	settled := &Transaction{
		ID:                      id.New(),
		BranchID:                original.BranchID,
		ReferenceNumber:         fmt.Sprintf("STL-%s", id.New()),
		Type:                    original.Type.SettledType(),
		Total:                   original.Total,
		OriginalReferenceNumber: &ref,
		CreatedAt:               time.Now().UTC(),
	}

	if err := s.repo.CreateSettlement(ctx, settled); err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewPersistence("create settlement", err)
	}

	logger.Info(ctx, "settled deferred transaction",
		"reference_number", referenceNumber,
		"settlement_reference", settled.ReferenceNumber,
		"type", settled.Type,
	)

	return settled, nil
}
