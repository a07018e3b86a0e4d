package postgres

import (
	"context"

	"partstock/internal/core/id"
	"partstock/internal/domain"
	"partstock/internal/domain/catalog"
	"partstock/pkg/logger"
)

// AuditedItemRepo wraps an item repository so every catalog write
// produces an audit entry in the same transaction.
type AuditedItemRepo struct {
	repo  domain.ItemRepository
	audit auditSink
	txm   txRunner
}

// NewAuditedItemRepo decorates an item repository with audit logging.
func NewAuditedItemRepo(repo domain.ItemRepository, audit auditSink, txm txRunner) *AuditedItemRepo {
	return &AuditedItemRepo{repo: repo, audit: audit, txm: txm}
}

// FetchItems delegates to the underlying repository.
func (r *AuditedItemRepo) FetchItems(ctx context.Context, branchID string) ([]catalog.Item, error) {
	return r.repo.FetchItems(ctx, branchID)
}

// CreateItem inserts the item and logs the full created aggregate.
func (r *AuditedItemRepo) CreateItem(ctx context.Context, item *catalog.Item) error {
	return r.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := r.repo.CreateItem(txCtx, item); err != nil {
			return err
		}
		r.log(txCtx, item.BranchID, "item", item.ID, AuditActionCreate, item)
		return nil
	})
}

// UpdateItem replaces the item and logs the new aggregate state.
func (r *AuditedItemRepo) UpdateItem(ctx context.Context, item *catalog.Item) error {
	return r.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := r.repo.UpdateItem(txCtx, item); err != nil {
			return err
		}
		r.log(txCtx, item.BranchID, "item", item.ID, AuditActionUpdate, item)
		return nil
	})
}

// DeleteItem removes the item and logs the deletion. Only the id is
// known at this layer, so the entry carries no branch or payload.
func (r *AuditedItemRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := r.repo.DeleteItem(txCtx, itemID); err != nil {
			return err
		}
		r.log(txCtx, "", "item", itemID, AuditActionDelete, nil)
		return nil
	})
}

func (r *AuditedItemRepo) log(ctx context.Context, branchID, entityType string, entityID id.ID, action AuditAction, changes any) {
	if err := r.audit.LogChange(ctx, branchID, entityType, entityID, action, changes); err != nil {
		logger.Warn(ctx, "audit log write failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// AuditedReferenceRepo wraps a reference repository so category, brand
// and supplier writes produce audit entries. Reference tables are
// shared across branches, so entries carry an empty branch id.
type AuditedReferenceRepo struct {
	repo  domain.ReferenceRepository
	audit auditSink
	txm   txRunner
}

// NewAuditedReferenceRepo decorates a reference repository with audit
// logging.
func NewAuditedReferenceRepo(repo domain.ReferenceRepository, audit auditSink, txm txRunner) *AuditedReferenceRepo {
	return &AuditedReferenceRepo{repo: repo, audit: audit, txm: txm}
}

func (r *AuditedReferenceRepo) audited(ctx context.Context, entityType string, entityID id.ID, action AuditAction, changes any, write func(ctx context.Context) error) error {
	return r.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := write(txCtx); err != nil {
			return err
		}
		if err := r.audit.LogChange(txCtx, "", entityType, entityID, action, changes); err != nil {
			logger.Warn(txCtx, "audit log write failed",
				"entity_type", entityType,
				"entity_id", entityID,
				"error", err,
			)
		}
		return nil
	})
}

// FetchCategories delegates to the underlying repository.
func (r *AuditedReferenceRepo) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	return r.repo.FetchCategories(ctx)
}

// CreateCategory inserts a category with an audit entry.
func (r *AuditedReferenceRepo) CreateCategory(ctx context.Context, c *catalog.Category) error {
	return r.audited(ctx, "category", c.ID, AuditActionCreate, c, func(txCtx context.Context) error {
		return r.repo.CreateCategory(txCtx, c)
	})
}

// UpdateCategory renames a category with an audit entry.
func (r *AuditedReferenceRepo) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	return r.audited(ctx, "category", c.ID, AuditActionUpdate, c, func(txCtx context.Context) error {
		return r.repo.UpdateCategory(txCtx, c)
	})
}

// DeleteCategory removes a category with an audit entry.
func (r *AuditedReferenceRepo) DeleteCategory(ctx context.Context, categoryID id.ID) error {
	return r.audited(ctx, "category", categoryID, AuditActionDelete, nil, func(txCtx context.Context) error {
		return r.repo.DeleteCategory(txCtx, categoryID)
	})
}

// FetchBrands delegates to the underlying repository.
func (r *AuditedReferenceRepo) FetchBrands(ctx context.Context) ([]catalog.Brand, error) {
	return r.repo.FetchBrands(ctx)
}

// CreateBrand inserts a brand with an audit entry.
func (r *AuditedReferenceRepo) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	return r.audited(ctx, "brand", b.ID, AuditActionCreate, b, func(txCtx context.Context) error {
		return r.repo.CreateBrand(txCtx, b)
	})
}

// UpdateBrand updates a brand with an audit entry.
func (r *AuditedReferenceRepo) UpdateBrand(ctx context.Context, b *catalog.Brand) error {
	return r.audited(ctx, "brand", b.ID, AuditActionUpdate, b, func(txCtx context.Context) error {
		return r.repo.UpdateBrand(txCtx, b)
	})
}

// DeleteBrand removes a brand with an audit entry.
func (r *AuditedReferenceRepo) DeleteBrand(ctx context.Context, brandID id.ID) error {
	return r.audited(ctx, "brand", brandID, AuditActionDelete, nil, func(txCtx context.Context) error {
		return r.repo.DeleteBrand(txCtx, brandID)
	})
}

// FetchSuppliers delegates to the underlying repository.
func (r *AuditedReferenceRepo) FetchSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	return r.repo.FetchSuppliers(ctx)
}

// CreateSupplier inserts a supplier with an audit entry.
func (r *AuditedReferenceRepo) CreateSupplier(ctx context.Context, s *catalog.Supplier) error {
	return r.audited(ctx, "supplier", s.ID, AuditActionCreate, s, func(txCtx context.Context) error {
		return r.repo.CreateSupplier(txCtx, s)
	})
}

// UpdateSupplier renames a supplier with an audit entry.
func (r *AuditedReferenceRepo) UpdateSupplier(ctx context.Context, s *catalog.Supplier) error {
	return r.audited(ctx, "supplier", s.ID, AuditActionUpdate, s, func(txCtx context.Context) error {
		return r.repo.UpdateSupplier(txCtx, s)
	})
}

// DeleteSupplier removes a supplier with an audit entry.
func (r *AuditedReferenceRepo) DeleteSupplier(ctx context.Context, supplierID id.ID) error {
	return r.audited(ctx, "supplier", supplierID, AuditActionDelete, nil, func(txCtx context.Context) error {
		return r.repo.DeleteSupplier(txCtx, supplierID)
	})
}
