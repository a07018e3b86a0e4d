package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
)

// uniqueViolation is the postgres error code for unique constraints.
const uniqueViolation = "23505"

// ReferenceRepo persists the category/brand/supplier lookup tables.
type ReferenceRepo struct {
	txm *TxManager
}

// NewReferenceRepo creates a reference repository.
func NewReferenceRepo(txm *TxManager) *ReferenceRepo {
	return &ReferenceRepo{txm: txm}
}

func duplicateIfUnique(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.NewConflict(fmt.Sprintf("%s with this name already exists", entity))
	}
	return err
}

// --- Categories ---

// FetchCategories returns all categories ordered by name.
func (r *ReferenceRepo) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	sql, args, err := builder().Select("id", "name").From("categories").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select categories: %w", err)
	}
	var out []catalog.Category
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return out, nil
}

// CreateCategory inserts a category.
func (r *ReferenceRepo) CreateCategory(ctx context.Context, c *catalog.Category) error {
	sql, args, err := builder().Insert("categories").
		SetMap(map[string]any{"id": c.ID, "name": c.Name}).ToSql()
	if err != nil {
		return fmt.Errorf("build insert category: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return duplicateIfUnique(fmt.Errorf("insert category: %w", err), "category")
	}
	return nil
}

// UpdateCategory renames a category.
func (r *ReferenceRepo) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	return r.updateNamed(ctx, "categories", "category", c.ID, map[string]any{"name": c.Name})
}

// DeleteCategory removes a category. Item references are left alone.
func (r *ReferenceRepo) DeleteCategory(ctx context.Context, categoryID id.ID) error {
	return r.deleteNamed(ctx, "categories", "category", categoryID)
}

// --- Brands ---

// FetchBrands returns all brands ordered by name.
func (r *ReferenceRepo) FetchBrands(ctx context.Context) ([]catalog.Brand, error) {
	sql, args, err := builder().Select("id", "name", "image_url").From("brands").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select brands: %w", err)
	}
	var out []catalog.Brand
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select brands: %w", err)
	}
	return out, nil
}

// CreateBrand inserts a brand.
func (r *ReferenceRepo) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	sql, args, err := builder().Insert("brands").
		SetMap(map[string]any{"id": b.ID, "name": b.Name, "image_url": b.ImageURL}).ToSql()
	if err != nil {
		return fmt.Errorf("build insert brand: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return duplicateIfUnique(fmt.Errorf("insert brand: %w", err), "brand")
	}
	return nil
}

// UpdateBrand renames a brand or replaces its logo.
func (r *ReferenceRepo) UpdateBrand(ctx context.Context, b *catalog.Brand) error {
	return r.updateNamed(ctx, "brands", "brand", b.ID, map[string]any{
		"name":      b.Name,
		"image_url": b.ImageURL,
	})
}

// DeleteBrand removes a brand.
func (r *ReferenceRepo) DeleteBrand(ctx context.Context, brandID id.ID) error {
	return r.deleteNamed(ctx, "brands", "brand", brandID)
}

// --- Suppliers ---

// FetchSuppliers returns all suppliers ordered by name.
func (r *ReferenceRepo) FetchSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	sql, args, err := builder().Select("id", "name").From("suppliers").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select suppliers: %w", err)
	}
	var out []catalog.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return out, nil
}

// CreateSupplier inserts a supplier.
func (r *ReferenceRepo) CreateSupplier(ctx context.Context, s *catalog.Supplier) error {
	sql, args, err := builder().Insert("suppliers").
		SetMap(map[string]any{"id": s.ID, "name": s.Name}).ToSql()
	if err != nil {
		return fmt.Errorf("build insert supplier: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return duplicateIfUnique(fmt.Errorf("insert supplier: %w", err), "supplier")
	}
	return nil
}

// UpdateSupplier renames a supplier.
func (r *ReferenceRepo) UpdateSupplier(ctx context.Context, s *catalog.Supplier) error {
	return r.updateNamed(ctx, "suppliers", "supplier", s.ID, map[string]any{"name": s.Name})
}

// DeleteSupplier removes a supplier.
func (r *ReferenceRepo) DeleteSupplier(ctx context.Context, supplierID id.ID) error {
	return r.deleteNamed(ctx, "suppliers", "supplier", supplierID)
}

// --- shared helpers ---

func (r *ReferenceRepo) updateNamed(ctx context.Context, table, entity string, entityID id.ID, values map[string]any) error {
	sql, args, err := builder().Update(table).SetMap(values).
		Where(squirrel.Eq{"id": entityID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", entity, err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return duplicateIfUnique(fmt.Errorf("update %s: %w", entity, err), entity)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(entity, entityID)
	}
	return nil
}

func (r *ReferenceRepo) deleteNamed(ctx context.Context, table, entity string, entityID id.ID) error {
	sql, args, err := builder().Delete(table).Where(squirrel.Eq{"id": entityID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", entity, err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(entity, entityID)
	}
	return nil
}
