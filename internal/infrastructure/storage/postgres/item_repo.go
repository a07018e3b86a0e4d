package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
	"partstock/internal/domain/catalog"
)

// ItemRepo persists items with their embedded batches and volumes.
// Writes replace the whole aggregate: the store owns the merged state,
// the database stores it.
type ItemRepo struct {
	txm *TxManager
}

// NewItemRepo creates an item repository.
func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{txm: txm}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// itemRow is the flat scan target for the items table.
type itemRow struct {
	ID            id.ID     `db:"id"`
	BranchID      string    `db:"branch_id"`
	Name          string    `db:"name"`
	CategoryID    id.ID     `db:"category_id"`
	BrandID       *id.ID    `db:"brand_id"`
	SKU           *string   `db:"sku"`
	TypeLabel     *string   `db:"type_label"`
	Description   string    `db:"description"`
	SellingPrice  int64     `db:"selling_price"`
	LowStockAlert int       `db:"low_stock_alert"`
	IsLiquid      bool      `db:"is_liquid"`
	BottlesOpen   int       `db:"bottles_open"`
	BottlesClosed int       `db:"bottles_closed"`
	Stock         int       `db:"stock"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r itemRow) toDomain() catalog.Item {
	return catalog.Item{
		ID:            r.ID,
		BranchID:      r.BranchID,
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		BrandID:       r.BrandID,
		SKU:           r.SKU,
		TypeLabel:     r.TypeLabel,
		Description:   r.Description,
		SellingPrice:  types.Cents(r.SellingPrice),
		LowStockAlert: r.LowStockAlert,
		IsLiquid:      r.IsLiquid,
		BottleState:   catalog.BottleState{Open: r.BottlesOpen, Closed: r.BottlesClosed},
		Stock:         r.Stock,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func itemValues(item *catalog.Item) map[string]any {
	return map[string]any{
		"branch_id":       item.BranchID,
		"name":            item.Name,
		"category_id":     item.CategoryID,
		"brand_id":        item.BrandID,
		"sku":             item.SKU,
		"type_label":      item.TypeLabel,
		"description":     item.Description,
		"selling_price":   int64(item.SellingPrice),
		"low_stock_alert": item.LowStockAlert,
		"is_liquid":       item.IsLiquid,
		"bottles_open":    item.BottleState.Open,
		"bottles_closed":  item.BottleState.Closed,
		"stock":           item.Stock,
		"updated_at":      item.UpdatedAt,
	}
}

// FetchItems loads the full item aggregate set for a branch.
func (r *ItemRepo) FetchItems(ctx context.Context, branchID string) ([]catalog.Item, error) {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := builder().
		Select("id", "branch_id", "name", "category_id", "brand_id", "sku",
			"type_label", "description", "selling_price", "low_stock_alert",
			"is_liquid", "bottles_open", "bottles_closed", "stock",
			"created_at", "updated_at").
		From("items").
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select items: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	items := make([]catalog.Item, len(rows))
	index := make(map[id.ID]int, len(rows))
	itemIDs := make([]id.ID, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
		items[i].Batches = make([]catalog.Batch, 0)
		items[i].Volumes = make([]catalog.Volume, 0)
		index[row.ID] = i
		itemIDs[i] = row.ID
	}
	if len(items) == 0 {
		return items, nil
	}

	batches, err := r.fetchBatches(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		if i, ok := index[b.ItemID]; ok {
			items[i].Batches = append(items[i].Batches, b)
		}
	}

	volumes, err := r.fetchVolumes(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, v := range volumes {
		if i, ok := index[v.ItemID]; ok {
			items[i].Volumes = append(items[i].Volumes, v)
		}
	}

	return items, nil
}

func (r *ItemRepo) fetchBatches(ctx context.Context, itemIDs []id.ID) ([]catalog.Batch, error) {
	q := r.txm.GetQuerier(ctx)

	// id is UUIDv7; ordering by it preserves insertion order on
	// purchase-date ties, which is the FIFO tie-break rule.
	sql, args, err := builder().
		Select("id", "item_id", "purchase_date", "cost_price",
			"initial_qty", "current_qty", "supplier_id", "expires_at").
		From("batches").
		Where(squirrel.Eq{"item_id": itemIDs}).
		OrderBy("purchase_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select batches: %w", err)
	}

	var batches []catalog.Batch
	if err := pgxscan.Select(ctx, q, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	return batches, nil
}

func (r *ItemRepo) fetchVolumes(ctx context.Context, itemIDs []id.ID) ([]catalog.Volume, error) {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := builder().
		Select("id", "item_id", "size", "price").
		From("volumes").
		Where(squirrel.Eq{"item_id": itemIDs}).
		OrderBy("size").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select volumes: %w", err)
	}

	var volumes []catalog.Volume
	if err := pgxscan.Select(ctx, q, &volumes, sql, args...); err != nil {
		return nil, fmt.Errorf("select volumes: %w", err)
	}
	return volumes, nil
}

// CreateItem inserts the item and any embedded batches/volumes.
func (r *ItemRepo) CreateItem(ctx context.Context, item *catalog.Item) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := r.txm.GetQuerier(ctx)

		values := itemValues(item)
		values["id"] = item.ID
		values["created_at"] = item.CreatedAt

		sql, args, err := builder().Insert("items").SetMap(values).ToSql()
		if err != nil {
			return fmt.Errorf("build insert item: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		return r.replaceChildren(ctx, item)
	})
}

// UpdateItem replaces the stored aggregate in one transaction.
func (r *ItemRepo) UpdateItem(ctx context.Context, item *catalog.Item) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := r.txm.GetQuerier(ctx)

		sql, args, err := builder().
			Update("items").
			SetMap(itemValues(item)).
			Where(squirrel.Eq{"id": item.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update item: %w", err)
		}
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewNotFound("item", item.ID)
		}

		// Children are replaced wholesale; the store hands over the
		// merged batch/volume lists.
		for _, table := range []string{"batches", "volumes"} {
			sql, args, err := builder().Delete(table).Where(squirrel.Eq{"item_id": item.ID}).ToSql()
			if err != nil {
				return fmt.Errorf("build delete %s: %w", table, err)
			}
			if _, err := q.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}

		return r.replaceChildren(ctx, item)
	})
}

func (r *ItemRepo) replaceChildren(ctx context.Context, item *catalog.Item) error {
	q := r.txm.GetQuerier(ctx)

	for i := range item.Batches {
		b := &item.Batches[i]
		sql, args, err := builder().
			Insert("batches").
			SetMap(map[string]any{
				"id":            b.ID,
				"item_id":       b.ItemID,
				"purchase_date": b.PurchaseDate,
				"cost_price":    int64(b.CostPrice),
				"initial_qty":   b.InitialQty,
				"current_qty":   b.CurrentQty,
				"supplier_id":   b.SupplierID,
				"expires_at":    b.ExpiresAt,
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert batch: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
	}

	for i := range item.Volumes {
		v := &item.Volumes[i]
		sql, args, err := builder().
			Insert("volumes").
			SetMap(map[string]any{
				"id":      v.ID,
				"item_id": v.ItemID,
				"size":    v.Size,
				"price":   int64(v.Price),
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert volume: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert volume: %w", err)
		}
	}

	return nil
}

// DeleteItem removes the item; batches and volumes cascade through
// their foreign keys.
func (r *ItemRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := builder().Delete("items").Where(squirrel.Eq{"id": itemID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

// notFoundIfNoRows maps pgx.ErrNoRows to a typed not-found error.
func notFoundIfNoRows(err error, entity string, key any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, key)
	}
	return err
}
