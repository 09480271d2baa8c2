package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PostgresBasketItemRepository struct {
	conn postgres.Querier
}

func NewPostgresBasketItemRepository(conn postgres.Querier) *PostgresBasketItemRepository {
	return &PostgresBasketItemRepository{
		conn: conn,
	}
}

// ListByUser retrieves the user's basket with a read-time product join for
// display. The join is a snapshot of the current catalog row, not a stored
// copy.
func (r *PostgresBasketItemRepository) ListByUser(ctx context.Context, userID int64) ([]basketitem.BasketItem, error) {
	query, args, err := sq.Select(
		"b.id",
		"b.user_id",
		"b.product_id",
		"b.quantity",
		"p.name",
		"p.description",
		"p.price::text",
		"p.stock",
	).
		From("basket_items b").
		Join("products p ON p.id = b.product_id").
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy("b.id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query basket items: %w", err)
	}
	defer rows.Close()

	var result []basketitem.BasketItem
	for rows.Next() {
		var (
			item     basketitem.BasketItem
			prod     product.Product
			priceRaw string
		)
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&prod.Name,
			&prod.Description,
			&priceRaw,
			&prod.Stock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan basket item: %w", err)
		}
		prod.ID = item.ProductID
		prod.Price, err = decimal.NewFromString(priceRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse product price: %w", err)
		}
		item.Product = &prod
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByID retrieves a single basket item without the product join.
func (r *PostgresBasketItemRepository) GetByID(ctx context.Context, id int64) (*basketitem.BasketItem, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByUserAndProduct retrieves the item for a (user, product) pair, used by
// merge-add.
func (r *PostgresBasketItemRepository) GetByUserAndProduct(ctx context.Context, userID, productID int64) (*basketitem.BasketItem, error) {
	return r.getOne(ctx, sq.Eq{"user_id": userID, "product_id": productID})
}

func (r *PostgresBasketItemRepository) getOne(ctx context.Context, where sq.Eq) (*basketitem.BasketItem, error) {
	query, args, err := sq.Select("id", "user_id", "product_id", "quantity").
		From("basket_items").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var item basketitem.BasketItem
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query basket item: %w", err)
	}

	return &item, nil
}

// Insert creates a new basket item and returns it with the generated id.
func (r *PostgresBasketItemRepository) Insert(ctx context.Context, item basketitem.BasketItem) (basketitem.BasketItem, error) {
	query, args, err := sq.Insert("basket_items").
		Columns("user_id", "product_id", "quantity").
		Values(item.UserID, item.ProductID, item.Quantity).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return basketitem.BasketItem{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
		return basketitem.BasketItem{}, fmt.Errorf("failed to insert basket item: %w", err)
	}

	return item, nil
}

// UpdateQuantity replaces the quantity of an item.
func (r *PostgresBasketItemRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	query, args, err := sq.Update("basket_items").
		Set("quantity", quantity).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update basket item: %w", err)
	}

	return nil
}

// Delete removes a single basket item.
func (r *PostgresBasketItemRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("basket_items").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete basket item: %w", err)
	}

	return nil
}

// DeleteByUser drains the whole basket. Used both by the clear endpoint and
// by the order workflow inside its transaction.
func (r *PostgresBasketItemRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query, args, err := sq.Delete("basket_items").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear basket: %w", err)
	}

	return nil
}
