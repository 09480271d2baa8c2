package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id        int64     `db:"id"`
	UserId    int64     `db:"user_id"`
	OrderDate time.Time `db:"order_date"`
	Total     string    `db:"total"`
	Status    string    `db:"status"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order total: %w", err)
	}
	return &order.Order{
		ID:        o.Id,
		UserID:    o.UserId,
		OrderDate: o.OrderDate,
		Total:     total,
		Status:    order.Status(o.Status),
		Items:     []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert creates an order and returns it with the generated id and date.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns("user_id", "total", "status").
		Values(o.UserID, o.Total.StringFixed(2), string(o.Status)).
		Suffix("RETURNING id, order_date").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID, &o.OrderDate); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByIDAndUser retrieves an order scoped to its owner. A missing row and a
// row owned by someone else are indistinguishable to the caller.
func (r *PostgresOrderRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (*order.Order, error) {
	query, args, err := sq.Select("id", "user_id", "order_date", "total::text", "status").
		From("orders").
		Where(sq.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.UserId,
		&dal.OrderDate,
		&dal.Total,
		&dal.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return dal.ToModel()
}

// ListByUser retrieves all orders of a user, newest first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	query, args, err := sq.Select("id", "user_id", "order_date", "total::text", "status").
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.UserId,
			&dal.OrderDate,
			&dal.Total,
			&dal.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the order status. The row itself is never deleted.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	query, args, err := sq.Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}

	return nil
}
