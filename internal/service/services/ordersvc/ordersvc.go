package ordersvc

import (
	"context"
	"fmt"
	"log/slog"

	ibasketitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/basketitem"
	iorder "github.com/idp-labs/shop-svc/internal/dal/interfaces/order"
	iorderitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/orderitem"
	iproduct "github.com/idp-labs/shop-svc/internal/dal/interfaces/product"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	"github.com/idp-labs/shop-svc/internal/dal/uow"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// UnitOfWork scopes one workflow to one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	BasketItemRepository() ibasketitem.PostgresRepository
	ProductRepository() iproduct.PostgresRepository
	OrderRepository() iorder.PostgresRepository
	OrderItemRepository() iorderitem.PostgresRepository
}

// auditRepository records order lifecycle events after commit. Failures are
// logged, never surfaced: audit must not fail a committed order.
type auditRepository interface {
	LogOrderCreated(ctx context.Context, o order.Order) error
	LogOrderCancelled(ctx context.Context, o order.Order) error
}

// OrderService converts baskets into priced, stock-committed orders and
// reverses that commitment on cancellation.
type OrderService struct {
	uowFactory func() UnitOfWork
	audit      auditRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("ordersvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.uowFactory = func() UnitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithAuditRepository sets the audit event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(audit auditRepository) option {
	return func(s *OrderService) {
		s.audit = audit
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() UnitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// CreateOrder drains the user's basket into an order inside one transaction:
// validate products and stock, price the total with exact decimal
// arithmetic, insert the order and its frozen line items, decrement stock,
// delete the basket. Any failure rolls everything back; no partial order is
// ever visible.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64) (*order.Order, error) {
	work := s.uowFactory()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = work.Rollback(ctx) }()

	items, err := work.BasketItemRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.ErrEmptyBasket
	}

	// Validation pass: every product must exist and cover the requested
	// quantity. The same loaded snapshot prices the order.
	total := decimal.Zero
	products := make(map[int64]*product.Product, len(items))
	for _, item := range items {
		p, err := work.ProductRepository().GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < item.Quantity {
			return nil, errs.ErrInsufficientStock
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		products[item.ProductID] = p
	}

	created, err := work.OrderRepository().Insert(ctx, order.Order{
		UserID: userID,
		Total:  total,
		Status: order.StatusCreated,
	})
	if err != nil {
		return nil, err
	}

	lineItems := make([]orderitem.OrderItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, orderitem.OrderItem{
			OrderID:         created.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: products[item.ProductID].Price,
		})
	}
	lineItems, err = work.OrderItemRepository().BulkInsert(ctx, lineItems)
	if err != nil {
		return nil, err
	}

	// Commit pass: the conditional decrement re-verifies stock atomically,
	// so a concurrent order on the same product fails here instead of
	// driving stock negative.
	for _, item := range items {
		if err := work.ProductRepository().ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := work.BasketItemRepository().DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	created.Items = lineItems
	s.logAudit(ctx, created, false)

	return &created, nil
}

// CancelOrder restores stock for every line item of the order and marks it
// cancelled. Products removed from the catalog since purchase are silently
// skipped; the order row is never deleted.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	work := s.uowFactory()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if o.Status == order.StatusCancelled {
		return nil, errs.ErrOrderCancelled
	}

	items, err := work.OrderItemRepository().ListByOrders(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := work.ProductRepository().ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := work.OrderRepository().UpdateStatus(ctx, orderID, order.StatusCancelled); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.Status = order.StatusCancelled
	o.Items = items
	s.logAudit(ctx, *o, true)

	return o, nil
}

// GetOrder retrieves a single order with its items, scoped to the owner.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	work := s.uowFactory()

	o, err := work.OrderRepository().GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().ListByOrders(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// ListOrders retrieves all orders of the user with their items attached.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	work := s.uowFactory()

	orders, err := work.OrderRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := work.OrderItemRepository().ListByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
	}

	return orders, nil
}

func (s *OrderService) logAudit(ctx context.Context, o order.Order, cancelled bool) {
	if s.audit == nil {
		return
	}

	var err error
	if cancelled {
		err = s.audit.LogOrderCancelled(ctx, o)
	} else {
		err = s.audit.LogOrderCreated(ctx, o)
	}
	if err != nil {
		slog.Warn("Failed to publish order audit event", "order_id", o.ID, "error", err)
	}
}
