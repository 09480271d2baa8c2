package ordersvc_test

import (
	"context"
	"testing"
	"time"

	ibasketitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/basketitem"
	iorder "github.com/idp-labs/shop-svc/internal/dal/interfaces/order"
	iorderitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/orderitem"
	iproduct "github.com/idp-labs/shop-svc/internal/dal/interfaces/product"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/idp-labs/shop-svc/internal/service/services/ordersvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore holds the state shared by the fake repositories.
type memStore struct {
	products    map[int64]product.Product
	basket      []basketitem.BasketItem
	orders      map[int64]order.Order
	orderItems  []orderitem.OrderItem
	nextOrderID int64
	nextItemID  int64
}

func newMemStore() *memStore {
	return &memStore{
		products:    map[int64]product.Product{},
		orders:      map[int64]order.Order{},
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		c.products[id] = p
	}
	c.basket = append([]basketitem.BasketItem(nil), s.basket...)
	for id, o := range s.orders {
		c.orders[id] = o
	}
	c.orderItems = append([]orderitem.OrderItem(nil), s.orderItems...)
	c.nextOrderID = s.nextOrderID
	c.nextItemID = s.nextItemID

	return c
}

// fakeUnitOfWork implements the transaction boundary over memStore: Begin
// snapshots the store and Rollback restores it unless Commit ran first.
type fakeUnitOfWork struct {
	store     *memStore
	snapshot  *memStore
	committed bool
	rolled    bool

	productRepo iproduct.PostgresRepository
}

func newFakeUnitOfWork(store *memStore) *fakeUnitOfWork {
	return &fakeUnitOfWork{store: store}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	u.snapshot = u.store.clone()

	return nil
}

func (u *fakeUnitOfWork) Commit(_ context.Context) error {
	u.committed = true

	return nil
}

func (u *fakeUnitOfWork) Rollback(_ context.Context) error {
	if u.committed {
		return nil
	}
	u.rolled = true
	*u.store = *u.snapshot

	return nil
}

func (u *fakeUnitOfWork) BasketItemRepository() ibasketitem.PostgresRepository {
	return &fakeBasketRepo{store: u.store}
}

func (u *fakeUnitOfWork) ProductRepository() iproduct.PostgresRepository {
	if u.productRepo != nil {
		return u.productRepo
	}

	return &fakeProductRepo{store: u.store}
}

func (u *fakeUnitOfWork) OrderRepository() iorder.PostgresRepository {
	return &fakeOrderRepo{store: u.store}
}

func (u *fakeUnitOfWork) OrderItemRepository() iorderitem.PostgresRepository {
	return &fakeOrderItemRepo{store: u.store}
}

type fakeBasketRepo struct {
	store *memStore
}

func (r *fakeBasketRepo) ListByUser(_ context.Context, userID int64) ([]basketitem.BasketItem, error) {
	var items []basketitem.BasketItem
	for _, item := range r.store.basket {
		if item.UserID == userID {
			items = append(items, item)
		}
	}

	return items, nil
}

func (r *fakeBasketRepo) GetByID(_ context.Context, id int64) (*basketitem.BasketItem, error) {
	for _, item := range r.store.basket {
		if item.ID == id {
			found := item

			return &found, nil
		}
	}

	return nil, errs.ErrNotFound
}

func (r *fakeBasketRepo) GetByUserAndProduct(_ context.Context, userID, productID int64) (*basketitem.BasketItem, error) {
	for _, item := range r.store.basket {
		if item.UserID == userID && item.ProductID == productID {
			found := item

			return &found, nil
		}
	}

	return nil, errs.ErrNotFound
}

func (r *fakeBasketRepo) Insert(_ context.Context, item basketitem.BasketItem) (basketitem.BasketItem, error) {
	item.ID = r.store.nextItemID
	r.store.nextItemID++
	r.store.basket = append(r.store.basket, item)

	return item, nil
}

func (r *fakeBasketRepo) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	for i := range r.store.basket {
		if r.store.basket[i].ID == id {
			r.store.basket[i].Quantity = quantity

			return nil
		}
	}

	return errs.ErrNotFound
}

func (r *fakeBasketRepo) Delete(_ context.Context, id int64) error {
	for i := range r.store.basket {
		if r.store.basket[i].ID == id {
			r.store.basket = append(r.store.basket[:i], r.store.basket[i+1:]...)

			return nil
		}
	}

	return nil
}

func (r *fakeBasketRepo) DeleteByUser(_ context.Context, userID int64) error {
	var kept []basketitem.BasketItem
	for _, item := range r.store.basket {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.store.basket = kept

	return nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Insert(_ context.Context, p product.Product) (product.Product, error) {
	r.store.products[p.ID] = p

	return p, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, errs.ErrProductNotFound
	}

	return &p, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]product.Product, error) {
	var result []product.Product
	for _, p := range r.store.products {
		result = append(result, p)
	}

	return result, nil
}

func (r *fakeProductRepo) ReserveStock(_ context.Context, productID int64, qty int) error {
	p, ok := r.store.products[productID]
	if !ok || p.Stock < qty {
		return errs.ErrInsufficientStock
	}
	p.Stock -= qty
	r.store.products[productID] = p

	return nil
}

func (r *fakeProductRepo) ReleaseStock(_ context.Context, productID int64, qty int) error {
	p, ok := r.store.products[productID]
	if !ok {
		return nil
	}
	p.Stock += qty
	r.store.products[productID] = p

	return nil
}

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	o.ID = r.store.nextOrderID
	o.OrderDate = time.Now()
	r.store.nextOrderID++
	r.store.orders[o.ID] = o

	return o, nil
}

func (r *fakeOrderRepo) GetByIDAndUser(_ context.Context, id, userID int64) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok || o.UserID != userID {
		return nil, errs.ErrNotFound
	}

	return &o, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID int64) ([]order.Order, error) {
	var result []order.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}

	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	o, ok := r.store.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.Status = status
	r.store.orders[id] = o

	return nil
}

type fakeOrderItemRepo struct {
	store *memStore
}

func (r *fakeOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	for i := range items {
		items[i].ID = r.store.nextItemID
		r.store.nextItemID++
		r.store.orderItems = append(r.store.orderItems, items[i])
	}

	return items, nil
}

func (r *fakeOrderItemRepo) ListByOrders(_ context.Context, orderIDs []int64) ([]orderitem.OrderItem, error) {
	wanted := map[int64]bool{}
	for _, id := range orderIDs {
		wanted[id] = true
	}

	var result []orderitem.OrderItem
	for _, item := range r.store.orderItems {
		if wanted[item.OrderID] {
			result = append(result, item)
		}
	}

	return result, nil
}

type fakeAuditRepo struct {
	created   []order.Order
	cancelled []order.Order
	err       error
}

func (r *fakeAuditRepo) LogOrderCreated(_ context.Context, o order.Order) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, o)

	return nil
}

func (r *fakeAuditRepo) LogOrderCancelled(_ context.Context, o order.Order) error {
	if r.err != nil {
		return r.err
	}
	r.cancelled = append(r.cancelled, o)

	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(store *memStore, audit *fakeAuditRepo) *ordersvc.OrderService {
	if audit != nil {
		return ordersvc.MustNewOrderService(
			ordersvc.WithUnitOfWorkFactory(func() ordersvc.UnitOfWork {
				return newFakeUnitOfWork(store)
			}),
			ordersvc.WithAuditRepository(audit),
		)
	}

	return ordersvc.MustNewOrderService(
		ordersvc.WithUnitOfWorkFactory(func() ordersvc.UnitOfWork {
			return newFakeUnitOfWork(store)
		}),
	)
}

func TestCreateOrder_EmptyBasket(t *testing.T) {
	store := newMemStore()
	svc := newService(store, nil)

	o, err := svc.CreateOrder(context.Background(), 1)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrEmptyBasket)
}

func TestCreateOrder_ProductGone(t *testing.T) {
	store := newMemStore()
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 42, Quantity: 1},
	}
	svc := newService(store, nil)

	o, err := svc.CreateOrder(context.Background(), 1)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
	assert.Len(t, store.basket, 1, "basket must survive a failed order")
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 1}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
	}
	svc := newService(store, nil)

	o, err := svc.CreateOrder(context.Background(), 1)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Equal(t, 1, store.products[10].Stock)
	assert.Len(t, store.basket, 1)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_Success(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("19.99"), Stock: 5}
	store.products[11] = product.Product{ID: 11, Name: "pen", Price: price("2.50"), Stock: 2}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 3},
		{ID: 2, UserID: 1, ProductID: 11, Quantity: 2},
	}
	audit := &fakeAuditRepo{}
	svc := newService(store, audit)

	o, err := svc.CreateOrder(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, order.StatusCreated, o.Status)
	assert.True(t, o.Total.Equal(price("64.97")), "3*19.99 + 2*2.50 = 64.97, got %s", o.Total)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].PriceAtPurchase.Equal(price("19.99")))
	assert.Equal(t, 3, o.Items[0].Quantity)

	assert.Empty(t, store.basket, "basket drained on success")
	assert.Equal(t, 2, store.products[10].Stock)
	assert.Equal(t, 0, store.products[11].Stock)
	require.Len(t, audit.created, 1)
	assert.Equal(t, o.ID, audit.created[0].ID)
}

func TestCreateOrder_DoesNotTouchOtherBaskets(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 10}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
		{ID: 2, UserID: 2, ProductID: 10, Quantity: 4},
	}
	svc := newService(store, nil)

	_, err := svc.CreateOrder(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, store.basket, 1)
	assert.Equal(t, int64(2), store.basket[0].UserID)
}

// The conditional decrement is the authoritative stock check: when it fails
// mid-order, everything written so far must roll back.
func TestCreateOrder_ReserveFailureRollsBack(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
	}

	svc := ordersvc.MustNewOrderService(
		ordersvc.WithUnitOfWorkFactory(func() ordersvc.UnitOfWork {
			work := newFakeUnitOfWork(store)
			work.productRepo = &reserveFailingRepo{fakeProductRepo{store: store}}

			return work
		}),
	)

	o, err := svc.CreateOrder(context.Background(), 1)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Empty(t, store.orders, "no partial order may be visible")
	assert.Empty(t, store.orderItems)
	assert.Len(t, store.basket, 1)
}

type reserveFailingRepo struct {
	fakeProductRepo
}

func (r *reserveFailingRepo) ReserveStock(_ context.Context, _ int64, _ int) error {
	return errs.ErrInsufficientStock
}

func TestCreateOrder_SequentialOrdersExhaustStock(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 1}
	svc := newService(store, nil)

	store.basket = []basketitem.BasketItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}
	_, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	store.basket = []basketitem.BasketItem{{ID: 2, UserID: 2, ProductID: 10, Quantity: 1}}
	_, err = svc.CreateOrder(context.Background(), 2)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Equal(t, 0, store.products[10].Stock)
}

func TestCreateOrder_AuditFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
	}
	audit := &fakeAuditRepo{err: assert.AnError}
	svc := newService(store, audit)

	o, err := svc.CreateOrder(context.Background(), 1)

	require.NoError(t, err, "a committed order must not fail on audit publish")
	require.NotNil(t, o)
	assert.Empty(t, store.basket)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("19.99"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 3},
	}
	audit := &fakeAuditRepo{}
	svc := newService(store, audit)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, store.products[10].Stock)

	cancelled, err := svc.CancelOrder(context.Background(), 1, created.ID)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, store.products[10].Stock)
	assert.Equal(t, order.StatusCancelled, store.orders[created.ID].Status)
	require.Len(t, audit.cancelled, 1)
}

func TestCancelOrder_ForeignUser(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
	}
	svc := newService(store, nil)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	o, err := svc.CancelOrder(context.Background(), 2, created.ID)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrNotFound, "other users' orders look nonexistent")
	assert.Equal(t, 3, store.products[10].Stock, "stock untouched")
	assert.Equal(t, order.StatusCreated, store.orders[created.ID].Status)
}

func TestCancelOrder_Twice(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
	}
	svc := newService(store, nil)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), 1, created.ID)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), 1, created.ID)

	assert.ErrorIs(t, err, errs.ErrOrderCancelled)
	assert.Equal(t, 5, store.products[10].Stock, "stock restored exactly once")
}

func TestCancelOrder_MissingOrder(t *testing.T) {
	store := newMemStore()
	svc := newService(store, nil)

	o, err := svc.CancelOrder(context.Background(), 1, 999)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCancelOrder_ProductRemovedFromCatalog(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
	}
	svc := newService(store, nil)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	delete(store.products, 10)

	cancelled, err := svc.CancelOrder(context.Background(), 1, created.ID)

	require.NoError(t, err, "restore is best-effort for vanished products")
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
}

func TestGetOrder_AttachesItems(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("19.99"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
	}
	svc := newService(store, nil)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	o, err := svc.GetOrder(context.Background(), 1, created.ID)

	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(10), o.Items[0].ProductID)
	assert.True(t, o.Items[0].PriceAtPurchase.Equal(price("19.99")))
}

func TestGetOrder_ForeignUser(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 5}
	store.basket = []basketitem.BasketItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
	}
	svc := newService(store, nil)

	created, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), 2, created.ID)

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListOrders_Empty(t *testing.T) {
	store := newMemStore()
	svc := newService(store, nil)

	orders, err := svc.ListOrders(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_AttachesItemsPerOrder(t *testing.T) {
	store := newMemStore()
	store.products[10] = product.Product{ID: 10, Name: "mug", Price: price("5.00"), Stock: 10}
	store.products[11] = product.Product{ID: 11, Name: "pen", Price: price("2.50"), Stock: 10}
	svc := newService(store, nil)

	store.basket = []basketitem.BasketItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}
	first, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	store.basket = []basketitem.BasketItem{{ID: 2, UserID: 1, ProductID: 11, Quantity: 2}}
	second, err := svc.CreateOrder(context.Background(), 1)
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	byID := map[int64]order.Order{}
	for _, o := range orders {
		byID[o.ID] = o
	}
	require.Len(t, byID[first.ID].Items, 1)
	assert.Equal(t, int64(10), byID[first.ID].Items[0].ProductID)
	require.Len(t, byID[second.ID].Items, 1)
	assert.Equal(t, int64(11), byID[second.ID].Items[0].ProductID)
}
