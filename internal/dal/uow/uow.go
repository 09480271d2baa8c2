package uow

import (
	"context"

	ibasketitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/basketitem"
	iorder "github.com/idp-labs/shop-svc/internal/dal/interfaces/order"
	iorderitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/orderitem"
	iproduct "github.com/idp-labs/shop-svc/internal/dal/interfaces/product"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	basketitemrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/basketitem/postgres"
	orderrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/orderitem/postgres"
	productrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/product/postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jackc/pgx/v5"
)

// unitOfWork scopes the repositories of one atomic workflow to a single
// transaction. Before Begin the repositories run on the pool; after Begin
// they are rebound to the transaction.
type unitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	basketItemRepo ibasketitem.PostgresRepository
	productRepo    iproduct.PostgresRepository
	orderRepo      iorder.PostgresRepository
	orderItemRepo  iorderitem.PostgresRepository
}

func NewUnitOfWork(db *postgres.Client) *unitOfWork {
	pool := db.Pool()
	return &unitOfWork{
		pool:           pool,
		basketItemRepo: basketitemrepo.NewPostgresBasketItemRepository(pool),
		productRepo:    productrepo.NewPostgresProductRepository(pool),
		orderRepo:      orderrepo.NewPostgresOrderRepository(pool),
		orderItemRepo:  orderitemrepo.NewPostgresOrderItemRepository(pool),
	}
}

func (u *unitOfWork) BasketItemRepository() ibasketitem.PostgresRepository {
	return u.basketItemRepo
}

func (u *unitOfWork) ProductRepository() iproduct.PostgresRepository {
	return u.productRepo
}

func (u *unitOfWork) OrderRepository() iorder.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitem.PostgresRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	u.tx = tx
	u.basketItemRepo = basketitemrepo.NewPostgresBasketItemRepository(tx)
	u.productRepo = productrepo.NewPostgresProductRepository(tx)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
