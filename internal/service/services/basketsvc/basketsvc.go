package basketsvc

import (
	"context"
	"errors"

	ibasketitem "github.com/idp-labs/shop-svc/internal/dal/interfaces/basketitem"
	iproduct "github.com/idp-labs/shop-svc/internal/dal/interfaces/product"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	basketitemrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/basketitem/postgres"
	productrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/product/postgres"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
)

// BasketService manages the per-user basket. Its stock checks are advisory,
// taken against live stock at call time; the order workflow re-verifies
// authoritatively at commit.
type BasketService struct {
	basketRepo  ibasketitem.PostgresRepository
	productRepo iproduct.PostgresRepository
}

// option is a function that configures the BasketService.
type option func(*BasketService)

// MustNewBasketService creates a new BasketService.
func MustNewBasketService(opts ...option) *BasketService {
	s := &BasketService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.basketRepo == nil || s.productRepo == nil {
		panic("basketsvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the BasketService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *BasketService) {
		s.basketRepo = basketitemrepo.NewPostgresBasketItemRepository(pgClient.Pool())
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

// WithRepositories sets the repositories directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(basketRepo ibasketitem.PostgresRepository, productRepo iproduct.PostgresRepository) option {
	return func(s *BasketService) {
		s.basketRepo = basketRepo
		s.productRepo = productRepo
	}
}

// List returns the user's basket with product snapshots.
func (s *BasketService) List(ctx context.Context, userID int64) ([]basketitem.BasketItem, error) {
	items, err := s.basketRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []basketitem.BasketItem{}
	}

	return items, nil
}

// Add puts qty units of a product into the basket, merging with an existing
// item for the same product by summing quantities. The merged quantity must
// not exceed current stock.
func (s *BasketService) Add(ctx context.Context, userID, productID int64, qty int) (*basketitem.BasketItem, error) {
	if qty <= 0 {
		return nil, errs.ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.basketRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	requested := qty
	if existing != nil {
		requested += existing.Quantity
	}
	if p.Stock < requested {
		return nil, errs.ErrInsufficientStock
	}

	if existing != nil {
		if err := s.basketRepo.UpdateQuantity(ctx, existing.ID, requested); err != nil {
			return nil, err
		}
		existing.Quantity = requested
		existing.Product = p

		return existing, nil
	}

	item, err := s.basketRepo.Insert(ctx, basketitem.BasketItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		return nil, err
	}
	item.Product = p

	return &item, nil
}

// Update replaces the quantity of a basket item owned by the user.
func (s *BasketService) Update(ctx context.Context, userID, itemID int64, qty int) (*basketitem.BasketItem, error) {
	if qty <= 0 {
		return nil, errs.ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Stock < qty {
		return nil, errs.ErrInsufficientStock
	}

	if err := s.basketRepo.UpdateQuantity(ctx, item.ID, qty); err != nil {
		return nil, err
	}
	item.Quantity = qty
	item.Product = p

	return item, nil
}

// Remove deletes a basket item owned by the user.
func (s *BasketService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	return s.basketRepo.Delete(ctx, item.ID)
}

// Clear removes every item from the user's basket.
func (s *BasketService) Clear(ctx context.Context, userID int64) error {
	return s.basketRepo.DeleteByUser(ctx, userID)
}

// ownedItem loads an item and hides items of other users behind ErrNotFound.
func (s *BasketService) ownedItem(ctx context.Context, userID, itemID int64) (*basketitem.BasketItem, error) {
	item, err := s.basketRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, errs.ErrNotFound
	}

	return item, nil
}
