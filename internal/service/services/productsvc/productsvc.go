package productsvc

import (
	"context"

	iproduct "github.com/idp-labs/shop-svc/internal/dal/interfaces/product"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	productrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/product/postgres"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
)

// ProductService manages the catalog. Stock mutation is owned by the order
// workflow, not by this service.
type ProductService struct {
	productRepo iproduct.PostgresRepository
}

type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil {
		panic("productsvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *ProductService) {
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

// WithRepository sets the product repository directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iproduct.PostgresRepository) option {
	return func(s *ProductService) {
		s.productRepo = repo
	}
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, p product.Product) (product.Product, error) {
	return s.productRepo.Insert(ctx, p)
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id int64) (*product.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// List returns the whole catalog.
func (s *ProductService) List(ctx context.Context) ([]product.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}
