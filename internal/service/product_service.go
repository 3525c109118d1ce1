package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the validation outcome of one candidate in ValidateBatch.
type BatchResult struct {
	Index   int
	Product domain.Product
	Errors  domain.ValidationErrors
}

// Valid reports whether the candidate passed validation.
func (r BatchResult) Valid() bool {
	return len(r.Errors) == 0
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, candidate domain.ProductCandidate) (domain.Product, error)
	Update(ctx context.Context, id int64, candidate domain.ProductCandidate) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
	ValidateBatch(ctx context.Context, candidates []domain.ProductCandidate) ([]BatchResult, error)
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
	batchLimit  int
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
		batchLimit:  runtime.GOMAXPROCS(0),
	}
}

// Create validates a candidate and hands it to storage, which assigns the id
// and creation time
func (s *productService) Create(ctx context.Context, candidate domain.ProductCandidate) (domain.Product, error) {
	product, err := domain.ValidateProduct(candidate)
	if err != nil {
		s.logger.Debug("Product candidate rejected", zap.Error(err))
		return domain.Product{}, err
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to store product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", created.ID()))
	return created, nil
}

// Update re-validates the candidate against the stored product, keeping its
// id and creation time
func (s *productService) Update(ctx context.Context, id int64, candidate domain.ProductCandidate) (domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated, err := existing.Update(candidate)
	if err != nil {
		s.logger.Debug("Product update rejected", zap.Int64("product_id", id), zap.Error(err))
		return domain.Product{}, err
	}

	if err := s.productRepo.Update(ctx, updated); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	return updated, nil
}

func (s *productService) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	exists, err := s.productRepo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return exists, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// ValidateBatch validates candidates in parallel without storing anything.
// Results keep the input order.
func (s *productService) ValidateBatch(ctx context.Context, candidates []domain.ProductCandidate) ([]BatchResult, error) {
	results := make([]BatchResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i, candidate := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := BatchResult{Index: i}
			product, err := domain.ValidateProduct(candidate)
			if err != nil {
				ve, ok := domain.AsValidationErrors(err)
				if !ok {
					return err
				}
				result.Errors = ve
			} else {
				result.Product = product
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to validate batch: %w", err)
	}

	return results, nil
}
