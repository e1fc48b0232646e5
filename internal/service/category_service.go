package service

import (
	"context"
	"log/slog"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
)

// CategoryService handles business logic for categories
type CategoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	log      *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository, log *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:     repo,
		products: products,
		log:      log,
	}
}

// Create persists a new category
func (s *CategoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	s.log.Info("category created", "id", created.ID.Hex())
	return created, nil
}

// GetAll returns the id and name of every category
func (s *CategoryService) GetAll(ctx context.Context) ([]models.CategorySummary, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a single category
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update and returns the post-update state
func (s *CategoryService) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info("category updated", "id", updated.ID.Hex())
	return updated, nil
}

// Delete removes a category. Deletion is restricted while products still
// reference the category.
func (s *CategoryService) Delete(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.products.CountByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("category is still referenced by products")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("category deleted", "id", deleted.ID.Hex())
	return deleted, nil
}
