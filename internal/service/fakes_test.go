package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
	"github.com/foodkart/catalog-service/internal/storage"
)

// fakeStager returns deterministic staged paths without touching disk
type fakeStager struct {
	saved []string
}

func (s *fakeStager) Save(file io.Reader, name string) (string, error) {
	path := filepath.Join("uploads", fmt.Sprintf("%d-%s", len(s.saved), name))
	s.saved = append(s.saved, path)
	return path, nil
}

// fakeFiles records uploads and destroys in memory
type fakeFiles struct {
	uploads     []storage.UploadResult
	destroyed   []string
	failUpload  bool
	failDestroy bool
}

func (f *fakeFiles) Upload(ctx context.Context, localPath string) (*storage.UploadResult, error) {
	if f.failUpload {
		return nil, apperr.Upload(errors.New("remote unavailable"))
	}
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	publicID := strings.TrimSuffix(base, ext)
	result := storage.UploadResult{
		PublicID:  publicID,
		SecureURL: "https://res.example.com/demo/image/upload/v1/" + publicID + ext,
	}
	f.uploads = append(f.uploads, result)
	return &result, nil
}

func (f *fakeFiles) Destroy(ctx context.Context, publicID string) error {
	if f.failDestroy {
		return apperr.Delete(errors.New("remote unavailable"))
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

// fakeProductRepo implements repository.ProductRepository in memory
type fakeProductRepo struct {
	products   map[string]*models.Product
	lastFilter repository.ListFilter
	lastPage   repository.Pagination
	failCreate bool
	failUpdate bool
	categories int64 // CountByCategory result
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*models.Product{}}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if r.failCreate {
		return nil, apperr.Storage(errors.New("insert failed"))
	}
	product.ID = primitive.NewObjectID()
	r.products[product.ID.Hex()] = product
	return product, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	if r.failUpdate {
		return nil, apperr.Storage(errors.New("update failed"))
	}
	product, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	product.Name = update.Name
	product.Description = update.Description
	product.Image = update.Image
	product.PriceConfiguration = update.PriceConfiguration
	product.Attributes = update.Attributes
	product.TenantID = update.TenantID
	product.CategoryID = update.CategoryID
	product.IsPublish = update.IsPublish
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	delete(r.products, id)
	return product, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ListFilter, page repository.Pagination) (*models.Page[models.Product], error) {
	r.lastFilter = filter
	r.lastPage = page
	return &models.Page[models.Product]{Data: []models.Product{}, PageSize: page.Limit, CurrentPage: page.Page}, nil
}

func (r *fakeProductRepo) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.categories, nil
}

// fakeCategoryRepo implements repository.CategoryRepository in memory
type fakeCategoryRepo struct {
	categories map[string]*models.Category
	deleted    []string
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*models.Category{}}
}

func (r *fakeCategoryRepo) add(category *models.Category) string {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	r.categories[category.ID.Hex()] = category
	return category.ID.Hex()
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	r.add(category)
	return category, nil
}

func (r *fakeCategoryRepo) GetAll(ctx context.Context) ([]models.CategorySummary, error) {
	summaries := []models.CategorySummary{}
	for _, c := range r.categories {
		summaries = append(summaries, models.CategorySummary{ID: c.ID, Name: c.Name})
	}
	return summaries, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.PriceConfiguration != nil {
		category.PriceConfiguration = *patch.PriceConfiguration
	}
	if patch.Attributes != nil {
		category.Attributes = *patch.Attributes
	}
	return category, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id string) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	delete(r.categories, id)
	r.deleted = append(r.deleted, id)
	return category, nil
}

// fakeToppingRepo implements repository.ToppingRepository in memory
type fakeToppingRepo struct {
	toppings   map[string]*models.Topping
	lastFilter repository.ListFilter
	lastPage   repository.Pagination
	failCreate bool
	failUpdate bool
}

func newFakeToppingRepo() *fakeToppingRepo {
	return &fakeToppingRepo{toppings: map[string]*models.Topping{}}
}

func (r *fakeToppingRepo) Create(ctx context.Context, topping *models.Topping) (*models.Topping, error) {
	if r.failCreate {
		return nil, apperr.Storage(errors.New("insert failed"))
	}
	topping.ID = primitive.NewObjectID()
	r.toppings[topping.ID.Hex()] = topping
	return topping, nil
}

func (r *fakeToppingRepo) GetByID(ctx context.Context, id string) (*models.Topping, error) {
	topping, ok := r.toppings[id]
	if !ok {
		return nil, apperr.NotFound("topping not found")
	}
	copied := *topping
	return &copied, nil
}

func (r *fakeToppingRepo) Update(ctx context.Context, id string, patch models.ToppingPatch) (*models.Topping, error) {
	if r.failUpdate {
		return nil, apperr.Storage(errors.New("update failed"))
	}
	topping, ok := r.toppings[id]
	if !ok {
		return nil, apperr.NotFound("topping not found")
	}
	if patch.Name != nil {
		topping.Name = *patch.Name
	}
	if patch.Price != nil {
		topping.Price = *patch.Price
	}
	if patch.TenantID != nil {
		topping.TenantID = *patch.TenantID
	}
	if patch.Image != nil {
		topping.Image = *patch.Image
	}
	if patch.IsPublish != nil {
		topping.IsPublish = *patch.IsPublish
	}
	copied := *topping
	return &copied, nil
}

func (r *fakeToppingRepo) Delete(ctx context.Context, id string) (*models.Topping, error) {
	topping, ok := r.toppings[id]
	if !ok {
		return nil, apperr.NotFound("topping not found")
	}
	delete(r.toppings, id)
	return topping, nil
}

func (r *fakeToppingRepo) List(ctx context.Context, filter repository.ListFilter, page repository.Pagination) (*models.Page[models.Topping], error) {
	r.lastFilter = filter
	r.lastPage = page
	return &models.Page[models.Topping]{Data: []models.Topping{}, PageSize: page.Limit, CurrentPage: page.Page}, nil
}
