package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/middleware"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
	"github.com/foodkart/catalog-service/internal/service"
	"github.com/foodkart/catalog-service/internal/storage"
	"github.com/foodkart/catalog-service/pkg/logger"
)

const testMaxUploadSize = 10 << 20

type fakeStager struct {
	saved int
}

func (s *fakeStager) Save(file io.Reader, name string) (string, error) {
	s.saved++
	return filepath.Join("uploads", fmt.Sprintf("%d-%s", s.saved, name)), nil
}

type fakeFiles struct {
	uploads   int
	destroyed []string
}

func (f *fakeFiles) Upload(ctx context.Context, localPath string) (*storage.UploadResult, error) {
	f.uploads++
	base := filepath.Base(localPath)
	publicID := strings.TrimSuffix(base, filepath.Ext(base))
	return &storage.UploadResult{
		PublicID:  publicID,
		SecureURL: "https://res.example.com/demo/image/upload/v1/" + base,
	}, nil
}

func (f *fakeFiles) Destroy(ctx context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*models.Category{}}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = primitive.NewObjectID()
	r.categories[category.ID.Hex()] = category
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
	return category, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id string) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	delete(r.categories, id)
	return category, nil
}

type fakeProductRepo struct {
	products   map[string]*models.Product
	failCreate bool
	references int64
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
	return product, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
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
	return product, nil
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
	data := []models.Product{}
	for _, p := range r.products {
		data = append(data, *p)
	}
	return &models.Page[models.Product]{
		Data:        data,
		Total:       int64(len(data)),
		PageSize:    page.Limit,
		CurrentPage: page.Page,
	}, nil
}

func (r *fakeProductRepo) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.references, nil
}

type fakeToppingRepo struct {
	toppings map[string]*models.Topping
}

func newFakeToppingRepo() *fakeToppingRepo {
	return &fakeToppingRepo{toppings: map[string]*models.Topping{}}
}

func (r *fakeToppingRepo) Create(ctx context.Context, topping *models.Topping) (*models.Topping, error) {
	topping.ID = primitive.NewObjectID()
	r.toppings[topping.ID.Hex()] = topping
	return topping, nil
}

func (r *fakeToppingRepo) GetByID(ctx context.Context, id string) (*models.Topping, error) {
	topping, ok := r.toppings[id]
	if !ok {
		return nil, apperr.NotFound("topping not found")
	}
	return topping, nil
}

func (r *fakeToppingRepo) Update(ctx context.Context, id string, patch models.ToppingPatch) (*models.Topping, error) {
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
	return topping, nil
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
	data := []models.Topping{}
	for _, t := range r.toppings {
		data = append(data, *t)
	}
	return &models.Page[models.Topping]{
		Data:        data,
		Total:       int64(len(data)),
		PageSize:    page.Limit,
		CurrentPage: page.Page,
	}, nil
}

// testEnv wires real services over in-memory fakes behind a chi router
type testEnv struct {
	router     *chi.Mux
	categories *fakeCategoryRepo
	products   *fakeProductRepo
	toppings   *fakeToppingRepo
	files      *fakeFiles
	categoryID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New("error")
	validate := validator.New()

	categories := newFakeCategoryRepo()
	seeded, err := categories.Create(context.Background(), &models.Category{
		Name: "Pizza",
		PriceConfiguration: map[string]models.PriceOption{
			"size": {
				PriceType:        models.PriceTypeBase,
				AvailableOptions: map[string]float64{"small": 400, "large": 600},
			},
		},
		Attributes: []models.Attribute{
			{Name: "spiciness", WidgetType: "radio", AvailableOptions: []string{"mild", "hot"}},
		},
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	products := newFakeProductRepo()
	toppings := newFakeToppingRepo()
	files := &fakeFiles{}
	stager := &fakeStager{}

	categorySvc := service.NewCategoryService(categories, products, log)
	productSvc := service.NewProductService(products, categories, stager, files, log)
	toppingSvc := service.NewToppingService(toppings, stager, files, log)

	categoryHandler := NewCategoryHandler(categorySvc, validate, log)
	productHandler := NewProductHandler(productSvc, validate, log, testMaxUploadSize)
	toppingHandler := NewToppingHandler(toppingSvc, validate, log, testMaxUploadSize)

	r := chi.NewRouter()
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)
		r.Post("/", categoryHandler.Create)
		r.Get("/{id}", categoryHandler.Get)
		r.Patch("/{id}", categoryHandler.Update)
		r.Delete("/{id}", categoryHandler.Delete)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Post("/", productHandler.Create)
		r.Get("/{productId}", productHandler.Get)
		r.Put("/{productId}", productHandler.Update)
		r.Delete("/{productId}", productHandler.Delete)
	})
	r.Route("/toppings", func(r chi.Router) {
		r.Get("/", toppingHandler.List)
		r.Post("/", toppingHandler.Create)
		r.Get("/{id}", toppingHandler.Get)
		r.Patch("/{id}", toppingHandler.Update)
		r.Delete("/{id}", toppingHandler.Delete)
	})

	return &testEnv{
		router:     r,
		categories: categories,
		products:   products,
		toppings:   toppings,
		files:      files,
		categoryID: seeded.ID.Hex(),
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// withActor injects verified claims the way the auth middleware would
func withActor(req *http.Request, role, tenant string) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), middleware.Claims{
		Sub:    "user-1",
		Role:   role,
		Tenant: tenant,
	}))
}

// multipartBody builds a multipart form with the given fields and an
// optional image part
func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write form field %q: %v", key, err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
