package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
	"github.com/foodkart/catalog-service/internal/storage"
)

// CreateProductInput carries a validated create request
type CreateProductInput struct {
	Name               string
	Description        string
	PriceConfiguration map[string]models.PriceOption
	Attributes         []models.ProductAttribute
	TenantID           string
	CategoryID         string
	IsPublish          bool
	Image              *UploadFile
}

// UpdateProductInput carries a validated full update request. Image is nil
// when no replacement file was attached.
type UpdateProductInput struct {
	Name               string
	Description        string
	PriceConfiguration map[string]models.PriceOption
	Attributes         []models.ProductAttribute
	TenantID           string
	CategoryID         string
	IsPublish          bool
	Image              *UploadFile
}

// ProductListQuery is the raw list query before filter composition
type ProductListQuery struct {
	Query      string
	TenantID   string
	CategoryID string
	IsPublish  string
	Page       int64
	Limit      int64
}

// ProductService runs the product mutation pipeline:
// stage -> upload -> persist -> cleanup
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	staging    storage.Stager
	files      storage.FileStorage
	log        *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	staging storage.Stager,
	files storage.FileStorage,
	log *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		staging:    staging,
		files:      files,
		log:        log,
	}
}

// Create stages and uploads the required image, then persists the product.
// The upload always precedes persistence; if persistence fails the uploaded
// object is destroyed as compensation.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.Image == nil {
		return nil, apperr.Validation("image file is required")
	}

	categoryID, err := primitive.ObjectIDFromHex(in.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id")
	}

	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, apperr.Validation("unknown category")
		}
		return nil, err
	}
	if err := validateAgainstCategory(category, in.PriceConfiguration, in.Attributes); err != nil {
		return nil, err
	}

	uploaded, err := s.stageAndUpload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:               in.Name,
		Description:        in.Description,
		Image:              uploaded.SecureURL,
		PriceConfiguration: in.PriceConfiguration,
		Attributes:         in.Attributes,
		TenantID:           in.TenantID,
		CategoryID:         categoryID,
		IsPublish:          in.IsPublish,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if derr := s.files.Destroy(ctx, uploaded.PublicID); derr != nil {
			s.log.Error("compensating image delete failed",
				"public_id", uploaded.PublicID, "error", derr)
		}
		return nil, err
	}

	s.log.Info("product created", "id", created.ID.Hex(), "tenant_id", created.TenantID)
	return created, nil
}

// Get returns a single product with its category joined in
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the product's mutable fields. When a new image is
// attached it is uploaded first, the product is persisted pointing at it,
// and only then is the old remote object deleted.
func (s *ProductService) Update(ctx context.Context, actor Actor, id string, in UpdateProductInput) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, existing.TenantID); err != nil {
		return nil, err
	}

	categoryID, err := primitive.ObjectIDFromHex(in.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id")
	}

	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, apperr.Validation("unknown category")
		}
		return nil, err
	}
	if err := validateAgainstCategory(category, in.PriceConfiguration, in.Attributes); err != nil {
		return nil, err
	}

	image := existing.Image
	var uploaded *storage.UploadResult
	if in.Image != nil {
		uploaded, err = s.stageAndUpload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		image = uploaded.SecureURL
	}

	updated, err := s.repo.Update(ctx, id, models.ProductUpdate{
		Name:               in.Name,
		Description:        in.Description,
		Image:              image,
		PriceConfiguration: in.PriceConfiguration,
		Attributes:         in.Attributes,
		TenantID:           in.TenantID,
		CategoryID:         categoryID,
		IsPublish:          in.IsPublish,
	})
	if err != nil {
		if uploaded != nil {
			if derr := s.files.Destroy(ctx, uploaded.PublicID); derr != nil {
				s.log.Error("compensating image delete failed",
					"public_id", uploaded.PublicID, "error", derr)
			}
		}
		return nil, err
	}

	if uploaded != nil && existing.Image != "" {
		s.destroyByURL(ctx, existing.Image)
	}

	s.log.Info("product updated", "id", id)
	return updated, nil
}

// Delete removes the product record, then destroys its remote image
func (s *ProductService) Delete(ctx context.Context, actor Actor, id string) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, existing.TenantID); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if deleted.Image != "" {
		s.destroyByURL(ctx, deleted.Image)
	}

	s.log.Info("product deleted", "id", id)
	return deleted, nil
}

// List composes the match filter and returns a page of category-joined
// products. A malformed categoryId is dropped from the filter, not rejected.
func (s *ProductService) List(ctx context.Context, q ProductListQuery) (*models.Page[models.Product], error) {
	filter := repository.ListFilter{
		Query:    q.Query,
		TenantID: q.TenantID,
	}
	if oid, err := primitive.ObjectIDFromHex(q.CategoryID); err == nil {
		filter.CategoryID = &oid
	}
	if q.IsPublish == "true" {
		published := true
		filter.IsPublish = &published
	}

	page, limit := normalizePage(q.Page, q.Limit)
	return s.repo.List(ctx, filter, repository.Pagination{Page: page, Limit: limit})
}

func (s *ProductService) stageAndUpload(ctx context.Context, file *UploadFile) (*storage.UploadResult, error) {
	localPath, err := s.staging.Save(file.Reader, file.Filename)
	if err != nil {
		return nil, fmt.Errorf("stage image: %w", err)
	}
	return s.files.Upload(ctx, localPath)
}

// destroyByURL deletes the remote object behind a previously stored image
// URL. Failures are logged, not surfaced: the record no longer references
// the object.
func (s *ProductService) destroyByURL(ctx context.Context, imageURL string) {
	publicID, err := storage.ExtractPublicID(imageURL)
	if err != nil {
		s.log.Error("could not resolve old image public id", "url", imageURL, "error", err)
		return
	}
	if err := s.files.Destroy(ctx, publicID); err != nil {
		s.log.Error("old image delete failed", "public_id", publicID, "error", err)
	}
}

// validateAgainstCategory checks the product's structured fields against
// the owning category's schema
func validateAgainstCategory(category *models.Category, pc map[string]models.PriceOption, attrs []models.ProductAttribute) error {
	for key, opt := range pc {
		declared, ok := category.PriceConfiguration[key]
		if !ok {
			return apperr.Validation(fmt.Sprintf("unknown price configuration key: %s", key))
		}
		if opt.PriceType != declared.PriceType {
			return apperr.Validation(fmt.Sprintf("price type mismatch for %s: expected %s", key, declared.PriceType))
		}
	}

	allowed := make(map[string]bool, len(category.Attributes))
	for _, attr := range category.Attributes {
		allowed[attr.Name] = true
	}
	for _, attr := range attrs {
		if !allowed[attr.Name] {
			return apperr.Validation(fmt.Sprintf("unknown attribute: %s", attr.Name))
		}
	}

	return nil
}
