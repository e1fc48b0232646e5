package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/repository"
	"github.com/foodkart/catalog-service/internal/storage"
)

// CreateToppingInput carries a validated topping create request
type CreateToppingInput struct {
	Name      string
	Price     float64
	TenantID  string
	IsPublish bool
	Image     *UploadFile
}

// UpdateToppingInput carries a partial topping update. Nil fields are left
// untouched; Image is nil when no replacement file was attached.
type UpdateToppingInput struct {
	Name      *string
	Price     *float64
	TenantID  *string
	IsPublish *bool
	Image     *UploadFile
}

// ToppingListQuery is the raw list query before filter composition
type ToppingListQuery struct {
	Query     string
	TenantID  string
	IsPublish string
	Page      int64
	Limit     int64
}

// ToppingService runs the topping mutation pipeline, sharing its shape with
// the product pipeline
type ToppingService struct {
	repo    repository.ToppingRepository
	staging storage.Stager
	files   storage.FileStorage
	log     *slog.Logger
}

// NewToppingService creates a new topping service
func NewToppingService(repo repository.ToppingRepository, staging storage.Stager, files storage.FileStorage, log *slog.Logger) *ToppingService {
	return &ToppingService{
		repo:    repo,
		staging: staging,
		files:   files,
		log:     log,
	}
}

// Create stages and uploads the required image, then persists the topping
func (s *ToppingService) Create(ctx context.Context, in CreateToppingInput) (*models.Topping, error) {
	if in.Image == nil {
		return nil, apperr.Validation("image file is required")
	}

	uploaded, err := s.stageAndUpload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	topping := &models.Topping{
		Name:      in.Name,
		Price:     in.Price,
		TenantID:  in.TenantID,
		Image:     uploaded.SecureURL,
		IsPublish: in.IsPublish,
	}

	created, err := s.repo.Create(ctx, topping)
	if err != nil {
		if derr := s.files.Destroy(ctx, uploaded.PublicID); derr != nil {
			s.log.Error("compensating image delete failed",
				"public_id", uploaded.PublicID, "error", derr)
		}
		return nil, err
	}

	s.log.Info("topping created", "id", created.ID.Hex(), "tenant_id", created.TenantID)
	return created, nil
}

// Get returns a single topping
func (s *ToppingService) Get(ctx context.Context, id string) (*models.Topping, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. A replacement image is uploaded before
// the record is persisted; the old remote object is deleted afterwards.
func (s *ToppingService) Update(ctx context.Context, actor Actor, id string, in UpdateToppingInput) (*models.Topping, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, existing.TenantID); err != nil {
		return nil, err
	}

	patch := models.ToppingPatch{
		Name:      in.Name,
		Price:     in.Price,
		TenantID:  in.TenantID,
		IsPublish: in.IsPublish,
	}

	var uploaded *storage.UploadResult
	if in.Image != nil {
		uploaded, err = s.stageAndUpload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &uploaded.SecureURL
	}

	updated, err := s.repo.Update(ctx, id, patch)
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

	s.log.Info("topping updated", "id", id)
	return updated, nil
}

// Delete removes the topping record, then destroys its remote image
func (s *ToppingService) Delete(ctx context.Context, actor Actor, id string) (*models.Topping, error) {
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

	s.log.Info("topping deleted", "id", id)
	return deleted, nil
}

// List composes the match filter and returns a page of toppings
func (s *ToppingService) List(ctx context.Context, q ToppingListQuery) (*models.Page[models.Topping], error) {
	filter := repository.ListFilter{
		Query:    q.Query,
		TenantID: q.TenantID,
	}
	if q.IsPublish != "" {
		published := true
		filter.IsPublish = &published
	}

	page, limit := normalizePage(q.Page, q.Limit)
	return s.repo.List(ctx, filter, repository.Pagination{Page: page, Limit: limit})
}

func (s *ToppingService) stageAndUpload(ctx context.Context, file *UploadFile) (*storage.UploadResult, error) {
	localPath, err := s.staging.Save(file.Reader, file.Filename)
	if err != nil {
		return nil, fmt.Errorf("stage image: %w", err)
	}
	return s.files.Upload(ctx, localPath)
}

func (s *ToppingService) destroyByURL(ctx context.Context, imageURL string) {
	publicID, err := storage.ExtractPublicID(imageURL)
	if err != nil {
		s.log.Error("could not resolve old image public id", "url", imageURL, "error", err)
		return
	}
	if err := s.files.Destroy(ctx, publicID); err != nil {
		s.log.Error("old image delete failed", "public_id", publicID, "error", err)
	}
}
