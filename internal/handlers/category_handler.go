package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	service  *service.CategoryService
	validate *validator.Validate
	log      *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(svc *service.CategoryService, validate *validator.Validate, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  svc,
		validate: validate,
		log:      log,
	}
}

type createCategoryRequest struct {
	Name               string                        `json:"name" validate:"required"`
	PriceConfiguration map[string]models.PriceOption `json:"priceConfiguration" validate:"required"`
	Attributes         []models.Attribute            `json:"attributes" validate:"required"`
}

// Create handles POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err), h.log)
		return
	}

	created, err := h.service.Create(r.Context(), &models.Category{
		Name:               req.Name,
		PriceConfiguration: req.PriceConfiguration,
		Attributes:         req.Attributes,
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": created.ID.Hex()}, h.log)
}

// List handles GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.log)
}

// Get handles GET /categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, category, h.log)
}

// Update handles PATCH /categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": updated.ID.Hex()}, h.log)
}

// Delete handles DELETE /categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": deleted.ID.Hex()}, h.log)
}
