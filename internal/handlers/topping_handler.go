package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodkart/catalog-service/internal/service"
)

// ToppingHandler handles topping-related HTTP requests
type ToppingHandler struct {
	service       *service.ToppingService
	validate      *validator.Validate
	log           *slog.Logger
	maxUploadSize int64
}

// NewToppingHandler creates a new topping handler
func NewToppingHandler(svc *service.ToppingService, validate *validator.Validate, log *slog.Logger, maxUploadSize int64) *ToppingHandler {
	return &ToppingHandler{
		service:       svc,
		validate:      validate,
		log:           log,
		maxUploadSize: maxUploadSize,
	}
}

type toppingForm struct {
	Name     string `validate:"required"`
	Price    string `validate:"required,numeric"`
	TenantID string `validate:"required"`
}

// Create handles POST /toppings
func (h *ToppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form", h.log)
		return
	}

	form := toppingForm{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		TenantID: r.FormValue("tenantId"),
	}
	if err := h.validate.Struct(form); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err), h.log)
		return
	}
	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "price must be a number", h.log)
		return
	}

	image, err := formImage(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	created, err := h.service.Create(r.Context(), service.CreateToppingInput{
		Name:      form.Name,
		Price:     price,
		TenantID:  form.TenantID,
		IsPublish: r.FormValue("isPublish") == "true",
		Image:     image,
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": created.ID.Hex()}, h.log)
}

// List handles GET /toppings
func (h *ToppingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.service.List(r.Context(), service.ToppingListQuery{
		Query:     query.Get("q"),
		TenantID:  query.Get("tenantId"),
		IsPublish: query.Get("isPublish"),
		Page:      queryInt(query.Get("page")),
		Limit:     queryInt(query.Get("limit")),
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, page, h.log)
}

// Get handles GET /toppings/{id}
func (h *ToppingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	topping, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, topping, h.log)
}

// Update handles PATCH /toppings/{id}. Only the fields present in the form
// are applied.
func (h *ToppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form", h.log)
		return
	}

	in := service.UpdateToppingInput{
		Name:     formOptional(r, "name"),
		TenantID: formOptional(r, "tenantId"),
	}
	if raw := formOptional(r, "price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "price must be a number", h.log)
			return
		}
		in.Price = &price
	}
	if raw := formOptional(r, "isPublish"); raw != nil {
		published := *raw == "true"
		in.IsPublish = &published
	}

	image, err := formImage(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}
	in.Image = image

	_, err = h.service.Update(r.Context(), actorFromContext(r), id, in)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": id}, h.log)
}

// Delete handles DELETE /toppings/{id}
func (h *ToppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, err := h.service.Delete(r.Context(), actorFromContext(r), id)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": id}, h.log)
}

// formOptional returns the form value when the field was sent, nil otherwise
func formOptional(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}
