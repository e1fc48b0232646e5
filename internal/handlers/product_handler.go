package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodkart/catalog-service/internal/middleware"
	"github.com/foodkart/catalog-service/internal/models"
	"github.com/foodkart/catalog-service/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service       *service.ProductService
	validate      *validator.Validate
	log           *slog.Logger
	maxUploadSize int64
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc *service.ProductService, validate *validator.Validate, log *slog.Logger, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{
		service:       svc,
		validate:      validate,
		log:           log,
		maxUploadSize: maxUploadSize,
	}
}

// productForm holds the multipart fields of a product mutation request.
// priceConfiguration and attributes arrive as JSON-encoded strings.
type productForm struct {
	Name               string `validate:"required"`
	Description        string `validate:"required"`
	PriceConfiguration string `validate:"required"`
	Attributes         string `validate:"required"`
	TenantID           string `validate:"required"`
	CategoryID         string `validate:"required"`
	IsPublish          bool
}

// parseProductForm reads and validates the multipart form, decoding the
// JSON-encoded structured fields and the optional image attachment
func (h *ProductHandler) parseProductForm(r *http.Request) (map[string]models.PriceOption, []models.ProductAttribute, productForm, *service.UploadFile, error) {
	var form productForm

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, nil, form, nil, errors.New("invalid multipart form")
	}

	form = productForm{
		Name:               r.FormValue("name"),
		Description:        r.FormValue("description"),
		PriceConfiguration: r.FormValue("priceConfiguration"),
		Attributes:         r.FormValue("attributes"),
		TenantID:           r.FormValue("tenantId"),
		CategoryID:         r.FormValue("categoryId"),
		IsPublish:          r.FormValue("isPublish") == "true",
	}
	if err := h.validate.Struct(form); err != nil {
		return nil, nil, form, nil, errors.New(validationMessage(err))
	}

	var priceConfiguration map[string]models.PriceOption
	if err := json.Unmarshal([]byte(form.PriceConfiguration), &priceConfiguration); err != nil {
		return nil, nil, form, nil, errors.New("priceConfiguration is not valid JSON")
	}

	var attributes []models.ProductAttribute
	if err := json.Unmarshal([]byte(form.Attributes), &attributes); err != nil {
		return nil, nil, form, nil, errors.New("attributes is not valid JSON")
	}

	image, err := formImage(r)
	if err != nil {
		return nil, nil, form, nil, err
	}

	return priceConfiguration, attributes, form, image, nil
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	priceConfiguration, attributes, form, image, err := h.parseProductForm(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	created, err := h.service.Create(r.Context(), service.CreateProductInput{
		Name:               form.Name,
		Description:        form.Description,
		PriceConfiguration: priceConfiguration,
		Attributes:         attributes,
		TenantID:           form.TenantID,
		CategoryID:         form.CategoryID,
		IsPublish:          form.IsPublish,
		Image:              image,
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": created.ID.Hex()}, h.log)
}

// Update handles PUT /products/{productId}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	priceConfiguration, attributes, form, image, err := h.parseProductForm(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	_, err = h.service.Update(r.Context(), actorFromContext(r), productID, service.UpdateProductInput{
		Name:               form.Name,
		Description:        form.Description,
		PriceConfiguration: priceConfiguration,
		Attributes:         attributes,
		TenantID:           form.TenantID,
		CategoryID:         form.CategoryID,
		IsPublish:          form.IsPublish,
		Image:              image,
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": productID}, h.log)
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.service.List(r.Context(), service.ProductListQuery{
		Query:      query.Get("q"),
		TenantID:   query.Get("tenantId"),
		CategoryID: query.Get("categoryId"),
		IsPublish:  query.Get("isPublish"),
		Page:       queryInt(query.Get("page")),
		Limit:      queryInt(query.Get("limit")),
	})
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, page, h.log)
}

// Get handles GET /products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.service.Get(r.Context(), productID)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.log)
}

// Delete handles DELETE /products/{productId}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	_, err := h.service.Delete(r.Context(), actorFromContext(r), productID)
	if err != nil {
		WriteServiceError(w, h.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": productID}, h.log)
}

// actorFromContext builds the service actor from the verified claims
func actorFromContext(r *http.Request) service.Actor {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	return service.Actor{Role: claims.Role, Tenant: claims.Tenant}
}

// formImage extracts the optional image attachment from a multipart form
func formImage(r *http.Request) (*service.UploadFile, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid image attachment")
	}
	return &service.UploadFile{Reader: file, Filename: header.Filename}, nil
}

// queryInt parses a numeric query value, returning 0 when absent or invalid
func queryInt(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
