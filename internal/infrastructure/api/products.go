package api

import (
	"net/http"

	"vendor-catalog-core/internal/application"
	"vendor-catalog-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler exposes master products and categories over REST.
type ProductHandler struct {
	service *application.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *application.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts product and category routes on the router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/{categoryID}", h.GetCategory)
	})
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SKU         string   `json:"sku"`
	Price       *float64 `json:"price"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	ParentID    *int64 `json:"parent_id"`
	Description string `json:"description"`
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.service.CreateProduct(r.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create product")
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// List handles GET /products. With ?q= it searches by name instead.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		products []*domain.Product
		err      error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		products, err = h.service.SearchProducts(r.Context(), term)
	} else {
		products, err = h.service.ListProducts(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list products")
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{productID}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "productID")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("productId", id).Msg("Failed to get product")
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /products/{productID}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "productID")
	if !ok {
		return
	}

	var req updateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, application.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("productId", id).Msg("Failed to update product")
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{productID}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "productID")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("productId", id).Msg("Failed to delete product")
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /categories.
func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.service.CreateCategory(r.Context(), application.CreateCategoryInput{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetCategory handles GET /categories/{categoryID}.
func (h *ProductHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "categoryID")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("categoryId", id).Msg("Failed to get category")
		writeError(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// ListCategories handles GET /categories.
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list categories")
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}
