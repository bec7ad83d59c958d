package api

import (
	"net/http"

	"vendor-catalog-core/internal/application"
	"vendor-catalog-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// VendorHandler exposes vendor management over REST.
type VendorHandler struct {
	service *application.VendorService
	logger  zerolog.Logger
}

// NewVendorHandler creates a new vendor handler.
func NewVendorHandler(service *application.VendorService, logger zerolog.Logger) *VendorHandler {
	return &VendorHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts vendor routes on the router.
func (h *VendorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/vendors", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Route("/{vendorID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

type createVendorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContactInfo string `json:"contact_info"`
}

type updateVendorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ContactInfo *string `json:"contact_info"`
	Status      *string `json:"status"`
}

// Create handles POST /vendors.
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.service.CreateVendor(r.Context(), application.CreateVendorInput{
		Name:        req.Name,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create vendor")
		writeError(w, http.StatusInternalServerError, "failed to create vendor")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// List handles GET /vendors. With ?q= it searches by name instead.
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		vendors []*domain.Vendor
		err     error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		vendors, err = h.service.SearchVendors(r.Context(), term)
	} else {
		vendors, err = h.service.ListVendors(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list vendors")
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []*domain.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

// Get handles GET /vendors/{vendorID}.
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	vendor, err := h.service.GetVendor(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("vendorId", id).Msg("Failed to get vendor")
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}
	if vendor == nil {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// Update handles PUT /vendors/{vendorID}.
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	var req updateVendorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vendor, err := h.service.UpdateVendor(r.Context(), id, application.UpdateVendorInput{
		Name:        req.Name,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("vendorId", id).Msg("Failed to update vendor")
		writeError(w, http.StatusInternalServerError, "failed to update vendor")
		return
	}
	if vendor == nil {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// Delete handles DELETE /vendors/{vendorID}.
func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	if err := h.service.DeleteVendor(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("vendorId", id).Msg("Failed to delete vendor")
		writeError(w, http.StatusInternalServerError, "failed to delete vendor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
