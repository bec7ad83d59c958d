package api

import (
	"net/http"

	"vendor-catalog-core/internal/application"
	"vendor-catalog-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ConnectionHandler exposes connection management over REST.
type ConnectionHandler struct {
	service *application.ConnectionService
	logger  zerolog.Logger
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(service *application.ConnectionService, logger zerolog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts connection routes on the router.
func (h *ConnectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/connection-types", h.ListTypes)
	r.Route("/vendors/{vendorID}/connections", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
	})
	r.Route("/connections/{connectionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

type createConnectionRequest struct {
	Name     string         `json:"name"`
	ConnType string         `json:"conn_type"`
	Config   map[string]any `json:"config"`
}

type updateConnectionRequest struct {
	VendorID *int64         `json:"vendor_id"`
	Name     *string        `json:"name"`
	ConnType *string        `json:"conn_type"`
	Config   map[string]any `json:"config"`
	Status   *string        `json:"status"`
}

// Create handles POST /vendors/{vendorID}/connections.
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	var req createConnectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !domain.IsValidConnectionType(req.ConnType) {
		writeError(w, http.StatusBadRequest, "unsupported connection type: "+req.ConnType)
		return
	}

	id, err := h.service.CreateConnection(r.Context(), application.CreateConnectionInput{
		VendorID: vendorID,
		Name:     req.Name,
		ConnType: req.ConnType,
		Config:   req.Config,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("vendorId", vendorID).Msg("Failed to create connection")
		writeError(w, http.StatusInternalServerError, "failed to create connection")
		return
	}

	conn, err := h.service.GetConnection(r.Context(), id)
	if err != nil || conn == nil {
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

// List handles GET /vendors/{vendorID}/connections.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	conns, err := h.service.ListConnections(r.Context(), vendorID)
	if err != nil {
		h.logger.Error().Err(err).Int64("vendorId", vendorID).Msg("Failed to list connections")
		writeError(w, http.StatusInternalServerError, "failed to list connections")
		return
	}
	if conns == nil {
		conns = []*domain.Connection{}
	}
	writeJSON(w, http.StatusOK, conns)
}

// Get handles GET /connections/{connectionID}.
func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "connectionID")
	if !ok {
		return
	}

	conn, err := h.service.GetConnection(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("connectionId", id).Msg("Failed to get connection")
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Update handles PUT /connections/{connectionID}.
func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "connectionID")
	if !ok {
		return
	}

	var req updateConnectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ConnType != nil && !domain.IsValidConnectionType(*req.ConnType) {
		writeError(w, http.StatusBadRequest, "unsupported connection type: "+*req.ConnType)
		return
	}

	conn, err := h.service.UpdateConnection(r.Context(), id, application.UpdateConnectionInput{
		VendorID: req.VendorID,
		Name:     req.Name,
		ConnType: req.ConnType,
		Config:   req.Config,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("connectionId", id).Msg("Failed to update connection")
		writeError(w, http.StatusInternalServerError, "failed to update connection")
		return
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Delete handles DELETE /connections/{connectionID}.
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "connectionID")
	if !ok {
		return
	}

	if err := h.service.DeleteConnection(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Int64("connectionId", id).Msg("Failed to delete connection")
		writeError(w, http.StatusInternalServerError, "failed to delete connection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTypes handles GET /connection-types.
func (h *ConnectionHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListConnectionTypes())
}
