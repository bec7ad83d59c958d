package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vendor-catalog-core/internal/application"
	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/infrastructure/metrics"
	"vendor-catalog-core/internal/infrastructure/pubsub"
	"vendor-catalog-core/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadSize caps uploaded catalog feeds at 64 MiB.
const maxUploadSize = 64 << 20

// CatalogHandler exposes catalog imports, exports and row listings over
// REST. SFTP and API imports can pull their endpoint details from a stored
// connection instead of the request body.
type CatalogHandler struct {
	importService     *application.ImportService
	exportService     *application.ExportService
	connectionService *application.ConnectionService
	events            *pubsub.ImportPubSub
	metrics           *metrics.Metrics
	logger            zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(
	importService *application.ImportService,
	exportService *application.ExportService,
	connectionService *application.ConnectionService,
	events *pubsub.ImportPubSub,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		importService:     importService,
		exportService:     exportService,
		connectionService: connectionService,
		events:            events,
		metrics:           m,
		logger:            logger,
	}
}

// RegisterRoutes mounts catalog routes on the router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/vendors/{vendorID}", func(r chi.Router) {
		r.Get("/products", h.ListVendorProducts)
		r.Get("/products/export", h.Export)
		r.Post("/imports/file", h.ImportFile)
		r.Post("/imports/api", h.ImportAPI)
		r.Post("/imports/sftp", h.ImportSFTP)
	})
	r.Get("/imports/events", h.StreamEvents)
}

// ListVendorProducts handles GET /vendors/{vendorID}/products.
func (h *CatalogHandler) ListVendorProducts(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	rows, err := h.exportService.ListVendorProducts(r.Context(), vendorID)
	if err != nil {
		h.logger.Error().Err(err).Int64("vendorId", vendorID).Msg("Failed to list vendor products")
		writeError(w, http.StatusInternalServerError, "failed to list vendor products")
		return
	}
	if rows == nil {
		rows = []*domain.VendorProduct{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// Export handles GET /vendors/{vendorID}/products/export?format=csv|xlsx.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = application.ExportFormatCSV
	}

	var contentType, ext string
	switch format {
	case application.ExportFormatCSV:
		contentType, ext = "text/csv", "csv"
	case application.ExportFormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format: "+format)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=vendor-%d-catalog.%s", vendorID, ext))

	if _, err := h.exportService.ExportVendorProducts(r.Context(), vendorID, format, w); err != nil {
		// headers are already sent, all we can do is log
		h.logger.Error().Err(err).Int64("vendorId", vendorID).Str("format", format).Msg("Export failed")
	}
}

// ImportFile handles POST /vendors/{vendorID}/imports/file with a multipart
// form: "file" is the feed, "mapping" an optional JSON column mapping.
func (h *CatalogHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	mapping, ok := parseMapping(w, r.FormValue("mapping"))
	if !ok {
		return
	}

	report, err := h.importService.ImportFromFile(r.Context(), vendorID, header.Filename, file, mapping)
	h.writeImportResult(w, report, err)
}

type apiImportRequest struct {
	ConnectionID int64                  `json:"connection_id"`
	Source       *ports.APISourceConfig `json:"source"`
	Mapping      map[string]string      `json:"mapping"`
}

// ImportAPI handles POST /vendors/{vendorID}/imports/api. The API endpoint
// comes either inline in "source" or from a stored api/rest connection
// referenced by "connection_id".
func (h *CatalogHandler) ImportAPI(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	var req apiImportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var cfg ports.APISourceConfig
	switch {
	case req.Source != nil:
		cfg = *req.Source
	case req.ConnectionID > 0:
		config, ok := h.connectionConfig(w, r, vendorID, req.ConnectionID)
		if !ok {
			return
		}
		cfg = apiSourceFromConfig(config)
	default:
		writeError(w, http.StatusBadRequest, "source or connection_id is required")
		return
	}

	report, err := h.importService.ImportFromAPI(r.Context(), vendorID, cfg, req.Mapping)
	h.writeImportResult(w, report, err)
}

type sftpImportRequest struct {
	ConnectionID int64             `json:"connection_id"`
	Source       *sftpSource       `json:"source"`
	Sources      []sftpSource      `json:"sources"`
	Mapping      map[string]string `json:"mapping"`
}

type sftpSource struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	PrivateKey  string `json:"private_key"`
	Directory   string `json:"directory"`
	FilePattern string `json:"file_pattern"`
}

func (s sftpSource) toConfig() ports.SFTPConfig {
	cfg := ports.SFTPConfig{
		Host:        s.Host,
		Port:        s.Port,
		Username:    s.Username,
		Password:    s.Password,
		Directory:   s.Directory,
		FilePattern: s.FilePattern,
	}
	if s.PrivateKey != "" {
		cfg.PrivateKey = []byte(s.PrivateKey)
	}
	return cfg
}

// ImportSFTP handles POST /vendors/{vendorID}/imports/sftp. The endpoint
// comes inline in "source", as a "sources" list sweeping several
// directories, or from a stored sftp/ftp connection referenced by
// "connection_id".
func (h *CatalogHandler) ImportSFTP(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := idParam(w, r, "vendorID")
	if !ok {
		return
	}

	var req sftpImportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Sources) > 0 {
		cfgs := make([]ports.SFTPConfig, 0, len(req.Sources))
		for i := range req.Sources {
			cfgs = append(cfgs, req.Sources[i].toConfig())
		}
		report, err := h.importService.ImportFromSFTPMulti(r.Context(), vendorID, cfgs, req.Mapping)
		h.writeImportResult(w, report, err)
		return
	}

	var cfg ports.SFTPConfig
	switch {
	case req.Source != nil:
		cfg = req.Source.toConfig()
	case req.ConnectionID > 0:
		config, ok := h.connectionConfig(w, r, vendorID, req.ConnectionID)
		if !ok {
			return
		}
		cfg = sftpFromConfig(config)
	default:
		writeError(w, http.StatusBadRequest, "source or connection_id is required")
		return
	}

	report, err := h.importService.ImportFromSFTP(r.Context(), vendorID, cfg, req.Mapping)
	h.writeImportResult(w, report, err)
}

// StreamEvents handles GET /imports/events as a server-sent event stream.
// An optional ?vendor_id= narrows the stream to one vendor's jobs.
func (h *CatalogHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var filter *pubsub.ImportEventFilter
	if raw := r.URL.Query().Get("vendor_id"); raw != "" {
		vendorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || vendorID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid vendor_id")
			return
		}
		filter = &pubsub.ImportEventFilter{VendorID: vendorID}
	}

	channel := h.events.Subscribe(r.Context(), filter)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range channel.Events {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

func (h *CatalogHandler) writeImportResult(w http.ResponseWriter, report *domain.ImportReport, err error) {
	if err != nil {
		if errors.Is(err, application.ErrVendorNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		h.logger.Error().Err(err).Msg("Import failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveImport(report.Source, report.Imported, len(report.Errors))
	}
	writeJSON(w, http.StatusOK, report)
}

// connectionConfig loads a connection's config mapping and verifies it
// belongs to the vendor being imported.
func (h *CatalogHandler) connectionConfig(w http.ResponseWriter, r *http.Request, vendorID, connectionID int64) (map[string]any, bool) {
	conn, err := h.connectionService.GetConnection(r.Context(), connectionID)
	if err != nil {
		h.logger.Error().Err(err).Int64("connectionId", connectionID).Msg("Failed to get connection")
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return nil, false
	}
	if conn == nil || conn.VendorID != vendorID {
		writeError(w, http.StatusNotFound, "connection not found")
		return nil, false
	}
	return conn.Config, true
}

func parseMapping(w http.ResponseWriter, raw string) (map[string]string, bool) {
	if raw == "" {
		return nil, true
	}
	var mapping map[string]string
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		writeError(w, http.StatusBadRequest, "mapping must be a JSON object of strings")
		return nil, false
	}
	return mapping, true
}

// sftpFromConfig builds transfer settings from a connection's config
// mapping.
func sftpFromConfig(config map[string]any) ports.SFTPConfig {
	cfg := ports.SFTPConfig{
		Host:        configString(config, "host"),
		Port:        configInt(config, "port"),
		Username:    configString(config, "username"),
		Password:    configString(config, "password"),
		Directory:   configString(config, "directory"),
		FilePattern: configString(config, "file_pattern"),
	}
	if key := configString(config, "private_key"); key != "" {
		cfg.PrivateKey = []byte(key)
	}
	return cfg
}

// apiSourceFromConfig builds API source settings from a connection's config
// mapping.
func apiSourceFromConfig(config map[string]any) ports.APISourceConfig {
	return ports.APISourceConfig{
		URL:          configString(config, "url"),
		AuthType:     configString(config, "auth_type"),
		Username:     configString(config, "username"),
		Password:     configString(config, "password"),
		Token:        configString(config, "token"),
		Headers:      configStringMap(config, "headers"),
		Params:       configStringMap(config, "params"),
		Paginated:    configBool(config, "paginated"),
		ItemsPath:    configString(config, "items_path"),
		NextPagePath: configString(config, "next_page_path"),
	}
}

func configString(config map[string]any, key string) string {
	s, _ := config[key].(string)
	return s
}

func configInt(config map[string]any, key string) int {
	switch v := config[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func configBool(config map[string]any, key string) bool {
	b, _ := config[key].(bool)
	return b
}

func configStringMap(config map[string]any, key string) map[string]string {
	obj, ok := config[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
