package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendor-catalog-core/internal/application"
	"vendor-catalog-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memConnectionRepo struct {
	nextID int64
	rows   map[int64]*domain.Connection
}

func newMemConnectionRepo() *memConnectionRepo {
	return &memConnectionRepo{rows: map[int64]*domain.Connection{}}
}

func (r *memConnectionRepo) Create(ctx context.Context, conn *domain.Connection) (int64, error) {
	r.nextID++
	stored := *conn
	stored.ID = r.nextID
	r.rows[r.nextID] = &stored
	return r.nextID, nil
}

func (r *memConnectionRepo) Get(ctx context.Context, id int64) (*domain.Connection, error) {
	conn, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *conn
	return &copied, nil
}

func (r *memConnectionRepo) ListByVendor(ctx context.Context, vendorID int64) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	for _, conn := range r.rows {
		if conn.VendorID == vendorID {
			copied := *conn
			conns = append(conns, &copied)
		}
	}
	return conns, nil
}

func (r *memConnectionRepo) Update(ctx context.Context, conn *domain.Connection) error {
	stored, ok := r.rows[conn.ID]
	if !ok {
		return nil
	}
	stored.VendorID = conn.VendorID
	stored.Name = conn.Name
	stored.ConnType = conn.ConnType
	stored.Status = conn.Status
	if conn.Config != nil {
		stored.Config = conn.Config
	}
	return nil
}

func (r *memConnectionRepo) Delete(ctx context.Context, id int64) error {
	delete(r.rows, id)
	return nil
}

func newConnectionTestServer() (*httptest.Server, *memConnectionRepo) {
	repo := newMemConnectionRepo()
	service := application.NewConnectionService(repo, zerolog.Nop())
	handler := NewConnectionHandler(service, zerolog.Nop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return httptest.NewServer(r), repo
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeConnection(t *testing.T, resp *http.Response) domain.Connection {
	t.Helper()
	defer resp.Body.Close()
	var conn domain.Connection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conn))
	return conn
}

func TestConnectionLifecycleOverHTTP(t *testing.T) {
	srv, _ := newConnectionTestServer()
	defer srv.Close()

	// create
	resp := doJSON(t, http.MethodPost, srv.URL+"/vendors/1/connections", map[string]any{
		"name":      "vendor sftp",
		"conn_type": "sftp",
		"config":    map[string]any{"host": "sftp.example", "port": 22},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeConnection(t, resp)
	require.NotZero(t, created.ID)
	assert.Equal(t, "active", created.Status)

	// get
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/connections/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeConnection(t, resp)
	assert.Equal(t, "vendor sftp", fetched.Name)
	assert.Equal(t, map[string]any{"host": "sftp.example", "port": float64(22)}, fetched.Config)

	// partial update merges config
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/connections/%d", srv.URL, created.ID), map[string]any{
		"config": map[string]any{"port": 2222},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeConnection(t, resp)
	assert.Equal(t, map[string]any{"host": "sftp.example", "port": float64(2222)}, updated.Config)

	// list by vendor
	resp = doJSON(t, http.MethodGet, srv.URL+"/vendors/1/connections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conns []domain.Connection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conns))
	resp.Body.Close()
	assert.Len(t, conns, 1)

	// delete
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/connections/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/connections/%d", srv.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestConnectionValidationOverHTTP(t *testing.T) {
	srv, _ := newConnectionTestServer()
	defer srv.Close()

	for _, tt := range []struct {
		msg        string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{
			msg:        "it must reject an unsupported connection type",
			method:     http.MethodPost,
			path:       "/vendors/1/connections",
			body:       map[string]any{"name": "x", "conn_type": "carrier-pigeon"},
			wantStatus: http.StatusBadRequest,
		},
		{
			msg:        "it must reject a missing name",
			method:     http.MethodPost,
			path:       "/vendors/1/connections",
			body:       map[string]any{"conn_type": "sftp"},
			wantStatus: http.StatusBadRequest,
		},
		{
			msg:        "it must reject a non-numeric vendor id",
			method:     http.MethodPost,
			path:       "/vendors/abc/connections",
			body:       map[string]any{"name": "x", "conn_type": "sftp"},
			wantStatus: http.StatusBadRequest,
		},
		{
			msg:        "it must 404 on updating a missing connection",
			method:     http.MethodPut,
			path:       "/connections/999",
			body:       map[string]any{"name": "ghost"},
			wantStatus: http.StatusNotFound,
		},
	} {
		t.Run(tt.msg, func(t *testing.T) {
			resp := doJSON(t, tt.method, srv.URL+tt.path, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestConnectionTypesOverHTTP(t *testing.T) {
	srv, _ := newConnectionTestServer()
	defer srv.Close()

	resp := doJSON(t, http.MethodGet, srv.URL+"/connection-types", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&types))
	assert.Equal(t, []string{"sftp", "ftp", "api", "edi", "rest", "soap", "other"}, types)
}
