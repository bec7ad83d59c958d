package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	retry := RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	c := NewClientWithOptions(&http.Client{Timeout: 5 * time.Second}, retry, zerolog.Nop())
	return c.(*Client)
}

func TestFetchRowsTopLevelArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page_size"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"SKU": "A-1", "Price": 9.99},
		})
	}))
	defer srv.Close()

	rows, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{
		URL:    srv.URL,
		Params: map[string]string{"page_size": "1"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// keys are lowercased
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, 9.99, rows[0]["price"])
}

func TestFetchRowsBearerAuthAndItemsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"items": []map[string]any{{"sku": "B-1"}},
			},
		})
	}))
	defer srv.Close()

	rows, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{
		URL:       srv.URL,
		AuthType:  "bearer",
		Token:     "secret-token",
		ItemsPath: "data.items",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B-1", rows[0]["sku"])
}

func TestFetchRowsPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		resp := map[string]any{
			"items": []map[string]any{{"sku": "P-" + page}},
		}
		if page == "" {
			resp["next"] = srv.URL + "?page=2"
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	rows, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{
		URL:          srv.URL,
		Paginated:    true,
		ItemsPath:    "items",
		NextPagePath: "next",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "P-", rows[0]["sku"])
	assert.Equal(t, "P-2", rows[1]["sku"])
}

func TestFetchRowsRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[{"sku":"R-1"}]`)
	}))
	defer srv.Close()

	rows, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchRowsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRowsRequiresURL(t *testing.T) {
	_, err := testClient(t).FetchRows(context.Background(), ports.APISourceConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
}

func TestRetryBackoff(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond, MaxRetries: 5}
	assert.Equal(t, 100*time.Millisecond, cfg.backoff(1))
	assert.Equal(t, 200*time.Millisecond, cfg.backoff(2))
	assert.Equal(t, 350*time.Millisecond, cfg.backoff(3))
	assert.Equal(t, 350*time.Millisecond, cfg.backoff(4))
}
