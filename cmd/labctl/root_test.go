package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hit struct {
	method, path, auth string
	body               map[string]any
}

type fakeAPI struct {
	mu   sync.Mutex
	hits []hit
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			require.NoError(t, sonic.Unmarshal(raw, &body))
		}
		f.mu.Lock()
		f.hits = append(f.hits, hit{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/auth/login":
			_, _ = w.Write([]byte(`{"data":{"access_token":"tok-123"}}`))
		case r.URL.Path == "/api/kits/availability":
			_, _ = w.Write([]byte(`{"data":[{"kit_type_code":"PCR-WSSV","kit_type_name":"PCR WSSV","by_status":{"in_stock":4,"used":1},"total":5}]}`))
		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/samples/"):
			_, _ = w.Write([]byte(`{"data":{"status":"draft"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Không tìm thấy"}`))
		}
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAvailability_LoginThenTable(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	out, err := run(t, "availability", "--api", srv.URL, "--email", "editor@labtrack.local", "--password", "x")
	require.NoError(t, err)

	assert.Contains(t, out, "IN_STOCK")
	assert.Contains(t, out, "PCR-WSSV")
	require.Len(t, api.hits, 2)
	assert.Equal(t, "/api/auth/login", api.hits[0].path)
	assert.Equal(t, "Bearer tok-123", api.hits[1].auth)
}

func TestNoCredentials(t *testing.T) {
	_, err := run(t, "availability", "--api", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--token")
}

func TestKitBatch_InvalidFormNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	out, err := run(t, "kit-batch", "--api", srv.URL, "--token", "t",
		"--code", "LOT-1", "--quantity", "101", "--unit-cost", "0")
	assert.ErrorIs(t, err, errInvalidForm)
	assert.Contains(t, out, "quantity: Số lượng quá lớn (tối đa 100)")
	assert.Contains(t, out, "unit_cost: Đơn giá phải lớn hơn 0")
	assert.Empty(t, api.hits)
}

func TestDraft_SavesOnceAsDraft(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"customer":"Trại Minh","status":"done","price":"150000"}`), 0o600))

	id := "6f1c1d0e-8c1a-4d55-9d0e-3f0c2f0b9a11"
	out, err := run(t, "draft", id, path, "--api", srv.URL, "--token", "t")
	require.NoError(t, err)
	assert.Contains(t, out, "saved")

	require.Len(t, api.hits, 1)
	h := api.hits[0]
	assert.Equal(t, http.MethodPatch, h.method)
	assert.Equal(t, "/api/samples/"+id, h.path)
	assert.Equal(t, "draft", h.body["status"])
	assert.Equal(t, "Trại Minh", h.body["customer"])
	assert.EqualValues(t, 150000, h.body["price"])
}
