package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariefcatur/go-parts-shop/internal/cart"
	"github.com/ariefcatur/go-parts-shop/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parts = `[
  {"id": 1, "name": "Brake Pad Set", "price": 49.99, "partNumber": "BP-100", "stock": 12},
  {"id": 2, "name": "Oil Filter", "price": 8.10, "partNumber": "OF-7", "stock": 40},
  {"id": 3, "name": "Spark Plug", "price": 0.20, "partNumber": "SP-3", "stock": 0}
]`

type server struct {
	t      *testing.T
	router http.Handler
	path   string
}

func newServer(t *testing.T, body string) *server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automobileParts.json")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	r := NewRouter()
	h := &ShopHandler{
		Catalog: catalog.NewLoader(catalog.FileSource{Path: path}),
		Carts:   cart.NewStore(),
	}
	h.Register(r)
	return &server{t: t, router: r, path: path}
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(v))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	s := newServer(t, parts)
	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestListParts(t *testing.T) {
	s := newServer(t, parts)
	rec := s.do(http.MethodGet, "/parts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]map[string]any](t, rec)
	require.Len(t, got, 3)
	assert.EqualValues(t, 1, got[0]["id"])
	assert.Equal(t, "49.99", got[0]["price"])
	assert.Equal(t, []any{}, got[0]["modelCompatibility"])
}

func TestGetPart(t *testing.T) {
	s := newServer(t, parts)

	rec := s.do(http.MethodGet, "/parts/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[catalog.Product](t, rec)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "Oil Filter", got.Name)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/parts/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/parts/abc", nil).Code)
}

func TestCatalogFailuresAreServerErrors(t *testing.T) {
	cases := map[string]string{
		"missing file": "",
		"malformed":    `[{"id": 1, "price": "free"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := newServer(t, body)
			assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodGet, "/parts", nil).Code)
			assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodGet, "/parts/1", nil).Code)

			id := decode[map[string]string](t, s.do(http.MethodPost, "/carts", nil))["cart_id"]
			rec := s.do(http.MethodPost, "/carts/"+id+"/items", map[string]int{"part_id": 1})
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

func TestCartFlow(t *testing.T) {
	s := newServer(t, parts)

	rec := s.do(http.MethodPost, "/carts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]string](t, rec)["cart_id"]
	require.NotEmpty(t, id)
	assert.Equal(t, "/carts/"+id, rec.Header().Get("Location"))

	empty := decode[CartResp](t, s.do(http.MethodGet, "/carts/"+id, nil))
	assert.Empty(t, empty.Items)
	assert.Equal(t, "0.00", empty.Total)

	rec = s.do(http.MethodPost, "/carts/"+id+"/items", map[string]int{"part_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/carts/"+id+"/items", map[string]int{"part_id": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decode[CartResp](t, rec)
	assert.Equal(t, id, view.CartID)
	assert.Equal(t, 2, view.ItemCount)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 1, view.Items[0].ID)
	assert.Equal(t, 3, view.Items[1].ID)
	assert.Equal(t, "50.19", view.Total)

	total := decode[map[string]string](t, s.do(http.MethodGet, "/carts/"+id+"/total", nil))
	assert.Equal(t, "50.19", total["total"])
}

func TestAddItemErrors(t *testing.T) {
	s := newServer(t, parts)
	id := decode[map[string]string](t, s.do(http.MethodPost, "/carts", nil))["cart_id"]

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/carts/nope/items", map[string]int{"part_id": 1}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/carts/"+id+"/items", map[string]int{"part_id": 99}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/carts/"+id+"/items", "{").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/carts/"+id+"/items", "{}").Code)

	view := decode[CartResp](t, s.do(http.MethodGet, "/carts/"+id, nil))
	assert.Zero(t, view.ItemCount)
}

func TestUnknownCart(t *testing.T) {
	s := newServer(t, parts)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/carts/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/carts/nope/total", nil).Code)
}

func TestReloadCatalog(t *testing.T) {
	s := newServer(t, parts)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/parts/1", nil).Code)

	require.NoError(t, os.WriteFile(s.path, []byte(`[{"id": 4, "name": "Fuse", "price": 1}]`), 0o600))
	// cached until reloaded
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/parts/1", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/admin/catalog/reload", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/parts/1", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/parts/4", nil).Code)

	require.NoError(t, os.Remove(s.path))
	assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodPost, "/admin/catalog/reload", nil).Code)
}
