package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/fetch"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/types"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog date="2024-05-01 10:00">
  <shop>
    <categories>
      <category id="1">Shoes</category>
    </categories>
    <offers>
      <offer id="100">
        <name>Runner</name>
        <price>1299.50</price>
        <categoryId>1</categoryId>
        <picture>https://cdn.example.com/1.jpg</picture>
        <param name="Color">Red</param>
      </offer>
    </offers>
  </shop>
</yml_catalog>`

const testCategories = `[
  {"id": 1, "name": "Phones", "totalValue": "150.5", "products": [
    {"id": "p1", "name": "A", "params": [{"name": "Color", "value": "black"}]},
    {"id": "p2", "name": "B", "params": [{"name": "Color", "value": "white"}, {"name": "RAM", "value": 8}]}
  ], "subCategories": []},
  {"id": "2", "name": "Empty", "products": []}
]`

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	cats []types.RawCategoryRecord
	err  error
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]types.RawCategoryRecord, error) {
	return f.cats, f.err
}

type testServer struct {
	router  *gin.Engine
	handler *Handler
	store   *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStorage()
	mappings := storage.NewMappingRepository(store)
	h := &Handler{
		Sessions: NewSessionStore(time.Hour),
		Mappings: mappings,
		Importer: &pipeline.Pipeline{Mappings: mappings, Archive: store, Logger: zerolog.Nop()},
		Archive:  store,
		Exporter: exporter.New(exporter.Options{}),
		Shop:     exporter.ShopData{Name: "Demo", Company: "Demo LLC", URL: "https://demo.example"},
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return fixedNow },
	}

	router := gin.New()
	router.GET("/health", HealthCheck)
	h.Register(router.Group("/internal"))
	return &testServer{router: router, handler: h, store: store}
}

func (s *testServer) do(method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, HealthResponse{Status: "ok", Database: "not configured"}, decodeJSON[HealthResponse](t, w))
}

func TestSessionWizardFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/internal/feeds/sessions?filename=feed.xml", testFeed)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[CreateSessionResponse](t, w)
	assert.Equal(t, "yml_catalog", created.Root)
	assert.Equal(t, "feed.xml", created.Filename)
	assert.Contains(t, created.Inventory, "offer")
	assert.Equal(t, "start", string(created.Stage))
	assert.False(t, created.CanAdvance)

	base := "/internal/feeds/sessions/" + created.ID
	connect := func(left, right string) {
		t.Helper()
		body, _ := json.Marshal(ConnectRequest{Left: left, Right: right})
		w := s.do(http.MethodPost, base+"/connections", string(body))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, decodeJSON[ConnectResponse](t, w).Connection, "%s -> %s", left, right)
	}
	next := func() {
		t.Helper()
		w := s.do(http.MethodPost, base+"/next", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, base+"/attributes", `{"show": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeJSON[ToggleAttributesResponse](t, w).Session.ShowAttributes)

	connect("categories", "categories")
	connect("products", "offers")
	next()

	connect(mapping.FieldCategoryID, "category-id-attribute")
	connect(mapping.FieldCategoryName, "category")
	next()

	connect(mapping.FieldProductID, "offer-id-attribute")
	connect(mapping.FieldName, "name")
	connect(mapping.FieldPrice, "price")
	connect(mapping.FieldCategory, "categoryId")
	connect(mapping.FieldPicture, "picture")
	connect(mapping.FieldParams, "param")
	next()

	// Two-step selection: right first, then left
	w = s.do(http.MethodPost, base+"/connections", `{"right": "param-name-attribute"}`)
	require.Equal(t, http.StatusOK, w.Code)
	pending := decodeJSON[ConnectResponse](t, w)
	assert.Nil(t, pending.Connection)
	assert.Equal(t, "param-name-attribute", pending.Session.PendingRight)

	w = s.do(http.MethodPost, base+"/connections", `{"left": "paramName"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decodeJSON[ConnectResponse](t, w).Connection)
	connect(mapping.FieldParamValue, "param")

	w = s.do(http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeJSON[SessionView](t, w)
	assert.True(t, view.IsLast)
	assert.True(t, view.CanAdvance)
	assert.Len(t, view.Connections, 2)

	w = s.do(http.MethodPost, base+"/complete", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	done := decodeJSON[CompleteResponse](t, w)
	require.NotNil(t, done.Mapping)
	assert.Equal(t, fixedNow, done.Mapping.CreatedAt)
	require.Len(t, done.Sample.Products, 1)
	assert.Equal(t, "Runner", done.Sample.Products[0].Name)

	w = s.do(http.MethodGet, "/internal/feeds/mappings/"+done.Mapping.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, done.Mapping.Products.Path, decodeJSON[mapping.Configuration](t, w).Products.Path)

	w = s.do(http.MethodGet, "/internal/feeds/mappings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{done.Mapping.ID}, decodeJSON[ListMappingsResponse](t, w).Mappings)

	// Apply the saved mapping to a multipart upload
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.xml")
	require.NoError(t, err)
	_, err = part.Write([]byte(testFeed))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/internal/feeds/import/"+done.Mapping.ID, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	imported := decodeJSON[pipeline.IngestionResult](t, w)
	assert.Equal(t, 1, imported.Result.ValidProducts)
	assert.Contains(t, imported.SourceKey, "upload.xml")
	assert.False(t, imported.Persisted)
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/internal/feeds/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/internal/feeds/sessions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/internal/feeds/sessions", "not a feed")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/internal/feeds/sessions", testFeed)
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/internal/feeds/sessions/" + decodeJSON[CreateSessionResponse](t, w).ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"next with unconnected fields", http.MethodPost, "/next", "", http.StatusConflict},
		{"back on first stage", http.MethodPost, "/back", "", http.StatusConflict},
		{"complete before final stage", http.MethodPost, "/complete", "", http.StatusConflict},
		{"unknown element", http.MethodPost, "/connections", `{"left": "categories", "right": "nope"}`, http.StatusBadRequest},
		{"empty selection", http.MethodPost, "/connections", `{}`, http.StatusBadRequest},
		{"malformed toggle", http.MethodPost, "/attributes", `{"show": "yes"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, base+tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decodeJSON[ErrorResponse](t, w).Error)
		})
	}

	w = s.do(http.MethodDelete, base+"/connections/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeJSON[DisconnectResponse](t, w).Removed)

	w = s.do(http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportUnknownMapping(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/internal/feeds/import/missing", testFeed)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/internal/feeds/import/missing", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := fixedNow
	store.now = func() time.Time { return now }

	id := store.Create(nil, "feed.xml")
	a := store.Create(nil, "other.xml")
	_, err := store.Get(id)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = store.Get(id)
	require.NoError(t, err, "access refreshes the expiry")

	now = now.Add(45 * time.Second)
	_, err = store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Sweep(), "untouched session expired")
	_, err = store.Get(a)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestAggregateStats(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/internal/aggregate/stats", testCategories)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeJSON[StatsResponse](t, w)
	require.Len(t, res.Summaries, 2)
	assert.Equal(t, types.CategoryRef{Name: "Phones", ID: "1"}, res.Summaries[0].Category)
	assert.Equal(t, 2, res.Summaries[0].Values.TotalProducts)
	assert.InDelta(t, 75.25, res.Summaries[0].Values.AverageProductPrice, 0.001)
	assert.Equal(t, 0, res.Summaries[1].Values.TotalProducts)
	assert.NotNil(t, res.Failures)

	w = s.do(http.MethodPost, "/internal/aggregate/stats", `[{"id": 1, "products": {}}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/internal/aggregate/stats", `[{"id": 1, "products": [{"id": "p1", "price": "NaN"}]}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeJSON[ErrorResponse](t, w).Error)
}

func TestAggregateFilters(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/internal/aggregate/filters", testCategories)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeJSON[FiltersResponse](t, w)
	require.Contains(t, res.Histogram, "1")
	phones := res.Histogram["1"]
	assert.Equal(t, []types.ParamCount{
		{Name: "Color", TotalProducts: 2},
		{Name: "RAM", TotalProducts: 1},
	}, phones.Params)
}

func TestWorkbooks(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/internal/aggregate/stats.xlsx", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	cats, err := types.DecodeCategories([]byte(testCategories))
	require.NoError(t, err)
	s.handler.Catalog = &fakeCatalog{cats: cats}

	for _, path := range []string{"/internal/aggregate/stats.xlsx", "/internal/aggregate/filters.xlsx"} {
		w = s.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	}
}

func TestExportCatalog(t *testing.T) {
	s := newTestServer(t)
	cats, err := types.DecodeCategories([]byte(testCategories))
	require.NoError(t, err)
	s.handler.Catalog = &fakeCatalog{cats: cats}

	w := s.do(http.MethodGet, "/internal/export/yml", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ymlContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(w.Body.String(), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, w.Body.String(), `<yml_catalog date="2024-05-01 10:00">`)
	assert.Contains(t, w.Body.String(), "<name>Demo</name>")

	keys, err := s.store.List(context.Background(), "exports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/2024-05-01/catalog-100000.xml"}, keys)

	s.handler.Catalog = &fakeCatalog{err: errors.New("db down")}
	w = s.do(http.MethodGet, "/internal/export/yml", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportBody(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"shop": {"name": "Body shop", "company": "B", "url": "https://b.example"},
		"categories": [{"id": "1", "name": "Phones"}],
		"products": [{"id": "p1", "name": "A", "price": 10, "categoryId": "1"}]
	}`
	w := s.do(http.MethodPost, "/internal/export/yml", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "<name>Body shop</name>")
	assert.Contains(t, w.Body.String(), `<offer id="p1"`)

	w = s.do(http.MethodPost, "/internal/export/yml", `{"products": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/internal/export/yml", `{"categories": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransformMarkup(t *testing.T) {
	s := newTestServer(t)

	data, err := os.ReadFile("../markup/testdata/list.json")
	require.NoError(t, err)
	w := s.do(http.MethodPost, "/internal/markup/transform", string(data))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var model map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	assert.Equal(t, "ul", model["type"])

	w = s.do(http.MethodPost, "/internal/markup/transform", `{"type": "Program", "body": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSessionFromURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shop.xml" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testFeed))
	}))
	defer upstream.Close()

	s := newTestServer(t)
	w := s.do(http.MethodPost, "/internal/feeds/sessions?url="+upstream.URL+"/shop.xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "fetching disabled")

	s.handler.Fetcher = fetch.NewClient(fetch.Config{RequestsPerSecond: 1000, MaxRetries: 0}, zerolog.Nop())
	w = s.do(http.MethodPost, "/internal/feeds/sessions?url="+upstream.URL+"/shop.xml", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[CreateSessionResponse](t, w)
	assert.Equal(t, "shop.xml", created.Filename)
	assert.Equal(t, "yml_catalog", created.Root)

	w = s.do(http.MethodPost, "/internal/feeds/sessions?url="+upstream.URL+"/broken.xml", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

type fakeRuns struct {
	runs   []database.ImportRun
	filter database.ImportRunFilter
}

func (f *fakeRuns) ListImportRuns(ctx context.Context, filter database.ImportRunFilter) ([]database.ImportRun, int, error) {
	f.filter = filter
	return f.runs, len(f.runs), nil
}

func (f *fakeRuns) GetImportRun(ctx context.Context, id string) (*database.ImportRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, database.ErrNotFound
}

func TestImportRuns(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/internal/feeds/imports", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	runs := &fakeRuns{runs: []database.ImportRun{
		{ID: "run-1", MappingID: "m-1", TotalRows: 4, ValidProducts: 3, ImportedAt: fixedNow},
	}}
	s.handler.Runs = runs

	w = s.do(http.MethodGet, "/internal/feeds/imports?mappingId=m-1&offset=5", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decodeJSON[ListImportsResponse](t, w)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "run-1", list.Runs[0].ID)
	assert.Equal(t, database.ImportRunFilter{MappingID: "m-1", Limit: 20, Offset: 5}, runs.filter)

	w = s.do(http.MethodGet, "/internal/feeds/imports?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/internal/feeds/imports/run-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeJSON[database.ImportRun](t, w).ValidProducts)

	w = s.do(http.MethodGet, "/internal/feeds/imports/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
