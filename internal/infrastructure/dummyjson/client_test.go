package dummyjson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"jo3qma.com/product_catalog/internal/domain/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchCategories_assignsSequentialIDs(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"slug":"beauty","name":"Beauty","url":"https://example.com/products/category/beauty"},
			{"slug":"smartphones","name":"Smartphones"}
		]`))
	})

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	got, err := c.FetchCategories(context.Background())
	require.NoError(t, err)

	want := []model.Category{
		{ID: 0, Name: "Beauty", Slug: "beauty", URL: "https://example.com/products/category/beauty"},
		{ID: 1, Name: "Smartphones", Slug: "smartphones"},
	}
	assert.Equal(t, want, got)
}

func TestClient_FetchCategories_returnsStatusError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	_, err := c.FetchCategories(context.Background())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestClient_FetchProducts_mapsResponse(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"products":[
				{"id":1,"title":"Apple iPhone","description":"Great phone","price":999.5,"category":"smartphones","images":["https://example.com/1.jpg"]},
				{"id":2,"title":"Samsung Galaxy","description":"Android","price":799,"category":"smartphones","images":[]}
			],
			"total":40,"skip":0,"limit":12
		}`))
	})

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	got, err := c.FetchProducts(context.Background(), model.ProductQuery{Limit: 12})
	require.NoError(t, err)

	assert.Equal(t, int64(40), got.Total)
	require.Len(t, got.Products, 2)
	assert.Equal(t, model.Product{
		ID:          1,
		Title:       "Apple iPhone",
		Description: "Great phone",
		Price:       999.5,
		Category:    "smartphones",
		Images:      []string{"https://example.com/1.jpg"},
	}, got.Products[0])
}

func TestClient_FetchProducts_keepsFieldsAsReceived(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"products":[{"id":7,"title":"R&amp;B  Hits <Live>","description":"a\n\nb <p>c</p>","category":"music"}],
			"total":1
		}`))
	})

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	got, err := c.FetchProducts(context.Background(), model.ProductQuery{Limit: 12})
	require.NoError(t, err)

	require.Len(t, got.Products, 1)
	assert.Equal(t, "R&amp;B  Hits <Live>", got.Products[0].Title)
	assert.Equal(t, "a\n\nb <p>c</p>", got.Products[0].Description)
}

func TestClient_FetchProducts_selectsEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     model.ProductQuery
		wantPath  string
		wantQuery string
	}{
		{
			name:      "category takes priority over search",
			query:     model.ProductQuery{Category: "smartphones", Search: "apple", Limit: 12, Skip: 12},
			wantPath:  "/products/category/smartphones",
			wantQuery: "limit=12&skip=12",
		},
		{
			name:      "search term is escaped",
			query:     model.ProductQuery{Search: "red & blue", Limit: 12, Skip: 0},
			wantPath:  "/products/search",
			wantQuery: "q=red+%26+blue&limit=12&skip=0",
		},
		{
			name:      "unfiltered listing",
			query:     model.ProductQuery{Limit: 12, Skip: 24},
			wantPath:  "/products",
			wantQuery: "limit=12&skip=24",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				_, _ = w.Write([]byte(`{"products":[],"total":0}`))
			})

			c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
			_, err := c.FetchProducts(context.Background(), tt.query)
			require.NoError(t, err)
		})
	}
}

func TestClient_FetchProducts_returnsErrorOnInvalidJSON(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json}`))
	})

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	_, err := c.FetchProducts(context.Background(), model.ProductQuery{Limit: 12})
	require.Error(t, err)
}

func TestClient_fetchJSON_recordsSpan(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithTracerProvider(tp))
	_, err := c.FetchCategories(context.Background())
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dummyjson.FetchCategories", spans[0].Name())

	var status attribute.Value
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "http.status_code" {
			status = kv.Value
		}
	}
	assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())
}

func TestNewClient_trimsTrailingSlash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", NewClient("https://example.com/").baseURL)
	assert.Equal(t, DefaultBaseURL, NewClient("").baseURL)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain text":                    "plain text",
		"  spaced \n  out ":             "spaced out",
		"<p>Hello <b>world</b></p>":     "Hello world",
		"Tom &amp; Jerry":               "Tom & Jerry",
		"<ul><li>a</li><li>b</li></ul>": "ab",
	}
	for in, want := range tests {
		assert.Equal(t, want, PlainText(in), "PlainText(%q)", in)
	}
}
