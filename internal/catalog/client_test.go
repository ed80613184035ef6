package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hc := httpclient.New(httpclient.Config{MaxRetries: 0})
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig("catalog-test-"+t.Name()), logger)

	return NewClient(cb, srv.URL, "ck_test", "cs_test", logger)
}

func TestClient_List(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "interior", r.URL.Query().Get("category"))
		assert.Equal(t, "ck_test", r.URL.Query().Get("consumer_key"))

		w.Header().Set("X-WP-Total", "57")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[` + recordedProduct + `]`))
	}))

	products, total, err := client.List(context.Background(), Filter{Page: 2, PerPage: 20, Category: "interior"})
	require.NoError(t, err)
	assert.Equal(t, 57, total)
	require.Len(t, products, 1)
	assert.Equal(t, "4512", products[0].ID)
	assert.Empty(t, products[0].Variations, "listings do not fetch variations")
}

func TestClient_List_MissingTotalHeaderFallsBackToPageLength(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[` + recordedProduct + `]`))
	}))

	_, total, err := client.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestClient_GetByID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/4512":
			_, _ = w.Write([]byte(recordedProduct))
		case "/products/4512/variations":
			_, _ = w.Write([]byte(recordedVariations))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	p, err := client.GetByID(context.Background(), "4512")
	require.NoError(t, err)
	assert.Equal(t, "Capa de Câmbio Couro", p.Name)
	assert.Len(t, p.Variations, 2)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_GetBySlug(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			assert.Equal(t, "capa-de-cambio-couro", r.URL.Query().Get("slug"))
			_, _ = w.Write([]byte(`[` + recordedProduct + `]`))
		case "/products/4512/variations":
			_, _ = w.Write([]byte(recordedVariations))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	p, err := client.GetBySlug(context.Background(), "capa-de-cambio-couro")
	require.NoError(t, err)
	assert.Equal(t, "4512", p.ID)
}

func TestClient_GetBySlug_EmptyResultIsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.GetBySlug(context.Background(), "nao-existe")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_MalformedJSONIsError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))

	_, _, err := client.List(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog response")
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": 11, "name": "Interior", "slug": "interior"}]`))
	}))

	terms, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, Term{ID: "11", Name: "Interior", Slug: "interior"}, terms[0])
}

func TestClient_Brands(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/brands", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": 2, "name": "Nihon", "slug": "nihon"}]`))
	}))

	terms, err := client.Brands(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "Nihon", terms[0].Name)
}
