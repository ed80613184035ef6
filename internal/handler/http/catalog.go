package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/catalog"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/variation"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httputil"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/pagination"
)

// Catalog is the product source the handlers read from.
type Catalog interface {
	List(ctx context.Context, f catalog.Filter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Categories(ctx context.Context) ([]catalog.Term, error)
	Brands(ctx context.Context) ([]catalog.Term, error)
}

// CatalogHandler handles HTTP requests for product browsing endpoints.
type CatalogHandler struct {
	catalog    Catalog
	classifier *variation.Classifier
	logger     *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(c Catalog, classifier *variation.Classifier, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:    c,
		classifier: classifier,
		logger:     logger,
	}
}

// AttributeView is one variation-eligible attribute with its rendered options.
type AttributeView struct {
	Key       string             `json:"key"`
	Treatment string             `json:"treatment"`
	Options   []variation.Option `json:"options"`
}

// ProductView is a product page payload: the product, the active selection,
// the option matrix for that selection, the resolved variation if the
// selection pins one down, and the gallery with the variation image merged in.
type ProductView struct {
	Product   *domain.Product     `json:"product"`
	Selection variation.Selection `json:"selection"`
	Attrs     []AttributeView     `json:"attributes"`
	Variation *domain.Variation   `json:"variation,omitempty"`
	Gallery   []string            `json:"gallery"`
}

// SelectOptionsRequest is the JSON request body for re-evaluating a selection.
type SelectOptionsRequest struct {
	Selection map[string]string `json:"selection"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := catalog.Filter{
		Page:     params.Page,
		PerPage:  params.PerPage,
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
		Search:   r.URL.Query().Get("search"),
	}

	products, total, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result := pagination.NewResult(products, total, params)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{idOrSlug}
//
// The response carries the default selection already applied, so the product
// page renders with the primary attribute preselected.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.fetchProduct(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sel := variation.PickDefaultSelection(p)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.buildView(p, sel)})
}

// SelectOptions handles POST /api/v1/products/{idOrSlug}/options
//
// The client sends its full current selection; the server replays it value by
// value so that choices of unavailable values fall out as no-ops, then returns
// the recomputed option matrix and resolved variation.
func (h *CatalogHandler) SelectOptions(w http.ResponseWriter, r *http.Request) {
	p, err := h.fetchProduct(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req SelectOptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	sel := applySelection(p, req.Selection)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.buildView(p, sel)})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	terms, err := h.catalog.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: terms})
}

// ListBrands handles GET /api/v1/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	terms, err := h.catalog.Brands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: terms})
}

// fetchProduct resolves the {idOrSlug} path parameter: all digits means a
// numeric product ID, anything else is treated as a slug.
func (h *CatalogHandler) fetchProduct(r *http.Request) (*domain.Product, error) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if _, err := strconv.Atoi(idOrSlug); err == nil {
		return h.catalog.GetByID(r.Context(), idOrSlug)
	}
	return h.catalog.GetBySlug(r.Context(), idOrSlug)
}

func (h *CatalogHandler) buildView(p *domain.Product, sel variation.Selection) ProductView {
	options := variation.ComputeAvailableOptions(p, sel)
	resolved := variation.ResolveVariation(p, sel)

	attrs := make([]AttributeView, 0, len(options))
	seen := make(map[string]bool)
	for _, attr := range p.Attributes {
		if !attr.IsVariation {
			continue
		}
		key := variation.NormalizeKey(attr.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		attrs = append(attrs, AttributeView{
			Key:       key,
			Treatment: string(h.classifier.Classify(key)),
			Options:   options[key],
		})
	}

	gallery := p.Gallery
	variationImage := ""
	if resolved != nil {
		variationImage = resolved.Image
	}
	gallery = variation.MergeGallery(gallery, variationImage)

	return ProductView{
		Product:   p,
		Selection: sel,
		Attrs:     attrs,
		Variation: resolved,
		Gallery:   gallery,
	}
}

// applySelection replays a client-supplied selection through Set so that
// values currently reported unavailable stay unselected. Keys are applied in
// sorted order to keep the replay deterministic.
func applySelection(p *domain.Product, raw map[string]string) variation.Selection {
	sel := make(variation.Selection)
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sel.Set(p, k, raw[k])
	}
	return sel
}
