package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httpclient"
)

// totalHeader carries the unpaginated result count on WooCommerce list
// responses.
const totalHeader = "X-WP-Total"

// Filter narrows a product listing.
type Filter struct {
	Page     int
	PerPage  int
	Category string
	Brand    string
	Search   string
}

// Client is a read-only WooCommerce catalog client. All calls go through the
// retrying HTTP client wrapped in a circuit breaker, so a struggling backend
// degrades into fast 503s instead of piling up goroutines.
type Client struct {
	http           *httpclient.CircuitBreakerClient
	baseURL        string
	consumerKey    string
	consumerSecret string
	logger         *slog.Logger
}

// NewClient creates a catalog client. baseURL points at the WooCommerce REST
// root, e.g. "https://shop.example.com/wp-json/wc/v3".
func NewClient(hc *httpclient.CircuitBreakerClient, baseURL, consumerKey, consumerSecret string, logger *slog.Logger) *Client {
	return &Client{
		http:           hc,
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		logger:         logger,
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.consumerKey != "" {
		query.Set("consumer_key", c.consumerKey)
		query.Set("consumer_secret", c.consumerSecret)
	}
	return c.baseURL + path + "?" + query.Encode()
}

// get fetches a URL and decodes the JSON body into out. It returns the
// response headers for pagination totals.
func (c *Client) get(ctx context.Context, rawURL string, out any) (http.Header, error) {
	resp, err := c.http.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("catalog resource", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog backend returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return resp.Header, nil
}

// List returns a page of products (without variations) and the total count
// reported by the backend.
func (c *Client) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.Category != "" {
		query.Set("category", f.Category)
	}
	if f.Brand != "" {
		query.Set("brand", f.Brand)
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}

	var wps []wcProduct
	headers, err := c.get(ctx, c.endpoint("/products", query), &wps)
	if err != nil {
		return nil, 0, err
	}

	total := len(wps)
	if raw := headers.Get(totalHeader); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			total = parsed
		}
	}

	products := make([]domain.Product, 0, len(wps))
	for i := range wps {
		products = append(products, toDomain(&wps[i], nil))
	}

	return products, total, nil
}

// GetByID returns one product with its variations.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var wp wcProduct
	if _, err := c.get(ctx, c.endpoint("/products/"+url.PathEscape(id), nil), &wp); err != nil {
		return nil, err
	}

	wvs, err := c.variations(ctx, wp.ID)
	if err != nil {
		return nil, err
	}

	p := toDomain(&wp, wvs)
	return &p, nil
}

// GetBySlug returns one product with its variations, looked up by slug.
func (c *Client) GetBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	query := url.Values{}
	query.Set("slug", productSlug)

	var wps []wcProduct
	if _, err := c.get(ctx, c.endpoint("/products", query), &wps); err != nil {
		return nil, err
	}
	if len(wps) == 0 {
		return nil, apperrors.NotFound("product", productSlug)
	}

	wvs, err := c.variations(ctx, wps[0].ID)
	if err != nil {
		return nil, err
	}

	p := toDomain(&wps[0], wvs)
	return &p, nil
}

// variations fetches the concrete purchasable combinations of a variable
// product. Simple products have none; WooCommerce returns an empty list.
func (c *Client) variations(ctx context.Context, productID int) ([]wcVariation, error) {
	query := url.Values{}
	query.Set("per_page", "100")

	var wvs []wcVariation
	path := fmt.Sprintf("/products/%d/variations", productID)
	if _, err := c.get(ctx, c.endpoint(path, query), &wvs); err != nil {
		return nil, fmt.Errorf("fetch variations for product %d: %w", productID, err)
	}
	return wvs, nil
}

// Term is a category or brand taxonomy entry.
type Term struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Categories lists the product category taxonomy.
func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	return c.terms(ctx, "/products/categories")
}

// Brands lists the brand taxonomy.
func (c *Client) Brands(ctx context.Context) ([]Term, error) {
	return c.terms(ctx, "/products/brands")
}

func (c *Client) terms(ctx context.Context, path string) ([]Term, error) {
	query := url.Values{}
	query.Set("per_page", "100")

	var wts []wcTerm
	if _, err := c.get(ctx, c.endpoint(path, query), &wts); err != nil {
		return nil, err
	}

	terms := make([]Term, 0, len(wts))
	for _, wt := range wts {
		terms = append(terms, Term{
			ID:   strconv.Itoa(wt.ID),
			Name: wt.Name,
			Slug: wt.Slug,
		})
	}
	return terms, nil
}
