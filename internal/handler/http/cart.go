package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/variation"
	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httputil"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/validator"
)

// CartEvents publishes cart lifecycle events. Publishing is best-effort;
// failures are logged and never fail the request.
type CartEvents interface {
	CartUpdated(ctx context.Context, sessionID string, snap domain.CartSnapshot) error
	CartCleared(ctx context.Context, sessionID string, snap domain.CartSnapshot) error
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	registry *cart.Registry
	catalog  Catalog
	events   CartEvents
	logger   *slog.Logger
}

// NewCartHandler creates a cart HTTP handler. events may be nil when eventing
// is disabled.
func NewCartHandler(registry *cart.Registry, c Catalog, events CartEvents, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		catalog:  c,
		events:   events,
		logger:   logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
// The server fetches the product itself; clients never send prices.
type AddItemRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	Quantity  int               `json:"quantity"`
	Selection map[string]string `json:"selection"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	snap := h.registry.Ledger(r.Context(), sid).Snapshot()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// AddItem handles POST /api/v1/cart/items
//
// The product is re-fetched from the catalog and the selection re-resolved
// server side, so stale or tampered client state cannot put an unpurchasable
// combination in the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var resolved *domain.Variation
	var attrs map[string]string
	if len(p.Variations) > 0 {
		sel := applySelection(p, req.Selection)
		resolved = variation.ResolveVariation(p, sel)
		if resolved == nil {
			httputil.WriteError(w, r,
				apperrors.InvalidInput("selection does not resolve to a purchasable variation"), h.logger)
			return
		}
		attrs = displayAttributes(p, resolved)
	}

	ledger := h.registry.Ledger(r.Context(), sid)
	ledger.Add(r.Context(), cart.AddInput{
		Product:    p,
		Quantity:   req.Quantity,
		Variation:  resolved,
		Attributes: attrs,
	})

	h.respondWithSnapshot(w, r, sid, ledger)
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId} and
// PUT /api/v1/cart/items/{productId}/{variationId}. A quantity of zero or
// less removes the line.
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	productID := chi.URLParam(r, "productId")
	variationID := chi.URLParam(r, "variationId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	ledger := h.registry.Ledger(r.Context(), sid)
	ledger.UpdateQuantity(r.Context(), productID, variationID, req.Quantity)

	h.respondWithSnapshot(w, r, sid, ledger)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId} and
// DELETE /api/v1/cart/items/{productId}/{variationId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	productID := chi.URLParam(r, "productId")
	variationID := chi.URLParam(r, "variationId")

	ledger := h.registry.Ledger(r.Context(), sid)
	ledger.RemoveLine(r.Context(), productID, variationID)

	h.respondWithSnapshot(w, r, sid, ledger)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	ledger := h.registry.Ledger(r.Context(), sid)
	ledger.Clear(r.Context())
	snap := ledger.Snapshot()

	if h.events != nil {
		if err := h.events.CartCleared(r.Context(), sid, snap); err != nil {
			h.logger.WarnContext(r.Context(), "cart.cleared publish failed",
				slog.String("session_id", sid),
				slog.String("error", err.Error()),
			)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

func (h *CartHandler) respondWithSnapshot(w http.ResponseWriter, r *http.Request, sid string, ledger *cart.Ledger) {
	snap := ledger.Snapshot()

	if h.events != nil {
		if err := h.events.CartUpdated(r.Context(), sid, snap); err != nil {
			h.logger.WarnContext(r.Context(), "cart.updated publish failed",
				slog.String("session_id", sid),
				slog.String("error", err.Error()),
			)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// displayAttributes maps a resolved variation's normalized attributes back to
// their display casing for the cart line.
func displayAttributes(p *domain.Product, v *domain.Variation) map[string]string {
	display := variation.DisplayValues(p)
	attrs := make(map[string]string, len(v.Attributes))
	for key, value := range v.Attributes {
		normKey := variation.NormalizeKey(key)
		normValue := variation.NormalizeValue(value)
		if m := display[normKey]; m != nil {
			if d, ok := m[normValue]; ok {
				attrs[normKey] = d
				continue
			}
		}
		attrs[normKey] = value
	}
	return attrs
}
