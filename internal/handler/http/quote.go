package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/quote"
	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httputil"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/validator"
)

// QuoteHandler handles HTTP requests for quote endpoints.
type QuoteHandler struct {
	quotes   *quote.Service
	registry *cart.Registry
	logger   *slog.Logger
}

// NewQuoteHandler creates a quote HTTP handler.
func NewQuoteHandler(quotes *quote.Service, registry *cart.Registry, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes:   quotes,
		registry: registry,
		logger:   logger,
	}
}

// SubmitQuoteRequest is the JSON request body for submitting a quote. The
// cart contents come from the server-side session ledger, never the client.
type SubmitQuoteRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=8,max=20"`
	Message string `json:"message" validate:"max=2000"`
}

// SubmitQuote handles POST /api/v1/quotes
func (h *QuoteHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session is required"), h.logger)
		return
	}

	var req SubmitQuoteRequest
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

	snap := h.registry.Ledger(r.Context(), sid).Snapshot()
	if len(snap.Items) == 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("cannot submit a quote for an empty cart"), h.logger)
		return
	}

	q, err := h.quotes.Submit(r.Context(), quote.SubmitInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
		Snapshot: snap,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: q})
}

// GetQuote handles GET /api/v1/quotes/{id}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := h.quotes.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: q})
}

// ListQuotes handles GET /api/v1/quotes?email=
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("email query parameter is required"), h.logger)
		return
	}

	quotes, err := h.quotes.ListByEmail(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quotes})
}
