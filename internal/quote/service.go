package quote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/validator"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Quote, error)
}

// Publisher emits quote lifecycle events. Publish failures are the
// publisher's to report; the service treats them as non-fatal.
type Publisher interface {
	QuoteSubmitted(ctx context.Context, q *domain.Quote) error
}

// Service handles quote submission.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a quote service. publisher may be nil when eventing is
// disabled.
func NewService(store Store, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitInput is a quote submission request.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=8,max=20"`
	Message string `json:"message" validate:"max=2000"`

	Snapshot domain.CartSnapshot `json:"-"`
}

// Submit validates the contact fields, renders a plain-text summary of the
// cart, stores the quote and publishes quote.submitted. Event publishing is
// best-effort; only validation and storage failures fail the call.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Quote, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	q := &domain.Quote{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Message:     strings.TrimSpace(in.Message),
		CartSummary: FormatSummary(in.Snapshot),
		ItemCount:   in.Snapshot.ItemCount,
		Subtotal:    in.Snapshot.Subtotal,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.QuoteSubmitted(ctx, q); err != nil {
			s.logger.WarnContext(ctx, "quote.submitted publish failed",
				slog.String("quote_id", q.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return q, nil
}

// GetByID returns a stored quote.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	return s.store.GetByID(ctx, id)
}

// ListByEmail returns the quotes submitted with an email address.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]domain.Quote, error) {
	return s.store.ListByEmail(ctx, email)
}

// FormatSummary renders the cart as plain text, one line per cart line plus
// the subtotal, for embedding in the quote record and outgoing emails.
func FormatSummary(snap domain.CartSnapshot) string {
	if len(snap.Items) == 0 {
		return "Carrinho vazio"
	}

	var b strings.Builder
	for _, line := range snap.Items {
		b.WriteString(fmt.Sprintf("%dx %s", line.Quantity, line.Name))
		if len(line.Attributes) > 0 {
			b.WriteString(" (")
			b.WriteString(formatAttributes(line.Attributes))
			b.WriteString(")")
		}
		b.WriteString(fmt.Sprintf(" - %s\n", FormatBRL(line.UnitPrice*int64(line.Quantity))))
	}
	b.WriteString(fmt.Sprintf("Subtotal: %s", FormatBRL(snap.Subtotal)))
	return b.String()
}

func formatAttributes(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for key, value := range attrs {
		parts = append(parts, key+": "+value)
	}
	// map order is random; sort for stable output
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// FormatBRL renders cents as Brazilian currency: 598012 -> "R$ 5.980,12".
func FormatBRL(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}
