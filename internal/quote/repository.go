package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
)

// DBTX is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists quotes in PostgreSQL.
type Repository struct {
	db DBTX
}

// NewRepository creates a PostgreSQL-backed quote repository.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a quote.
func (r *Repository) Create(ctx context.Context, q *domain.Quote) error {
	query := `
		INSERT INTO quotes (
			id, name, email, phone, message, cart_summary,
			item_count, subtotal, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		q.ID,
		q.Name,
		q.Email,
		q.Phone,
		q.Message,
		q.CartSummary,
		q.ItemCount,
		q.Subtotal,
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	return nil
}

// GetByID retrieves a quote by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query := `
		SELECT id, name, email, phone, message, cart_summary,
			   item_count, subtotal, created_at
		FROM quotes
		WHERE id = $1`

	var q domain.Quote
	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.Name,
		&q.Email,
		&q.Phone,
		&q.Message,
		&q.CartSummary,
		&q.ItemCount,
		&q.Subtotal,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("quote", id)
		}
		return nil, fmt.Errorf("select quote: %w", err)
	}

	return &q, nil
}

// ListByEmail returns all quotes submitted with the given email, newest
// first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]domain.Quote, error) {
	query := `
		SELECT id, name, email, phone, message, cart_summary,
			   item_count, subtotal, created_at
		FROM quotes
		WHERE email = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("select quotes by email: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(
			&q.ID,
			&q.Name,
			&q.Email,
			&q.Phone,
			&q.Message,
			&q.CartSummary,
			&q.ItemCount,
			&q.Subtotal,
			&q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}
