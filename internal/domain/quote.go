package domain

import "time"

// Quote is a contact/quote request submitted from the storefront, carrying a
// formatted summary of the cart at submission time.
type Quote struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message,omitempty"`
	CartSummary string    `json:"cart_summary,omitempty"`
	ItemCount   int       `json:"item_count"`
	Subtotal    int64     `json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}
