package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Transaction is a completed purchase. Transactions and their line items are
// created atomically and are immutable afterwards.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID        string    `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `bun:",nullzero" json:"user_id"`
	Total     int       `json:"total"`

	User  *User              `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Books []*TransactionBook `bun:"rel:has-many,join:id=transaction_id" json:"books,omitempty"`
}

// TransactionBook is one line item of a purchase: a book and the quantity
// bought. The book's price at purchase time is folded into the transaction
// total.
type TransactionBook struct {
	bun.BaseModel `bun:"table:transaction_books,alias:tb"`

	ID            string `bun:",pk,nullzero" json:"id"`
	TransactionID string `bun:",nullzero" json:"transaction_id"`
	BookID        string `bun:",nullzero" json:"book_id"`
	Quantity      int    `json:"quantity"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
}
