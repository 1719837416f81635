package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              string     `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Title           string     `bun:",nullzero" json:"title"`
	Writer          string     `bun:",nullzero" json:"writer"`
	Publisher       string     `bun:",nullzero" json:"publisher"`
	Description     *string    `json:"description,omitempty"`
	PublicationYear int        `json:"publication_year"`
	Price           int        `json:"price"`
	StockQuantity   int        `json:"stock_quantity"`
	GenreID         string     `bun:",nullzero" json:"genre_id"`
	DeletedAt       *time.Time `bun:",soft_delete" json:"-"`

	Genre *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
}

// Deleted reports whether the book has been soft deleted.
func (b *Book) Deleted() bool {
	return b.DeletedAt != nil
}
