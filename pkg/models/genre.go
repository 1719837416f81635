package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID        string     `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Name      string     `bun:",nullzero" json:"name"`
	DeletedAt *time.Time `bun:",soft_delete" json:"-"`
}

// Deleted reports whether the genre has been soft deleted. Deleted genres
// are excluded from lookups but stay referenced by historical books.
func (g *Genre) Deleted() bool {
	return g.DeletedAt != nil
}
