package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/genres"
	"github.com/pustakahq/pustaka/pkg/models"
	"github.com/uptrace/bun"
)

type CreateBookOptions struct {
	Title           string
	Writer          string
	Publisher       string
	Description     *string
	PublicationYear int
	Price           int
	StockQuantity   int
	GenreID         string
}

type RetrieveBookOptions struct {
	ID           *string
	Title        *string
	IncludeGenre bool
}

type ListBooksOptions struct {
	Page               int
	Limit              int
	Search             *string
	GenreID            *string
	OrderByTitle       string // "asc" or "desc", defaults to asc
	OrderByPublishDate string // "asc" or "desc", defaults to desc
}

type UpdateBookOptions struct {
	Description   *string
	Price         *int
	StockQuantity *int
}

type Service struct {
	db           *bun.DB
	genreService *genres.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:           db,
		genreService: genres.NewService(db),
	}
}

// CreateBook creates a book under an existing genre. Titles are unique
// case-insensitively among non-deleted books.
func (svc *Service) CreateBook(ctx context.Context, opts CreateBookOptions) (*models.Book, error) {
	genre, err := svc.genreService.RetrieveGenre(ctx, genres.RetrieveGenreOptions{ID: &opts.GenreID})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Genre")) {
			return nil, errcodes.NotFound("Genre with the provided genreId")
		}
		return nil, err
	}

	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{Title: &opts.Title})
	if err == nil {
		return nil, errcodes.Conflict("Book with this title already exists")
	}
	if !errors.Is(err, errcodes.NotFound("Book")) {
		return nil, err
	}

	now := time.Now()
	book := &models.Book{
		ID:              uuid.New().String(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Title:           opts.Title,
		Writer:          opts.Writer,
		Publisher:       opts.Publisher,
		Description:     opts.Description,
		PublicationYear: opts.PublicationYear,
		Price:           opts.Price,
		StockQuantity:   opts.StockQuantity,
		GenreID:         genre.ID,
	}

	_, err = svc.db.
		NewInsert().
		Model(book).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	book.Genre = genre
	return book, nil
}

// RetrieveBook finds a single non-deleted book by id or by case-insensitive
// title.
func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.Title != nil {
		q = q.Where("LOWER(b.title) = LOWER(?)", *opts.Title)
	}
	if opts.IncludeGenre {
		q = q.Relation("Genre")
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks returns a page of non-deleted books with their genre resolved,
// plus the total count. Books sort by title, then publication year.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book

	titleDir := "ASC"
	if opts.OrderByTitle == "desc" {
		titleDir = "DESC"
	}
	yearDir := "DESC"
	if opts.OrderByPublishDate == "asc" {
		yearDir = "ASC"
	}

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Genre").
		Order("b.title "+titleDir, "b.publication_year "+yearDir)

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("LOWER(b.title) LIKE LOWER(?)", "%"+*opts.Search+"%")
	}
	if opts.GenreID != nil {
		q = q.Where("b.genre_id = ?", *opts.GenreID)
	}

	q = q.Limit(opts.Limit).Offset((opts.Page - 1) * opts.Limit)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// UpdateBook patches the mutable columns of a book. Nil fields are left
// untouched.
func (svc *Service) UpdateBook(ctx context.Context, id string, opts UpdateBookOptions) (*models.Book, error) {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, IncludeGenre: true})
	if err != nil {
		return nil, err
	}

	columns := []string{"updated_at"}
	if opts.Description != nil {
		book.Description = opts.Description
		columns = append(columns, "description")
	}
	if opts.Price != nil {
		book.Price = *opts.Price
		columns = append(columns, "price")
	}
	if opts.StockQuantity != nil {
		book.StockQuantity = *opts.StockQuantity
		columns = append(columns, "stock_quantity")
	}

	book.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// DeleteBook soft deletes a book. Historical transaction line items keep
// their reference.
func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return err
	}

	_, err = svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", book.ID).
		Exec(ctx)
	return errors.WithStack(err)
}
