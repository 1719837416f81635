package genres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveGenreOptions struct {
	ID   *string
	Name *string
}

type ListGenresOptions struct {
	Page        int
	Limit       int
	Search      *string
	OrderByName string // "asc" or "desc", defaults to asc
}

type UpdateGenreOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateGenre creates a genre. Names are unique case-insensitively among
// non-deleted genres.
func (svc *Service) CreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errcodes.ValidationError("Genre name is required")
	}

	_, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &name})
	if err == nil {
		return nil, errcodes.Conflict("Genre name already exists")
	}
	if !errors.Is(err, errcodes.NotFound("Genre")) {
		return nil, err
	}

	now := time.Now()
	genre := &models.Genre{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
	}

	_, err = svc.db.
		NewInsert().
		Model(genre).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

// RetrieveGenre finds a single non-deleted genre by id or by
// case-insensitive name.
func (svc *Service) RetrieveGenre(ctx context.Context, opts RetrieveGenreOptions) (*models.Genre, error) {
	genre := &models.Genre{}

	q := svc.db.
		NewSelect().
		Model(genre)

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("LOWER(g.name) = LOWER(?)", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

// ListGenres returns a page of non-deleted genres and the total count.
func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, int, error) {
	var genres []*models.Genre

	direction := "ASC"
	if opts.OrderByName == "desc" {
		direction = "DESC"
	}

	q := svc.db.
		NewSelect().
		Model(&genres).
		Order("g.name " + direction)

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("LOWER(g.name) LIKE LOWER(?)", "%"+*opts.Search+"%")
	}

	q = q.Limit(opts.Limit).Offset((opts.Page - 1) * opts.Limit)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return genres, total, nil
}

// UpdateGenre renames a genre, enforcing name uniqueness.
func (svc *Service) UpdateGenre(ctx context.Context, id, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errcodes.ValidationError("Genre name is required")
	}

	genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return nil, err
	}

	existing, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &name})
	if err == nil && existing.ID != id {
		return nil, errcodes.Conflict("Genre name already exists")
	}
	if err != nil && !errors.Is(err, errcodes.NotFound("Genre")) {
		return nil, err
	}

	genre.Name = name
	genre.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(genre).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

// DeleteGenre soft deletes a genre. Deletion is blocked while any
// non-deleted book still references the genre, so historical transactions
// keep resolving.
func (svc *Service) DeleteGenre(ctx context.Context, id string) error {
	genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return err
	}

	count, err := svc.BookCount(ctx, genre.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errcodes.Conflict("Cannot delete genre while books still reference it")
	}

	_, err = svc.db.
		NewDelete().
		Model((*models.Genre)(nil)).
		Where("id = ?", genre.ID).
		Exec(ctx)
	return errors.WithStack(err)
}

// BookCount returns the count of non-deleted books in this genre.
func (svc *Service) BookCount(ctx context.Context, genreID string) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("b.genre_id = ?", genreID).
		Count(ctx)
	return count, errors.WithStack(err)
}
