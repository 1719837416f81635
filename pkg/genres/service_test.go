package genres

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/migrations"
	"github.com/pustakahq/pustaka/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// a second pooled connection would get its own empty in-memory database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedBook(t *testing.T, db *bun.DB, genreID, title string) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		ID:              uuid.New().String(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Title:           title,
		Writer:          "Writer",
		Publisher:       "Publisher",
		PublicationYear: 2020,
		Price:           1000,
		StockQuantity:   5,
		GenreID:         genreID,
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func TestServiceCreateGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)

	assert.NotEmpty(t, genre.ID)
	assert.Equal(t, "Fantasy", genre.Name)
	assert.False(t, genre.Deleted())
}

func TestServiceCreateGenre_DuplicateName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)

	// Case-insensitive duplicates are rejected.
	_, err = svc.CreateGenre(ctx, "fantasy")
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusConflict, ec.HTTPCode)
	assert.Equal(t, "Genre name already exists", ec.Message)
}

func TestServiceCreateGenre_ReusesDeletedName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteGenre(ctx, genre.ID))

	// Uniqueness only applies among non-deleted rows.
	_, err = svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
}

func TestServiceRetrieveGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.CreateGenre(ctx, "Horror")
	require.NoError(t, err)

	genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, genre.ID)

	name := "horror"
	genre, err = svc.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, created.ID, genre.ID)

	missing := uuid.New().String()
	_, err = svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &missing})
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusNotFound, ec.HTTPCode)
	assert.Equal(t, "Genre not found", ec.Message)
}

func TestServiceListGenres(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Mystery", "Fantasy", "Romance"} {
		_, err := svc.CreateGenre(ctx, name)
		require.NoError(t, err)
	}

	genres, total, err := svc.ListGenres(ctx, ListGenresOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, genres, 3)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "Mystery", genres[1].Name)
	assert.Equal(t, "Romance", genres[2].Name)

	genres, total, err = svc.ListGenres(ctx, ListGenresOptions{Page: 1, Limit: 10, OrderByName: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Romance", genres[0].Name)

	genres, total, err = svc.ListGenres(ctx, ListGenresOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, genres, 1)
	assert.Equal(t, "Romance", genres[0].Name)
}

func TestServiceListGenres_Search(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Science Fiction", "Historical Fiction", "Poetry"} {
		_, err := svc.CreateGenre(ctx, name)
		require.NoError(t, err)
	}

	search := "fiction"
	genres, total, err := svc.ListGenres(ctx, ListGenresOptions{Page: 1, Limit: 10, Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, genres, 2)
	assert.Equal(t, "Historical Fiction", genres[0].Name)
	assert.Equal(t, "Science Fiction", genres[1].Name)
}

func TestServiceUpdateGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, err := svc.CreateGenre(ctx, "Scifi")
	require.NoError(t, err)
	other, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)

	updated, err := svc.UpdateGenre(ctx, genre.ID, "Science Fiction")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", updated.Name)

	// Renaming to itself is a no-op, not a conflict.
	_, err = svc.UpdateGenre(ctx, genre.ID, "science fiction")
	require.NoError(t, err)

	_, err = svc.UpdateGenre(ctx, other.ID, "Science Fiction")
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusConflict, ec.HTTPCode)
}

func TestServiceDeleteGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGenre(ctx, genre.ID))

	_, err = svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &genre.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Genre"))

	// Deleting an already-deleted genre is a 404.
	err = svc.DeleteGenre(ctx, genre.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Genre"))
}

func TestServiceDeleteGenre_BlockedByBooks(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, err := svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
	book := seedBook(t, db, genre.ID, "The Hobbit")

	err = svc.DeleteGenre(ctx, genre.ID)
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusConflict, ec.HTTPCode)

	// Soft-deleting the book lifts the block.
	_, err = db.NewDelete().Model((*models.Book)(nil)).Where("id = ?", book.ID).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGenre(ctx, genre.ID))
}
