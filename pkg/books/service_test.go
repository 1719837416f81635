package books

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/genres"
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

func seedGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	genre, err := genres.NewService(db).CreateGenre(context.Background(), name)
	require.NoError(t, err)
	return genre
}

func newBookOptions(genreID, title string) CreateBookOptions {
	return CreateBookOptions{
		Title:           title,
		Writer:          "Writer",
		Publisher:       "Publisher",
		PublicationYear: 2020,
		Price:           1500,
		StockQuantity:   10,
		GenreID:         genreID,
	}
}

func TestServiceCreateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")

	book, err := svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "The Hobbit", book.Title)
	assert.Equal(t, genre.ID, book.GenreID)
	require.NotNil(t, book.Genre)
	assert.Equal(t, "Fantasy", book.Genre.Name)
}

func TestServiceCreateBook_UnknownGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, newBookOptions(uuid.New().String(), "The Hobbit"))
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusNotFound, ec.HTTPCode)
	assert.Equal(t, "Genre with the provided genreId not found", ec.Message)
}

func TestServiceCreateBook_DuplicateTitle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")

	_, err := svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)

	_, err = svc.CreateBook(ctx, newBookOptions(genre.ID, "the hobbit"))
	require.Error(t, err)

	ec := &errcodes.Error{}
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, http.StatusConflict, ec.HTTPCode)
	assert.Equal(t, "Book with this title already exists", ec.Message)
}

func TestServiceRetrieveBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")
	created, err := svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)

	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &created.ID, IncludeGenre: true})
	require.NoError(t, err)
	assert.Equal(t, created.ID, book.ID)
	require.NotNil(t, book.Genre)
	assert.Equal(t, "Fantasy", book.Genre.Name)

	missing := uuid.New().String()
	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &missing})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestServiceListBooks(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")

	for _, b := range []struct {
		title string
		year  int
	}{
		{"A Wizard of Earthsea", 1968},
		{"The Hobbit", 1937},
		{"The Tombs of Atuan", 1971},
	} {
		opts := newBookOptions(genre.ID, b.title)
		opts.PublicationYear = b.year
		_, err := svc.CreateBook(ctx, opts)
		require.NoError(t, err)
	}

	books, total, err := svc.ListBooks(ctx, ListBooksOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, books, 3)
	assert.Equal(t, "A Wizard of Earthsea", books[0].Title)
	assert.Equal(t, "The Hobbit", books[1].Title)
	require.NotNil(t, books[0].Genre)
	assert.Equal(t, "Fantasy", books[0].Genre.Name)

	books, _, err = svc.ListBooks(ctx, ListBooksOptions{Page: 1, Limit: 10, OrderByTitle: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "The Tombs of Atuan", books[0].Title)

	search := "the"
	books, total, err = svc.ListBooks(ctx, ListBooksOptions{Page: 1, Limit: 10, Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, books, 2)
}

func TestServiceListBooks_ByGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fantasy := seedGenre(t, db, "Fantasy")
	horror := seedGenre(t, db, "Horror")

	_, err := svc.CreateBook(ctx, newBookOptions(fantasy.ID, "The Hobbit"))
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, newBookOptions(horror.ID, "Dracula"))
	require.NoError(t, err)

	books, total, err := svc.ListBooks(ctx, ListBooksOptions{Page: 1, Limit: 10, GenreID: &fantasy.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, "The Hobbit", books[0].Title)
}

func TestServiceUpdateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")
	book, err := svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)

	description := "There and back again"
	price := 2000
	updated, err := svc.UpdateBook(ctx, book.ID, UpdateBookOptions{
		Description: &description,
		Price:       &price,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, description, *updated.Description)
	assert.Equal(t, 2000, updated.Price)
	// Untouched fields keep their values.
	assert.Equal(t, 10, updated.StockQuantity)

	reloaded, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, 2000, reloaded.Price)

	missing := uuid.New().String()
	_, err = svc.UpdateBook(ctx, missing, UpdateBookOptions{Price: &price})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestServiceDeleteBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := seedGenre(t, db, "Fantasy")
	book, err := svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	_, _, err = svc.ListBooks(ctx, ListBooksOptions{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Deleting again is a 404.
	err = svc.DeleteBook(ctx, book.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	// The title becomes reusable once the old book is deleted.
	_, err = svc.CreateBook(ctx, newBookOptions(genre.ID, "The Hobbit"))
	require.NoError(t, err)
}
