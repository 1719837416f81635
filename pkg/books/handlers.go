package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/payload"
)

type handler struct {
	bookService *Service
}

func (h *handler) createBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.CreateBook(ctx, CreateBookOptions{
		Title:           params.Title,
		Writer:          params.Writer,
		Publisher:       params.Publisher,
		Description:     params.Description,
		PublicationYear: params.PublicationYear,
		Price:           params.Price,
		StockQuantity:   params.StockQuantity,
		GenreID:         params.GenreID,
	})
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusCreated, "Book added successfully", book)
}

func (h *handler) listBooks(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Page:               params.Page,
		Limit:              params.Limit,
		Search:             params.Search,
		OrderByTitle:       params.OrderByTitle,
		OrderByPublishDate: params.OrderByPublishDate,
	})
	if err != nil {
		return err
	}

	meta := payload.NewMeta(params.Page, params.Limit, total)
	return payload.JSONWithMeta(c, http.StatusOK, "Get all books successfully", books, meta)
}

func (h *handler) listBooksByGenre(c echo.Context) error {
	ctx := c.Request().Context()
	genreID := c.Param("genre_id")

	params := ListBooksByGenreQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Page:    params.Page,
		Limit:   params.Limit,
		GenreID: &genreID,
	})
	if err != nil {
		return err
	}

	meta := payload.NewMeta(params.Page, params.Limit, total)
	return payload.JSONWithMeta(c, http.StatusOK, "Get books by genre successfully", books, meta)
}

func (h *handler) retrieveBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("book_id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &bookID, IncludeGenre: true})
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Get book detail successfully", book)
}

func (h *handler) updateBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("book_id")

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateBook(ctx, bookID, UpdateBookOptions{
		Description:   params.Description,
		Price:         params.Price,
		StockQuantity: params.StockQuantity,
	})
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Book updated successfully", book)
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("book_id")

	if err := h.bookService.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Book removed successfully", nil)
}
