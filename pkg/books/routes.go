package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all book routes. Reads are public; mutations
// require authentication. The genre listing route is registered before the
// :book_id route so echo matches the literal segment first.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authenticate echo.MiddlewareFunc) *Service {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	books := e.Group("/books")
	books.GET("", h.listBooks)
	books.GET("/genre/:genre_id", h.listBooksByGenre)
	books.GET("/:book_id", h.retrieveBook)
	books.POST("", h.createBook, authenticate)
	books.PATCH("/:book_id", h.updateBook, authenticate)
	books.DELETE("/:book_id", h.deleteBook, authenticate)

	return bookService
}
