package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all genre routes. Reads are public; mutations
// require authentication.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authenticate echo.MiddlewareFunc) *Service {
	genreService := NewService(db)

	h := &handler{
		genreService: genreService,
	}

	genre := e.Group("/genre")
	genre.GET("", h.listGenres)
	genre.GET("/:genre_id", h.retrieveGenre)
	genre.POST("", h.createGenre, authenticate)
	genre.PATCH("/:genre_id", h.updateGenre, authenticate)
	genre.DELETE("/:genre_id", h.deleteGenre, authenticate)

	return genreService
}
