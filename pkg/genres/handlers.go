package genres

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/payload"
)

type handler struct {
	genreService *Service
}

func (h *handler) createGenre(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateGenrePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genre, err := h.genreService.CreateGenre(ctx, params.Name)
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusCreated, "Genre created successfully", genre)
}

func (h *handler) listGenres(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListGenresQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genres, total, err := h.genreService.ListGenres(ctx, ListGenresOptions{
		Page:        params.Page,
		Limit:       params.Limit,
		Search:      params.Search,
		OrderByName: params.OrderByName,
	})
	if err != nil {
		return err
	}

	meta := payload.NewMeta(params.Page, params.Limit, total)
	return payload.JSONWithMeta(c, http.StatusOK, "Get all genres successfully", genres, meta)
}

func (h *handler) retrieveGenre(c echo.Context) error {
	ctx := c.Request().Context()
	genreID := c.Param("genre_id")

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &genreID})
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Get genre detail successfully", genre)
}

func (h *handler) updateGenre(c echo.Context) error {
	ctx := c.Request().Context()
	genreID := c.Param("genre_id")

	params := UpdateGenrePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genre, err := h.genreService.UpdateGenre(ctx, genreID, params.Name)
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Genre updated successfully", genre)
}

func (h *handler) deleteGenre(c echo.Context) error {
	ctx := c.Request().Context()
	genreID := c.Param("genre_id")

	if err := h.genreService.DeleteGenre(ctx, genreID); err != nil {
		return err
	}

	return payload.JSON(c, http.StatusOK, "Genre removed successfully", nil)
}
