package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/payload"
)

type handler struct {
	authService *Service
}

// register handles user registration.
func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Register(ctx, RegisterUserOptions{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		return err
	}

	return payload.JSON(c, http.StatusCreated, "User registered successfully", RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

// login handles user login and returns a signed access token.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Email, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return payload.JSON(c, http.StatusOK, "Login successfully", LoginResponse{
		AccessToken: token,
	})
}

// me returns the current authenticated user's info. The middleware has
// already re-resolved the user from storage.
func (h *handler) me(c echo.Context) error {
	user, ok := GetUserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	return payload.JSON(c, http.StatusOK, "Get me successfully", user)
}
