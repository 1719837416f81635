package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/models"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts and validates the Bearer token from the
// Authorization header. The user is re-resolved from storage on every
// request so a deleted account can't keep using an old token, then stored
// in the echo context. Missing or invalid credentials return 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return errcodes.Unauthorized("Access denied. Bearer token required.")
		}

		claims, err := m.authService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found")
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)

		return next(c)
	}
}

// GetUserFromContext retrieves the authenticated user from the Echo context.
func GetUserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}
