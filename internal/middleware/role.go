package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/repository"
)

// RequireSuperuser returns a middleware that restricts a route to superuser
// accounts. It assumes JWTAuth already ran and stored the user id in the
// context; the flag is looked up in the database rather than carried in the
// token so that demoting an account takes effect immediately.
func RequireSuperuser(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("user_id").(string)
			if !ok || uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			u, err := users.FindByID(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			if u == nil || !u.IsSuperuser {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
