package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC gates operator routes such as the lookup history on the role claim
// stored by Auth. Requests without an allowed role get 403.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextKeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "role not allowed to read lookup history")
			}
			return next(c)
		}
	}
}
