package middleware

import (
	"net/http"

	"invitation/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleが管理者（super_admin / admin_user）かどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return roleGuard(func(r model.Role) bool { return r.IsAdmin() }, "admin only")
}

// super_adminだけ
func SuperAdminGuard() echo.MiddlewareFunc {
	return roleGuard(func(r model.Role) bool { return r == model.RoleSuperAdmin }, "super admin only")
}

func roleGuard(allow func(model.Role) bool, deniedMsg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(model.Role)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !allow(role) {
				return c.JSON(http.StatusForbidden, errorJSON(deniedMsg))
			}

			return next(c)
		}
	}
}
