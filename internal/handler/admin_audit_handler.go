package handler

import (
	"net/http"

	"invitation/internal/middleware"
	"invitation/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GET /admin/audit-logs（super_adminのみ）
type AdminAuditHandler struct {
	uc *usecase.AdminAuditUsecase
}

func NewAdminAuditHandler(uc *usecase.AdminAuditUsecase) *AdminAuditHandler {
	return &AdminAuditHandler{uc: uc}
}

func (h *AdminAuditHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/audit-logs", h.list, middleware.SuperAdminGuard())
}

func (h *AdminAuditHandler) list(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	page, ok := queryPage(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	resourceID, ok := queryInt64(c, "resource_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
	}

	out, err := h.uc.List(c.Request().Context(), actor, usecase.AuditLogListInput{
		Page:         page,
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   resourceID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
