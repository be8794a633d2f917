package handler

import (
	"net/http"

	"invitation/internal/domain/model"
	"invitation/internal/middleware"
	"invitation/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 作成・更新で同じ形。priceは "50.00" でも 50 でも受ける
type TemplateRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Price         *model.Money         `json:"price"`
	CategoryID    int64                `json:"category_id"`
	Thumbnail     string               `json:"thumbnail"`
	PreviewImages []string             `json:"preview_images"`
	Status        model.TemplateStatus `json:"status"`
}

func (r TemplateRequest) toInput() usecase.TemplateInput {
	return usecase.TemplateInput{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		CategoryID:    r.CategoryID,
		Thumbnail:     r.Thumbnail,
		PreviewImages: r.PreviewImages,
		Status:        r.Status,
	}
}

// /admin/templates をまとめる
type AdminTemplateHandler struct {
	uc *usecase.AdminTemplateUsecase
}

// DI
func NewAdminTemplateHandler(uc *usecase.AdminTemplateUsecase) *AdminTemplateHandler {
	return &AdminTemplateHandler{uc: uc}
}

// adminグループは呼び出し側で AuthJWT / ActiveUserGuard / AdminRoleGuard 済み
func (h *AdminTemplateHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/templates", h.list)
	admin.POST("/templates", h.create)
	admin.GET("/templates/:id", h.detail)
	admin.PUT("/templates/:id", h.update)
	admin.DELETE("/templates/:id", h.delete)
}

func (h *AdminTemplateHandler) list(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	page, ok := queryPage(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}

	out, err := h.uc.List(c.Request().Context(), actor, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTemplateHandler) create(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminTemplateHandler) detail(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTemplateHandler) update(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), actor, id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTemplateHandler) delete(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
