package handler

import (
	"net/http"
	"time"

	"invitation/internal/domain/model"
	"invitation/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 公開カタログ（ログイン不要）
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// 公開ルートを登録
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.list)
	e.GET("/templates/:id", h.detail)
	e.GET("/health-check", h.health)
}

func (h *CatalogHandler) list(c echo.Context) error {
	page, ok := queryPage(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	category, ok := queryInt64(c, "category")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category"})
	}
	minPrice, ok := queryMoney(c, "min_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
	}
	maxPrice, ok := queryMoney(c, "max_price")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
	}

	out, err := h.uc.List(c.Request().Context(), usecase.CatalogListInput{
		Page:       page,
		CategoryID: category,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Search:     c.QueryParam("search"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DBには触らない
func (h *CatalogHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func queryMoney(c echo.Context, name string) (*model.Money, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, false
	}
	m := model.NewMoney(d)
	return &m, true
}
