package handler

import (
	"net/http"
	"strconv"
	"time"

	"invitation/internal/config"
	"invitation/internal/domain/model"
	"invitation/internal/middleware"
	"invitation/internal/repository"
	"invitation/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// /orders のグループとは別に、ルート単位でmiddlewareを付ける
	e.POST("/orders/:id/payments", h.pay,
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.ActiveUserGuard(userRepo),
		paymentRateLimiter(cfg.PaymentRateLimit),
	)
}

// 支払いの連打をユーザー単位で抑える
func paymentRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, ok := c.Get(middleware.CtxUserIDKey).(int64); ok {
				return "user:" + strconv.FormatInt(id, 10), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many payment attempts"})
		},
	})
}

// 決済が断られても200（result=failed）
func (h *PaymentHandler) pay(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Pay(c.Request().Context(), actor, id, usecase.PayInput{PaymentMethod: req.PaymentMethod})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
