package server

import (
	"log/slog"

	"invitation/internal/config"
	"invitation/internal/handler"
	infraRepo "invitation/internal/infra/repository"
	"invitation/internal/middleware"
	"invitation/internal/payment"
	"invitation/internal/usecase"
	auth "invitation/internal/usecase/auth_usecase"
	"invitation/internal/validator"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const bcryptCost = 12

// 外から差し替えるもの（テストではsqlite・固定ゲートウェイ・時計を渡す）
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Cache   usecase.TemplateDetailCache
	Gateway payment.Gateway
	Clock   usecase.Clock
	Logger  *slog.Logger

	// 0ならbcryptCost
	BcryptCost int
}

// Newはrepository → usecase → handler を組み立ててルートを登録する
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = usecase.SystemClock{}
	}
	if d.BcryptCost == 0 {
		d.BcryptCost = bcryptCost
	}

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	templateRepo := infraRepo.NewTemplateGormRepository(d.DB)
	categoryRepo := infraRepo.NewCategoryGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(d.BcryptCost), validator.NewAuthValidator(userRepo))
	loginUC := auth.NewLoginUsecase(
		userRepo,
		auth.NewBcryptPasswordVerifier(),
		auth.NewJWTIssuer(d.Config.JWTSecret, d.Config.AccessTokenTTL),
		validator.NewAuthValidator(userRepo),
		d.Clock,
	)
	catalogUC := usecase.NewCatalogUsecase(templateRepo, categoryRepo, d.Cache, d.Logger)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, validator.NewOrderValidator(d.Clock), usecase.RandomOrderNumber{}, d.Clock, d.Logger)
	paymentUC := usecase.NewPaymentUsecase(txm, orderRepo, d.Gateway, d.Logger)
	dashboardUC := usecase.NewDashboardUsecase(userRepo, templateRepo, orderRepo)
	adminTemplateUC := usecase.NewAdminTemplateUsecase(txm, templateRepo, orderRepo, validator.NewTemplateValidator(categoryRepo), d.Cache, d.Logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo)
	adminAuditUC := usecase.NewAdminAuditUsecase(auditRepo)

	e := newEcho(d.Config, d.Logger)

	//公開
	handler.NewCatalogHandler(catalogUC).RegisterRoutes(e)
	handler.NewAuthHandler(registerUC, loginUC).RegisterRoutes(e)

	//ログイン必須
	handler.NewDashboardHandler(dashboardUC).RegisterRoutes(e, d.Config, userRepo)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, d.Config, userRepo)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(e, d.Config, userRepo)

	//管理画面
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(d.Config.JWTSecret))
	admin.Use(middleware.ActiveUserGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())
	handler.NewAdminTemplateHandler(adminTemplateUC).RegisterRoutes(admin)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(admin)
	handler.NewAdminAuditHandler(adminAuditUC).RegisterRoutes(admin)

	return e
}
