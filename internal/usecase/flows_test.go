package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	"invitation/internal/infra/repository"
	"invitation/internal/payment"
	"invitation/internal/testutil"
	"invitation/internal/usecase"
	"invitation/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SQLite上で本物のrepositoryを使って流れを確認する

// 決まった結果を返すゲートウェイ
type stubGateway struct {
	status model.TransactionStatus
	calls  int
}

func (g *stubGateway) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	g.calls++
	res := payment.ChargeResult{
		Status:        g.status,
		TransactionID: "TXN-TEST",
		Details:       map[string]interface{}{"gateway": "stub"},
	}
	if g.status == model.TransactionStatusSuccess {
		at := testNow
		res.PaymentDate = &at
	}
	return res, nil
}

// メモリ上のキャッシュ
type mapCache struct {
	mu      sync.Mutex
	entries map[int64][]byte
	deletes int
}

func newMapCache() *mapCache { return &mapCache{entries: map[int64][]byte{}} }

func (c *mapCache) Get(ctx context.Context, id int64) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[id]
	if !ok {
		return nil, errors.New("miss")
	}
	return b, nil
}

func (c *mapCache) Set(ctx context.Context, id int64, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = payload
	return nil
}

func (c *mapCache) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes++
	return nil
}

type flowEnv struct {
	db        *gorm.DB
	gateway   *stubGateway
	cache     *mapCache
	orders    *usecase.OrderUsecase
	payments  *usecase.PaymentUsecase
	catalog   *usecase.CatalogUsecase
	templates *usecase.AdminTemplateUsecase
	adminOrd  *usecase.AdminOrderUsecase
	audit     *usecase.AdminAuditUsecase
	dashboard *usecase.DashboardUsecase
}

func setupFlow(t *testing.T) *flowEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	txm := repository.NewTxManagerGorm(db)
	users := repository.NewUserGormRepository(db)
	templates := repository.NewTemplateGormRepository(db)
	categories := repository.NewCategoryGormRepository(db)
	orders := repository.NewOrderGormRepository(db)
	auditLogs := repository.NewAuditLogGormRepository(db)

	gw := &stubGateway{status: model.TransactionStatusSuccess}
	cache := newMapCache()

	return &flowEnv{
		db:      db,
		gateway: gw,
		cache:   cache,
		orders: usecase.NewOrderUsecase(txm, orders, validator.NewOrderValidator(fixedClock{now: testNow}),
			usecase.RandomOrderNumber{}, fixedClock{now: testNow}, nil),
		payments:  usecase.NewPaymentUsecase(txm, orders, gw, nil),
		catalog:   usecase.NewCatalogUsecase(templates, categories, cache, nil),
		templates: usecase.NewAdminTemplateUsecase(txm, templates, orders, validator.NewTemplateValidator(categories), cache, nil),
		adminOrd:  usecase.NewAdminOrderUsecase(txm, orders),
		audit:     usecase.NewAdminAuditUsecase(auditLogs),
		dashboard: usecase.NewDashboardUsecase(users, templates, orders),
	}
}

func actorOf(u model.User) policy.Actor {
	return policy.Actor{UserID: u.ID, Role: u.Role}
}

func validOrderInput(templateID int64) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		TemplateID: templateID,
		WeddingDetails: model.WeddingDetails{
			BrideName:    "Hanako",
			GroomName:    "Taro",
			WeddingDate:  "2027-06-01",
			Venue:        "Grand Hall",
			CeremonyTime: "11:00",
		},
		Notes: "  gold foil please  ",
	}
}

func templateInput(tpl model.Template, price string) usecase.TemplateInput {
	p := model.MustMoney(price)
	return usecase.TemplateInput{
		Title:      tpl.Title,
		Price:      &p,
		CategoryID: tpl.CategoryID,
		Status:     tpl.Status,
	}
}

func reloadTemplate(t *testing.T, db *gorm.DB, id int64) model.Template {
	t.Helper()
	var tpl model.Template
	require.NoError(t, db.First(&tpl, id).Error)
	return tpl
}

// =====================
// 注文 → 支払い
// =====================

func TestFlow_OrderSnapshotsPriceAndCountsOrders(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	first, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)
	assert.Regexp(t, `^WED-20261014-[A-Z0-9]{6}$`, first.OrderNumber)
	assert.True(t, first.TotalPrice.Equal(model.MustMoney("50.00")))
	assert.Equal(t, model.OrderStatusPending, first.Status)
	assert.Equal(t, model.PaymentStatusPending, first.PaymentStatus)
	assert.Equal(t, "gold foil please", first.Notes)
	assert.Equal(t, "Grand Hall", first.WeddingDetails.Data().Venue)
	assert.Equal(t, int64(1), reloadTemplate(t, env.db, tpl.ID).OrderCount)

	// 値上げしても既存注文は変わらない
	_, err = env.templates.Update(ctx, actorOf(admin), tpl.ID, templateInput(tpl, "75.00"))
	require.NoError(t, err)

	second, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)
	assert.True(t, second.TotalPrice.Equal(model.MustMoney("75.00")))

	old, err := env.orders.Get(ctx, actorOf(buyer), first.ID)
	require.NoError(t, err)
	assert.True(t, old.TotalPrice.Equal(model.MustMoney("50.00")))
	assert.Equal(t, int64(2), reloadTemplate(t, env.db, tpl.ID).OrderCount)
}

func TestFlow_OrderWithPastWeddingDateIsRejected(t *testing.T) {
	env := setupFlow(t)
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	in := validOrderInput(tpl.ID)
	in.WeddingDetails.WeddingDate = "2026-10-14"
	_, err := env.orders.Create(context.Background(), buyer.ID, in)

	ve, ok := usecase.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Wedding date must be in the future.", ve.Fields["wedding_details.wedding_date"])
	assert.Equal(t, int64(0), reloadTemplate(t, env.db, tpl.ID).OrderCount)
}

func TestFlow_CustomerCannotSeeOthersOrders(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	other := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	o, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)

	_, err = env.orders.Get(ctx, actorOf(other), o.ID)
	requireStatus(t, err, http.StatusForbidden)

	list, err := env.orders.List(ctx, other.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, list.Orders)
	assert.Equal(t, int64(0), list.Pagination.Total)

	list, err = env.orders.List(ctx, buyer.ID, 1)
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, 10, list.Pagination.Limit)
}

func TestFlow_SuccessfulPaymentMarksOrderPaidOnce(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	o, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)

	out, err := env.payments.Pay(ctx, actorOf(buyer), o.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodCreditCard})
	require.NoError(t, err)
	assert.Equal(t, usecase.PaymentResultSuccess, out.Result)
	assert.Equal(t, "Payment successful! Your order is now being processed.", out.Message)
	assert.True(t, out.Payment.Amount.Equal(model.MustMoney("50.00")))
	assert.Equal(t, model.PaymentStatusPaid, out.Order.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcess, out.Order.Status)
	require.Len(t, out.Order.Payments, 1)
	assert.Equal(t, model.TransactionStatusSuccess, out.Order.Payments[0].Status)

	_, err = env.payments.Pay(ctx, actorOf(buyer), o.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodEWallet})
	requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, 1, env.gateway.calls)

	var n int64
	require.NoError(t, env.db.Model(&model.Payment{}).Where("order_id = ?", o.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestFlow_FailedPaymentKeepsOrderPendingAndCanRetry(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	o, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)

	env.gateway.status = model.TransactionStatusFailed
	out, err := env.payments.Pay(ctx, actorOf(buyer), o.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodCreditCard})
	require.NoError(t, err)
	assert.Equal(t, usecase.PaymentResultFailed, out.Result)
	assert.Nil(t, out.Payment.PaymentDate)
	assert.Equal(t, model.PaymentStatusPending, out.Order.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, out.Order.Status)

	env.gateway.status = model.TransactionStatusSuccess
	out, err = env.payments.Pay(ctx, actorOf(buyer), o.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodBankTransfer})
	require.NoError(t, err)
	assert.Equal(t, usecase.PaymentResultSuccess, out.Result)
	assert.Len(t, out.Order.Payments, 2)
	assert.Equal(t, model.PaymentStatusPaid, out.Order.PaymentStatus)
}

// Charge中に別の試行が先にpaidにしてしまうゲートウェイ
type racingGateway struct {
	db *gorm.DB
}

func (g racingGateway) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	err := g.db.Model(&model.Order{}).Where("id = ?", req.OrderID).Updates(map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
		"status":         model.OrderStatusProcess,
	}).Error
	if err != nil {
		return payment.ChargeResult{}, err
	}
	at := testNow
	return payment.ChargeResult{Status: model.TransactionStatusSuccess, TransactionID: "TXN-RACE", PaymentDate: &at}, nil
}

func TestFlow_LostPaymentRaceStillRecordsCharge(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")

	o, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)

	orders := repository.NewOrderGormRepository(env.db)
	uc := usecase.NewPaymentUsecase(repository.NewTxManagerGorm(env.db), orders, racingGateway{db: env.db}, nil)

	_, err = uc.Pay(ctx, actorOf(buyer), o.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodCreditCard})
	requireStatus(t, err, http.StatusConflict)

	var rows []model.Payment
	require.NoError(t, env.db.Where("order_id = ?", o.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "TXN-RACE", rows[0].TransactionID)
	assert.Equal(t, model.TransactionStatusSuccess, rows[0].Status)

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcess, got.Status)
}

// =====================
// 管理: テンプレート
// =====================

func TestFlow_AdminUserCannotTouchOthersTemplates(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	rival := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	super := testutil.SeedUser(t, env.db, model.RoleSuperAdmin)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, owner.ID, cat.ID, "50.00")

	_, err := env.templates.Get(ctx, actorOf(rival), tpl.ID)
	requireStatus(t, err, http.StatusForbidden)
	_, err = env.templates.Update(ctx, actorOf(rival), tpl.ID, templateInput(tpl, "1.00"))
	requireStatus(t, err, http.StatusForbidden)
	err = env.templates.Delete(ctx, actorOf(rival), tpl.ID)
	requireStatus(t, err, http.StatusForbidden)
	assert.True(t, reloadTemplate(t, env.db, tpl.ID).Price.Equal(model.MustMoney("50.00")))

	list, err := env.templates.List(ctx, actorOf(rival), 1)
	require.NoError(t, err)
	assert.Empty(t, list.Templates)

	// super_adminは誰のものでも変えられる
	updated, err := env.templates.Update(ctx, actorOf(super), tpl.ID, templateInput(tpl, "60.00"))
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(model.MustMoney("60.00")))
	assert.Equal(t, owner.ID, updated.OwnerID)

	list, err = env.templates.List(ctx, actorOf(super), 1)
	require.NoError(t, err)
	assert.Len(t, list.Templates, 1)
}

func TestFlow_AdminTemplateCreateUpdateDeleteAreAudited(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	super := testutil.SeedUser(t, env.db, model.RoleSuperAdmin)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)

	price := model.MustMoney("120.00")
	created, err := env.templates.Create(ctx, actorOf(admin), usecase.TemplateInput{
		Title:         "  Sakura  ",
		Price:         &price,
		CategoryID:    cat.ID,
		PreviewImages: []string{"previews/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sakura", created.Title)
	assert.Equal(t, admin.ID, created.OwnerID)
	assert.Equal(t, model.TemplateStatusActive, created.Status)
	require.NotNil(t, created.Owner)
	assert.Equal(t, admin.Name, created.Owner.Name)

	_, err = env.orders.Create(ctx, buyer.ID, validOrderInput(created.ID))
	require.NoError(t, err)

	detail, err := env.templates.Get(ctx, actorOf(admin), created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Orders, 1)
	require.NotNil(t, detail.Orders[0].User)
	assert.Equal(t, buyer.Email, detail.Orders[0].User.Email)

	// statusを省略すると今の値のまま
	in := templateInput(created.Template, "130.00")
	in.Status = ""
	_, err = env.templates.Update(ctx, actorOf(admin), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateStatusActive, reloadTemplate(t, env.db, created.ID).Status)

	require.NoError(t, env.templates.Delete(ctx, actorOf(admin), created.ID))
	_, err = env.templates.Get(ctx, actorOf(admin), created.ID)
	requireStatus(t, err, http.StatusNotFound)

	var orders int64
	require.NoError(t, env.db.Model(&model.Order{}).Where("template_id = ?", created.ID).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)

	logs, err := env.audit.List(ctx, actorOf(super), usecase.AuditLogListInput{ResourceType: "template", ResourceID: &created.ID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 3)
	assert.Equal(t, model.AuditActionDeleteTemplate, logs.Logs[0].Action)
	assert.Equal(t, model.AuditActionUpdateTemplate, logs.Logs[1].Action)
	assert.Contains(t, logs.Logs[1].BeforeJSON, `"price":"120.00"`)
	assert.Contains(t, logs.Logs[1].AfterJSON, `"price":"130.00"`)
	assert.Equal(t, model.AuditActionCreateTemplate, logs.Logs[2].Action)
	assert.Equal(t, admin.ID, logs.Logs[2].ActorUserID)
}

func TestFlow_TemplateValidationErrors(t *testing.T) {
	env := setupFlow(t)
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)

	price := model.MustMoney("1000.00")
	_, err := env.templates.Create(context.Background(), actorOf(admin), usecase.TemplateInput{
		Title:      "",
		Price:      &price,
		CategoryID: 999,
	})
	ve, ok := usecase.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Template title is required.", ve.Fields["title"])
	assert.Equal(t, "Template price cannot exceed $999.99.", ve.Fields["price"])
	assert.Equal(t, "The selected category is invalid.", ve.Fields["category_id"])
}

// =====================
// 管理: 注文ステータス
// =====================

func TestFlow_AdminOrderStatusUpdate(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	rival := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	super := testutil.SeedUser(t, env.db, model.RoleSuperAdmin)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, owner.ID, cat.ID, "50.00")

	o, err := env.orders.Create(ctx, buyer.ID, validOrderInput(tpl.ID))
	require.NoError(t, err)

	_, err = env.adminOrd.UpdateStatus(ctx, actorOf(rival), o.ID, usecase.AdminUpdateOrderStatusInput{Status: "completed"})
	requireStatus(t, err, http.StatusForbidden)
	_, err = env.adminOrd.Get(ctx, actorOf(rival), o.ID)
	requireStatus(t, err, http.StatusForbidden)

	rivalList, err := env.adminOrd.List(ctx, actorOf(rival), usecase.AdminOrderListInput{})
	require.NoError(t, err)
	assert.Empty(t, rivalList.Orders)

	_, err = env.adminOrd.UpdateStatus(ctx, actorOf(owner), o.ID, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	ve, ok := usecase.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Status must be pending, process, completed, or cancelled.", ve.Fields["status"])

	got, err := env.adminOrd.UpdateStatus(ctx, actorOf(owner), o.ID, usecase.AdminUpdateOrderStatusInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, got.Status)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)

	// 同じ値は何もしない
	_, err = env.adminOrd.UpdateStatus(ctx, actorOf(owner), o.ID, usecase.AdminUpdateOrderStatusInput{Status: "completed"})
	require.NoError(t, err)

	// completed → pending も許す
	got, err = env.adminOrd.UpdateStatus(ctx, actorOf(super), o.ID, usecase.AdminUpdateOrderStatusInput{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	logs, err := env.audit.List(ctx, actorOf(super), usecase.AuditLogListInput{ResourceType: "order"})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 2)
	assert.Equal(t, `{"status":"completed"}`, logs.Logs[0].BeforeJSON)
	assert.Equal(t, `{"status":"pending"}`, logs.Logs[0].AfterJSON)
	assert.Equal(t, super.ID, logs.Logs[0].ActorUserID)

	filtered, err := env.adminOrd.List(ctx, actorOf(owner), usecase.AdminOrderListInput{Status: "pending", PaymentStatus: "pending"})
	require.NoError(t, err)
	assert.Len(t, filtered.Orders, 1)
	assert.Equal(t, 15, filtered.Pagination.Limit)

	_, err = env.adminOrd.List(ctx, actorOf(owner), usecase.AdminOrderListInput{Status: "bogus"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestFlow_AuditLogsAreSuperAdminOnly(t *testing.T) {
	env := setupFlow(t)
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	super := testutil.SeedUser(t, env.db, model.RoleSuperAdmin)

	_, err := env.audit.List(context.Background(), actorOf(admin), usecase.AuditLogListInput{})
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.audit.List(context.Background(), actorOf(super), usecase.AuditLogListInput{ResourceType: "user"})
	requireStatus(t, err, http.StatusBadRequest)
}

// =====================
// カタログ
// =====================

func TestFlow_CatalogDetailUsesCacheUntilInvalidated(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")
	sibling := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "40.00")

	out, err := env.catalog.Detail(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Title, out.Template.Title)
	require.Len(t, out.Related, 1)
	assert.Equal(t, sibling.ID, out.Related[0].ID)
	require.NotNil(t, out.Template.Owner)
	assert.Equal(t, admin.Name, out.Template.Owner.Name)

	_, cached := env.cache.entries[tpl.ID]
	assert.True(t, cached)

	// DBを直接変えてもキャッシュから返る
	require.NoError(t, env.db.Model(&model.Template{}).Where("id = ?", tpl.ID).Update("title", "Renamed").Error)
	out, err = env.catalog.Detail(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Title, out.Template.Title)

	// 管理画面から非公開にすると消えて404
	in := templateInput(tpl, "50.00")
	in.Status = model.TemplateStatusInactive
	_, err = env.templates.Update(ctx, actorOf(admin), tpl.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1, env.cache.deletes)

	_, err = env.catalog.Detail(ctx, tpl.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestFlow_CatalogDetailRelatedFollowsSiblingChanges(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	cat := testutil.SeedCategory(t, env.db)
	tpl := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "50.00")
	sibling := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "40.00")

	out, err := env.catalog.Detail(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, out.Related, 1)
	assert.Equal(t, "40.00", out.Related[0].Price.StringFixed(2))

	// tpl本体はキャッシュ済みのまま、siblingだけ値上げ
	_, err = env.templates.Update(ctx, actorOf(admin), sibling.ID, templateInput(sibling, "45.00"))
	require.NoError(t, err)
	_, stillCached := env.cache.entries[tpl.ID]
	require.True(t, stillCached)

	out, err = env.catalog.Detail(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, out.Related, 1)
	assert.Equal(t, "45.00", out.Related[0].Price.StringFixed(2))

	require.NoError(t, env.templates.Delete(ctx, actorOf(admin), sibling.ID))
	out, err = env.catalog.Detail(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Related)
}

func TestFlow_CatalogListShowsActiveByPopularity(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	quiet := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "30.00")
	popular := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "80.00")
	hidden := testutil.SeedTemplate(t, env.db, admin.ID, cat.ID, "10.00")
	require.NoError(t, env.db.Model(&model.Template{}).Where("id = ?", hidden.ID).Update("status", model.TemplateStatusInactive).Error)

	_, err := env.orders.Create(ctx, buyer.ID, validOrderInput(popular.ID))
	require.NoError(t, err)

	out, err := env.catalog.List(ctx, usecase.CatalogListInput{})
	require.NoError(t, err)
	require.Len(t, out.Templates, 2)
	assert.Equal(t, popular.ID, out.Templates[0].ID)
	assert.Equal(t, quiet.ID, out.Templates[1].ID)
	assert.Len(t, out.Categories, 1)
	assert.Equal(t, 12, out.Pagination.Limit)

	lo := model.MustMoney("50.00")
	out, err = env.catalog.List(ctx, usecase.CatalogListInput{MinPrice: &lo})
	require.NoError(t, err)
	require.Len(t, out.Templates, 1)
	assert.Equal(t, popular.ID, out.Templates[0].ID)
	require.NotNil(t, out.Filters.MinPrice)

	neg := model.MustMoney("-1")
	_, err = env.catalog.List(ctx, usecase.CatalogListInput{MaxPrice: &neg})
	requireStatus(t, err, http.StatusBadRequest)
}

// =====================
// ダッシュボード
// =====================

func TestFlow_DashboardPerRole(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	rival := testutil.SeedUser(t, env.db, model.RoleAdminUser)
	super := testutil.SeedUser(t, env.db, model.RoleSuperAdmin)
	buyer := testutil.SeedUser(t, env.db, model.RoleUser)
	cat := testutil.SeedCategory(t, env.db)
	mine := testutil.SeedTemplate(t, env.db, owner.ID, cat.ID, "50.00")
	theirs := testutil.SeedTemplate(t, env.db, rival.ID, cat.ID, "20.00")

	paid, err := env.orders.Create(ctx, buyer.ID, validOrderInput(mine.ID))
	require.NoError(t, err)
	_, err = env.payments.Pay(ctx, actorOf(buyer), paid.ID, usecase.PayInput{PaymentMethod: model.PaymentMethodCreditCard})
	require.NoError(t, err)
	_, err = env.orders.Create(ctx, buyer.ID, validOrderInput(theirs.ID))
	require.NoError(t, err)

	s, err := env.dashboard.Get(ctx, actorOf(super))
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, s.Role)
	assert.Equal(t, int64(4), s.Stats["total_users"])
	assert.Equal(t, int64(2), s.Stats["total_admin_users"])
	assert.Equal(t, int64(2), s.Stats["total_templates"])
	assert.Equal(t, int64(2), s.Stats["total_orders"])
	assert.Equal(t, int64(1), s.Stats["pending_orders"])
	assert.True(t, s.Stats["total_revenue"].(model.Money).Equal(model.MustMoney("50.00")))
	assert.Len(t, s.RecentOrders, 2)
	assert.Len(t, s.PopularTemplates, 2)

	a, err := env.dashboard.Get(ctx, actorOf(owner))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Stats["my_templates"])
	assert.Equal(t, int64(1), a.Stats["active_templates"])
	assert.Equal(t, int64(1), a.Stats["total_orders"])
	assert.Equal(t, int64(0), a.Stats["pending_orders"])
	require.Len(t, a.RecentOrders, 1)
	assert.Equal(t, paid.ID, a.RecentOrders[0].ID)
	require.Len(t, a.MyTopTemplates, 1)
	assert.Nil(t, a.PopularTemplates)

	u, err := env.dashboard.Get(ctx, actorOf(buyer))
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.Stats["total_orders"])
	assert.Equal(t, int64(1), u.Stats["pending_orders"])
	assert.Equal(t, int64(0), u.Stats["completed_orders"])
	assert.True(t, u.Stats["total_spent"].(model.Money).Equal(model.MustMoney("50.00")))
	assert.Len(t, u.RecentOrders, 2)
}
