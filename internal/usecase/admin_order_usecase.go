package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	repo "invitation/internal/repository"
)

const adminOrdersPerPage = 15

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders}
}

type AdminOrderListInput struct {
	Page          int
	Status        string
	PaymentStatus string
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧。admin_userは自分のテンプレートの注文だけ
func (u *AdminOrderUsecase) List(ctx context.Context, actor policy.Actor, in AdminOrderListInput) (OrderListOutput, error) {
	f := repo.OrderListFilter{
		Page:          normalizePage(in.Page),
		Limit:         adminOrdersPerPage,
		Status:        model.OrderStatus(strings.TrimSpace(in.Status)),
		PaymentStatus: model.PaymentStatus(strings.TrimSpace(in.PaymentStatus)),
	}
	if f.Status != "" && !f.Status.Valid() {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}
	if actor.Role != model.RoleSuperAdmin {
		f.TemplateOwnerID = &actor.UserID
	}

	items, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, errDB(err)
	}
	return OrderListOutput{
		Orders:     toOrderViews(items),
		Pagination: newPagination(f.Page, adminOrdersPerPage, total),
	}, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, actor policy.Actor, orderID int64) (OrderView, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderView{}, errNotFound()
	}
	if err != nil {
		return OrderView{}, errDB(err)
	}
	if !policy.ForOrder(actor, o, templateOwnerOf(o)).Read {
		return OrderView{}, errForbidden()
	}
	return toOrderView(o), nil
}

// ステータス更新。どの状態からどの状態へも変えられる。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor policy.Actor, orderID int64, in AdminUpdateOrderStatusInput) (OrderView, error) {
	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.Valid() {
		ve := NewValidationError()
		ve.Add("status", "Status must be pending, process, completed, or cancelled.")
		return OrderView{}, ve
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB(err)
		}
		if !policy.ForOrder(actor, o, templateOwnerOf(o)).Write {
			return errForbidden()
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}

		// ステータス更新
		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB(err)
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + beforeStatus + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return errDB(err)
		}
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderView{}, errDB(err)
	}
	return toOrderView(o), nil
}

// preloadしたテンプレートのowner。テンプレートが無ければ0（誰のものでもない）
func templateOwnerOf(o model.Order) int64 {
	if o.Template == nil {
		return 0
	}
	return o.Template.OwnerID
}
