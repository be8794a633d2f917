package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	repo "invitation/internal/repository"

	"gorm.io/datatypes"
)

// 注文番号の衝突で作り直す最大回数
const maxOrderNumberAttempts = 5

const customerOrdersPerPage = 10

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	validator OrderValidator
	numbers   OrderNumberGenerator
	clock     Clock
	logger    *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	validator OrderValidator,
	numbers OrderNumberGenerator,
	clock Clock,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{tx: tx, orders: orders, validator: validator, numbers: numbers, clock: clock, logger: logger}
}

type CreateOrderInput struct {
	TemplateID     int64
	WeddingDetails model.WeddingDetails
	Notes          string
}

type OrderListOutput struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
}

// 注文作成。価格はこの時点のテンプレート価格で固定する。
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (OrderView, error) {
	if userID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateCreateOrder(ctx, in); err != nil {
		if _, ok := AsValidationError(err); ok {
			return OrderView{}, err
		}
		return OrderView{}, errDB(err)
	}

	in.Notes = strings.TrimSpace(in.Notes)

	var orderID int64
	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		orderID, err = u.createOnce(ctx, userID, in)
		if !errors.Is(err, repo.ErrDuplicate) {
			break
		}
		u.logger.WarnContext(ctx, "order number collision, retrying", "attempt", attempt)
	}
	if errors.Is(err, repo.ErrDuplicate) {
		return OrderView{}, &HTTPError{Status: http.StatusConflict, Message: "could not allocate order number", Cause: err}
	}
	if err != nil {
		return OrderView{}, err
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderView{}, errDB(err)
	}
	return toOrderView(o), nil
}

// 1回分のTx。注文INSERTとorder_count+1を同時にコミットする。
// 注文番号の重複だけはrepo.ErrDuplicateのまま返す（リトライ用）。
func (u *OrderUsecase) createOnce(ctx context.Context, userID int64, in CreateOrderInput) (int64, error) {
	var orderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		t, err := r.Templates().FindByID(ctx, in.TemplateID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB(err)
		}

		now := u.clock.Now()
		number, err := u.numbers.Next(now)
		if err != nil {
			return &HTTPError{Status: http.StatusInternalServerError, Message: "internal error", Cause: err}
		}

		order := &model.Order{
			UserID:         userID,
			TemplateID:     t.ID,
			OrderNumber:    number,
			OrderDate:      now,
			Status:         model.OrderStatusPending,
			PaymentStatus:  model.PaymentStatusPending,
			TotalPrice:     t.Price,
			WeddingDetails: datatypes.NewJSONType(in.WeddingDetails),
			Notes:          in.Notes,
		}
		if err := r.Orders().Create(ctx, order); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return err
			}
			return errDB(err)
		}

		if err := r.Templates().IncrementOrderCount(ctx, t.ID); err != nil {
			return errDB(err)
		}

		orderID = order.ID
		return nil
	})
	return orderID, err
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) List(ctx context.Context, userID int64, page int) (OrderListOutput, error) {
	page = normalizePage(page)
	items, total, err := u.orders.List(ctx, repo.OrderListFilter{
		Page:   page,
		Limit:  customerOrdersPerPage,
		UserID: &userID,
	})
	if err != nil {
		return OrderListOutput{}, errDB(err)
	}
	return OrderListOutput{
		Orders:     toOrderViews(items),
		Pagination: newPagination(page, customerOrdersPerPage, total),
	}, nil
}

// 他人の注文は403
func (u *OrderUsecase) Get(ctx context.Context, actor policy.Actor, orderID int64) (OrderView, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderView{}, errNotFound()
	}
	if err != nil {
		return OrderView{}, errDB(err)
	}
	if !policy.OwnsOrder(actor, o) {
		return OrderView{}, errForbidden()
	}
	return toOrderView(o), nil
}
