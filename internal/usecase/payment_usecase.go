package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	"invitation/internal/payment"
	repo "invitation/internal/repository"

	"gorm.io/datatypes"
)

const (
	PaymentResultSuccess = "success"
	PaymentResultFailed  = "failed"

	paymentSuccessMessage = "Payment successful! Your order is now being processed."
	paymentFailedMessage  = "Payment failed. Please try again or use a different payment method."
)

type PaymentUsecase struct {
	tx      repo.TransactionManager
	orders  repo.OrderRepository
	gateway payment.Gateway
	logger  *slog.Logger
}

func NewPaymentUsecase(tx repo.TransactionManager, orders repo.OrderRepository, gateway payment.Gateway, logger *slog.Logger) *PaymentUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentUsecase{tx: tx, orders: orders, gateway: gateway, logger: logger}
}

type PayInput struct {
	PaymentMethod model.PaymentMethod
}

// 決済の結果。断られてもerrorではなくResult=failedで返す。
type PaymentOutcome struct {
	Result  string        `json:"result"`
	Message string        `json:"message"`
	Payment model.Payment `json:"payment"`
	Order   OrderView     `json:"order"`
}

// 支払い試行。失敗は何度でもやり直せる。支払い済みなら409。
func (u *PaymentUsecase) Pay(ctx context.Context, actor policy.Actor, orderID int64, in PayInput) (PaymentOutcome, error) {
	if !in.PaymentMethod.Selectable() {
		ve := NewValidationError()
		ve.Add("payment_method", "Please select a valid payment method.")
		return PaymentOutcome{}, ve
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return PaymentOutcome{}, errNotFound()
	}
	if err != nil {
		return PaymentOutcome{}, errDB(err)
	}
	if !policy.OwnsOrder(actor, o) {
		return PaymentOutcome{}, errForbidden()
	}
	if o.IsPaid() {
		return PaymentOutcome{}, NewHTTPError(http.StatusConflict, "order already paid")
	}

	// 外部呼び出しはTxの外で
	res, err := u.gateway.Charge(ctx, payment.ChargeRequest{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Amount:      o.TotalPrice,
		Method:      in.PaymentMethod,
	})
	if err != nil {
		return PaymentOutcome{}, &HTTPError{Status: http.StatusServiceUnavailable, Message: "payment gateway unavailable", Cause: err}
	}

	p := model.Payment{
		OrderID:        o.ID,
		PaymentMethod:  in.PaymentMethod,
		Amount:         o.TotalPrice,
		PaymentDate:    res.PaymentDate,
		Status:         res.Status,
		TransactionID:  res.TransactionID,
		PaymentDetails: datatypes.JSONMap(res.Details),
	}

	// 別の試行が先にpaidにしていても、課金済みの記録は残す
	alreadyPaid := false
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Payments().Create(ctx, &p); err != nil {
			return errDB(err)
		}
		if !res.Succeeded() {
			return nil
		}

		// paid/processへの遷移は1本のUPDATEで
		ok, err := r.Orders().MarkPaid(ctx, o.ID)
		if err != nil {
			return errDB(err)
		}
		alreadyPaid = !ok
		return nil
	})
	if err != nil {
		return PaymentOutcome{}, err
	}
	if alreadyPaid {
		u.logger.WarnContext(ctx, "duplicate successful payment recorded",
			"order_id", o.ID, "payment_id", p.ID, "transaction_id", p.TransactionID)
		return PaymentOutcome{}, NewHTTPError(http.StatusConflict, "order already paid")
	}

	out := PaymentOutcome{Result: PaymentResultFailed, Message: paymentFailedMessage, Payment: p}
	if res.Succeeded() {
		out.Result = PaymentResultSuccess
		out.Message = paymentSuccessMessage
	}
	u.logger.InfoContext(ctx, "payment attempted",
		"order_id", o.ID, "result", out.Result, "transaction_id", p.TransactionID)

	updated, err := u.orders.FindByID(ctx, o.ID)
	if err != nil {
		return PaymentOutcome{}, errDB(err)
	}
	out.Order = toOrderView(updated)
	return out, nil
}
