package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	repo "invitation/internal/repository"
)

const (
	adminTemplatesPerPage  = 10
	templateOrdersMaxShown = 100
)

type AdminTemplateUsecase struct {
	tx        repo.TransactionManager
	templates repo.TemplateRepository
	orders    repo.OrderRepository
	validator TemplateValidator
	cache     TemplateDetailCache
	logger    *slog.Logger
}

func NewAdminTemplateUsecase(
	tx repo.TransactionManager,
	templates repo.TemplateRepository,
	orders repo.OrderRepository,
	validator TemplateValidator,
	cache TemplateDetailCache,
	logger *slog.Logger,
) *AdminTemplateUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminTemplateUsecase{
		tx:        tx,
		templates: templates,
		orders:    orders,
		validator: validator,
		cache:     cache,
		logger:    logger,
	}
}

// 作成・更新の入力。Priceがnilなら未入力。
type TemplateInput struct {
	Title         string
	Description   string
	Price         *model.Money
	CategoryID    int64
	Thumbnail     string
	PreviewImages []string
	Status        model.TemplateStatus
}

type AdminTemplateListOutput struct {
	Templates  []TemplateView `json:"templates"`
	Pagination Pagination     `json:"pagination"`
}

type AdminTemplateDetailOutput struct {
	Template TemplateView `json:"template"`
	Orders   []OrderView  `json:"orders"`
}

// 監査ログに残すテンプレートの項目
type templateSnapshot struct {
	Title      string               `json:"title"`
	Price      model.Money          `json:"price"`
	CategoryID int64                `json:"category_id"`
	Status     model.TemplateStatus `json:"status"`
}

func snapshotJSON(t model.Template) string {
	b, _ := json.Marshal(templateSnapshot{Title: t.Title, Price: t.Price, CategoryID: t.CategoryID, Status: t.Status})
	return string(b)
}

// super_adminは全件、admin_userは自分のものだけ
func (u *AdminTemplateUsecase) List(ctx context.Context, actor policy.Actor, page int) (AdminTemplateListOutput, error) {
	page = normalizePage(page)
	q := repo.TemplateListQuery{Page: page, Limit: adminTemplatesPerPage, Sort: repo.TemplateSortNewest}
	if actor.Role != model.RoleSuperAdmin {
		q.OwnerID = &actor.UserID
	}

	items, total, err := u.templates.List(ctx, q)
	if err != nil {
		return AdminTemplateListOutput{}, errDB(err)
	}
	return AdminTemplateListOutput{
		Templates:  toTemplateViews(items),
		Pagination: newPagination(page, adminTemplatesPerPage, total),
	}, nil
}

func (u *AdminTemplateUsecase) Create(ctx context.Context, actor policy.Actor, in TemplateInput) (TemplateView, error) {
	in = normalizeTemplateInput(in)
	if err := u.validate(ctx, in); err != nil {
		return TemplateView{}, err
	}

	t := model.Template{OwnerID: actor.UserID}
	applyTemplateInput(&t, in)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Templates().Create(ctx, &t); err != nil {
			return errDB(err)
		}
		return u.audit(ctx, r, actor, model.AuditActionCreateTemplate, t.ID, "", snapshotJSON(t))
	})
	if err != nil {
		return TemplateView{}, err
	}

	created, err := u.templates.FindByID(ctx, t.ID)
	if err != nil {
		return TemplateView{}, errDB(err)
	}
	return toTemplateView(created), nil
}

// 注文一覧（購入者名つき）も返す
func (u *AdminTemplateUsecase) Get(ctx context.Context, actor policy.Actor, templateID int64) (AdminTemplateDetailOutput, error) {
	t, err := u.load(ctx, actor, templateID, false)
	if err != nil {
		return AdminTemplateDetailOutput{}, err
	}

	orders, _, err := u.orders.List(ctx, repo.OrderListFilter{
		Page:       1,
		Limit:      templateOrdersMaxShown,
		TemplateID: &t.ID,
	})
	if err != nil {
		return AdminTemplateDetailOutput{}, errDB(err)
	}
	return AdminTemplateDetailOutput{
		Template: toTemplateView(t),
		Orders:   toOrderViews(orders),
	}, nil
}

// 価格を変えても既存注文のtotal_priceは変わらない
func (u *AdminTemplateUsecase) Update(ctx context.Context, actor policy.Actor, templateID int64, in TemplateInput) (TemplateView, error) {
	before, err := u.load(ctx, actor, templateID, true)
	if err != nil {
		return TemplateView{}, err
	}

	// statusを省略したら今のまま
	if in.Status == "" {
		in.Status = before.Status
	}
	in = normalizeTemplateInput(in)
	if err := u.validate(ctx, in); err != nil {
		return TemplateView{}, err
	}

	after := before
	after.Category = nil
	after.Owner = nil
	applyTemplateInput(&after, in)

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Templates().Update(ctx, after); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB(err)
		}
		return u.audit(ctx, r, actor, model.AuditActionUpdateTemplate, templateID, snapshotJSON(before), snapshotJSON(after))
	})
	if err != nil {
		return TemplateView{}, err
	}
	u.invalidate(ctx, templateID)

	updated, err := u.templates.FindByID(ctx, templateID)
	if err != nil {
		return TemplateView{}, errDB(err)
	}
	return toTemplateView(updated), nil
}

// 注文・決済もまとめて消える
func (u *AdminTemplateUsecase) Delete(ctx context.Context, actor policy.Actor, templateID int64) error {
	before, err := u.load(ctx, actor, templateID, true)
	if err != nil {
		return err
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Templates().Delete(ctx, templateID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB(err)
		}
		return u.audit(ctx, r, actor, model.AuditActionDeleteTemplate, templateID, snapshotJSON(before), "")
	})
	if err != nil {
		return err
	}
	u.invalidate(ctx, templateID)
	return nil
}

// 取得して権限を見る。ownerはDBの値で判定する
func (u *AdminTemplateUsecase) load(ctx context.Context, actor policy.Actor, templateID int64, write bool) (model.Template, error) {
	t, err := u.templates.FindByID(ctx, templateID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Template{}, errNotFound()
	}
	if err != nil {
		return model.Template{}, errDB(err)
	}

	caps := policy.ForTemplate(actor, t)
	if !caps.Read || (write && !caps.Write) {
		return model.Template{}, errForbidden()
	}
	return t, nil
}

func (u *AdminTemplateUsecase) validate(ctx context.Context, in TemplateInput) error {
	if err := u.validator.ValidateTemplate(ctx, in); err != nil {
		if _, ok := AsValidationError(err); ok {
			return err
		}
		return errDB(err)
	}
	return nil
}

func (u *AdminTemplateUsecase) audit(ctx context.Context, r repo.TxRepos, actor policy.Actor, action model.AuditAction, id int64, before, after string) error {
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: model.AuditResourceTemplate,
		ResourceID:   id,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    time.Now(),
	}); err != nil {
		return errDB(err)
	}
	return nil
}

// キャッシュ削除の失敗はTTLで消えるのでログだけ
func (u *AdminTemplateUsecase) invalidate(ctx context.Context, templateID int64) {
	if err := u.cache.Delete(ctx, templateID); err != nil {
		u.logger.WarnContext(ctx, "catalog cache invalidate failed", "template_id", templateID, "err", err)
	}
}

func normalizeTemplateInput(in TemplateInput) TemplateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Thumbnail = strings.TrimSpace(in.Thumbnail)
	if in.Status == "" {
		in.Status = model.TemplateStatusActive
	}
	if in.PreviewImages == nil {
		in.PreviewImages = []string{}
	}
	return in
}

func applyTemplateInput(t *model.Template, in TemplateInput) {
	t.Title = in.Title
	t.Description = in.Description
	if in.Price != nil {
		t.Price = model.NewMoney(in.Price.Decimal)
	}
	t.CategoryID = in.CategoryID
	t.Thumbnail = in.Thumbnail
	t.PreviewImages = in.PreviewImages
	t.Status = in.Status
}
