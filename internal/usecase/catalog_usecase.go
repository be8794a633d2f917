package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"invitation/internal/domain/model"
	repo "invitation/internal/repository"
)

const (
	catalogPerPage      = 12
	relatedTemplatesMax = 4
)

// 公開カタログ（ログイン不要）
type CatalogUsecase struct {
	templates  repo.TemplateRepository
	categories repo.CategoryRepository
	cache      TemplateDetailCache
	logger     *slog.Logger
}

func NewCatalogUsecase(
	templates repo.TemplateRepository,
	categories repo.CategoryRepository,
	cache TemplateDetailCache,
	logger *slog.Logger,
) *CatalogUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogUsecase{templates: templates, categories: categories, cache: cache, logger: logger}
}

type CatalogListInput struct {
	Page       int
	CategoryID *int64
	MinPrice   *model.Money
	MaxPrice   *model.Money
	Search     string
}

// 受け取った絞り込み条件をそのまま返す
type CatalogFilters struct {
	Category *int64       `json:"category"`
	MinPrice *model.Money `json:"min_price"`
	MaxPrice *model.Money `json:"max_price"`
	Search   string       `json:"search"`
}

type CatalogListOutput struct {
	Templates  []TemplateView   `json:"templates"`
	Categories []model.Category `json:"categories"`
	Filters    CatalogFilters   `json:"filters"`
	Pagination Pagination       `json:"pagination"`
}

type TemplateDetailOutput struct {
	Template TemplateView   `json:"template"`
	Related  []TemplateView `json:"related"`
}

// activeなテンプレートを人気順で
func (u *CatalogUsecase) List(ctx context.Context, in CatalogListInput) (CatalogListOutput, error) {
	if len(in.Search) > 100 {
		return CatalogListOutput{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return CatalogListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return CatalogListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}

	page := normalizePage(in.Page)
	search := strings.TrimSpace(in.Search)

	items, total, err := u.templates.List(ctx, repo.TemplateListQuery{
		Page:       page,
		Limit:      catalogPerPage,
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		Search:     search,
		OnlyActive: true,
		Sort:       repo.TemplateSortPopular,
	})
	if err != nil {
		return CatalogListOutput{}, errDB(err)
	}

	cats, err := u.categories.ListActive(ctx)
	if err != nil {
		return CatalogListOutput{}, errDB(err)
	}

	return CatalogListOutput{
		Templates:  toTemplateViews(items),
		Categories: cats,
		Filters: CatalogFilters{
			Category: in.CategoryID,
			MinPrice: in.MinPrice,
			MaxPrice: in.MaxPrice,
			Search:   search,
		},
		Pagination: newPagination(page, catalogPerPage, total),
	}, nil
}

// 公開詳細。active以外は404。
// キャッシュするのは本体だけ。relatedは他テンプレートの更新で古くなるので毎回DBから。
func (u *CatalogUsecase) Detail(ctx context.Context, templateID int64) (TemplateDetailOutput, error) {
	view, err := u.publicTemplate(ctx, templateID)
	if err != nil {
		return TemplateDetailOutput{}, err
	}

	related, err := u.templates.ListRelated(ctx, view.Template, relatedTemplatesMax)
	if err != nil {
		return TemplateDetailOutput{}, errDB(err)
	}
	return TemplateDetailOutput{Template: view, Related: toTemplateViews(related)}, nil
}

func (u *CatalogUsecase) publicTemplate(ctx context.Context, templateID int64) (TemplateView, error) {
	if cached, err := u.cache.Get(ctx, templateID); err == nil {
		var view TemplateView
		if err := json.Unmarshal(cached, &view); err == nil {
			return view, nil
		}
		u.logger.WarnContext(ctx, "broken catalog cache entry", "template_id", templateID)
	} else {
		u.logger.DebugContext(ctx, "catalog cache miss", "template_id", templateID, "err", err)
	}

	t, err := u.templates.FindByID(ctx, templateID)
	if errors.Is(err, repo.ErrNotFound) {
		return TemplateView{}, errNotFound()
	}
	if err != nil {
		return TemplateView{}, errDB(err)
	}
	if !t.IsActive() {
		return TemplateView{}, errNotFound()
	}

	view := toTemplateView(t)
	if payload, err := json.Marshal(view); err == nil {
		if err := u.cache.Set(ctx, templateID, payload); err != nil {
			u.logger.WarnContext(ctx, "catalog cache set failed", "template_id", templateID, "err", err)
		}
	}
	return view, nil
}
