package usecase

import (
	"context"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	repo "invitation/internal/repository"
)

type DashboardUsecase struct {
	users     repo.UserRepository
	templates repo.TemplateRepository
	orders    repo.OrderRepository
}

func NewDashboardUsecase(users repo.UserRepository, templates repo.TemplateRepository, orders repo.OrderRepository) *DashboardUsecase {
	return &DashboardUsecase{users: users, templates: templates, orders: orders}
}

// ロールで中身が変わる。statsのキーもロールごと。
type DashboardOutput struct {
	Role             model.Role             `json:"role"`
	Stats            map[string]interface{} `json:"stats"`
	RecentOrders     []OrderView            `json:"recent_orders"`
	PopularTemplates []TemplateView         `json:"popular_templates,omitempty"`
	MyTopTemplates   []TemplateView         `json:"my_top_templates,omitempty"`
}

func (u *DashboardUsecase) Get(ctx context.Context, actor policy.Actor) (DashboardOutput, error) {
	var (
		out DashboardOutput
		err error
	)
	switch actor.Role {
	case model.RoleSuperAdmin:
		out, err = u.superAdmin(ctx)
	case model.RoleAdminUser:
		out, err = u.adminUser(ctx, actor.UserID)
	default:
		out, err = u.customer(ctx, actor.UserID)
	}
	if err != nil {
		return DashboardOutput{}, errDB(err)
	}
	out.Role = actor.Role
	return out, nil
}

func (u *DashboardUsecase) superAdmin(ctx context.Context) (DashboardOutput, error) {
	totalUsers, err := u.users.Count(ctx, nil)
	if err != nil {
		return DashboardOutput{}, err
	}
	adminRole := model.RoleAdminUser
	totalAdmins, err := u.users.Count(ctx, &adminRole)
	if err != nil {
		return DashboardOutput{}, err
	}
	totalTemplates, err := u.templates.Count(ctx, repo.TemplateListQuery{})
	if err != nil {
		return DashboardOutput{}, err
	}

	all := repo.OrderListFilter{}
	totalOrders, pendingOrders, revenue, err := u.orderStats(ctx, all)
	if err != nil {
		return DashboardOutput{}, err
	}

	recent, _, err := u.orders.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10})
	if err != nil {
		return DashboardOutput{}, err
	}
	popular, _, err := u.templates.List(ctx, repo.TemplateListQuery{Page: 1, Limit: 5, Sort: repo.TemplateSortPopular})
	if err != nil {
		return DashboardOutput{}, err
	}

	return DashboardOutput{
		Stats: map[string]interface{}{
			"total_users":       totalUsers,
			"total_admin_users": totalAdmins,
			"total_templates":   totalTemplates,
			"total_orders":      totalOrders,
			"total_revenue":     revenue,
			"pending_orders":    pendingOrders,
		},
		RecentOrders:     toOrderViews(recent),
		PopularTemplates: toTemplateViews(popular),
	}, nil
}

// admin_userは自分のテンプレートの範囲だけ
func (u *DashboardUsecase) adminUser(ctx context.Context, userID int64) (DashboardOutput, error) {
	mine := repo.TemplateListQuery{OwnerID: &userID}
	myTemplates, err := u.templates.Count(ctx, mine)
	if err != nil {
		return DashboardOutput{}, err
	}
	activeTemplates, err := u.templates.Count(ctx, repo.TemplateListQuery{OwnerID: &userID, OnlyActive: true})
	if err != nil {
		return DashboardOutput{}, err
	}

	scope := repo.OrderListFilter{TemplateOwnerID: &userID}
	totalOrders, pendingOrders, revenue, err := u.orderStats(ctx, scope)
	if err != nil {
		return DashboardOutput{}, err
	}

	recent, _, err := u.orders.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10, TemplateOwnerID: &userID})
	if err != nil {
		return DashboardOutput{}, err
	}
	top, _, err := u.templates.List(ctx, repo.TemplateListQuery{Page: 1, Limit: 5, OwnerID: &userID, Sort: repo.TemplateSortPopular})
	if err != nil {
		return DashboardOutput{}, err
	}

	return DashboardOutput{
		Stats: map[string]interface{}{
			"my_templates":     myTemplates,
			"active_templates": activeTemplates,
			"total_orders":     totalOrders,
			"pending_orders":   pendingOrders,
			"total_revenue":    revenue,
		},
		RecentOrders:   toOrderViews(recent),
		MyTopTemplates: toTemplateViews(top),
	}, nil
}

func (u *DashboardUsecase) customer(ctx context.Context, userID int64) (DashboardOutput, error) {
	scope := repo.OrderListFilter{UserID: &userID}
	totalOrders, pendingOrders, spent, err := u.orderStats(ctx, scope)
	if err != nil {
		return DashboardOutput{}, err
	}

	completed := scope
	completed.Status = model.OrderStatusCompleted
	completedOrders, err := u.orders.Count(ctx, completed)
	if err != nil {
		return DashboardOutput{}, err
	}

	recent, _, err := u.orders.List(ctx, repo.OrderListFilter{Page: 1, Limit: 5, UserID: &userID})
	if err != nil {
		return DashboardOutput{}, err
	}

	return DashboardOutput{
		Stats: map[string]interface{}{
			"total_orders":     totalOrders,
			"pending_orders":   pendingOrders,
			"completed_orders": completedOrders,
			"total_spent":      spent,
		},
		RecentOrders: toOrderViews(recent),
	}, nil
}

// 件数・pending件数・支払い済み合計
func (u *DashboardUsecase) orderStats(ctx context.Context, scope repo.OrderListFilter) (int64, int64, model.Money, error) {
	total, err := u.orders.Count(ctx, scope)
	if err != nil {
		return 0, 0, model.Money{}, err
	}

	pending := scope
	pending.Status = model.OrderStatusPending
	pendingCount, err := u.orders.Count(ctx, pending)
	if err != nil {
		return 0, 0, model.Money{}, err
	}

	paid := scope
	paid.PaymentStatus = model.PaymentStatusPaid
	sum, err := u.orders.SumTotalPrice(ctx, paid)
	if err != nil {
		return 0, 0, model.Money{}, err
	}
	return total, pendingCount, sum, nil
}
