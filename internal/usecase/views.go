package usecase

import "invitation/internal/domain/model"

// レスポンス用の形。Userをそのまま出すとroleやtoken_versionまで出るので絞る。

type OwnerView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CustomerView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// model.TemplateのOwnerだけ差し替える（外側のフィールドが優先される）
type TemplateView struct {
	model.Template
	Owner *OwnerView `json:"owner,omitempty"`
}

type OrderView struct {
	model.Order
	User     *CustomerView `json:"user,omitempty"`
	Template *TemplateView `json:"template,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func toTemplateView(t model.Template) TemplateView {
	v := TemplateView{Template: t}
	if t.Owner != nil {
		v.Owner = &OwnerView{ID: t.Owner.ID, Name: t.Owner.Name}
	}
	v.Template.Owner = nil
	return v
}

func toTemplateViews(items []model.Template) []TemplateView {
	out := make([]TemplateView, 0, len(items))
	for _, t := range items {
		out = append(out, toTemplateView(t))
	}
	return out
}

func toOrderView(o model.Order) OrderView {
	v := OrderView{Order: o}
	if o.User != nil {
		v.User = &CustomerView{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	if o.Template != nil {
		tv := toTemplateView(*o.Template)
		v.Template = &tv
	}
	v.Order.User = nil
	v.Order.Template = nil
	if v.Order.Payments == nil {
		v.Order.Payments = []model.Payment{}
	}
	return v
}

func toOrderViews(items []model.Order) []OrderView {
	out := make([]OrderView, 0, len(items))
	for _, o := range items {
		out = append(out, toOrderView(o))
	}
	return out
}

// page < 1 は1ページ目
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
