// Package policy は「誰がどのテンプレート/注文を読めるか・変更できるか」を1か所で決める。
// 所有者はリクエストではなく、必ずDBから読んだリソースで判定する。
package policy

import "invitation/internal/domain/model"

// 操作している人
type Actor struct {
	UserID int64
	Role   model.Role
}

// リソースに対してできること
type Capabilities struct {
	Read  bool
	Write bool
}

var (
	none      = Capabilities{}
	readOnly  = Capabilities{Read: true}
	readWrite = Capabilities{Read: true, Write: true}
)

// テンプレートへの権限
//   - super_admin: 全部
//   - admin_user: 自分がownerのものだけ
//   - user: activeなものを読むだけ
func ForTemplate(a Actor, t model.Template) Capabilities {
	switch a.Role {
	case model.RoleSuperAdmin:
		return readWrite
	case model.RoleAdminUser:
		if a.UserID > 0 && t.OwnerID == a.UserID {
			return readWrite
		}
		return none
	case model.RoleUser:
		if t.IsActive() {
			return readOnly
		}
		return none
	default:
		return none
	}
}

// 注文への権限。templateOwnerIDは注文のテンプレートのowner_id（DBから取ったもの）。
//   - super_admin: 全部
//   - admin_user: 自分のテンプレートの注文だけ
//   - user: 自分の注文だけ
func ForOrder(a Actor, o model.Order, templateOwnerID int64) Capabilities {
	switch a.Role {
	case model.RoleSuperAdmin:
		return readWrite
	case model.RoleAdminUser:
		if a.UserID > 0 && templateOwnerID == a.UserID {
			return readWrite
		}
		return none
	case model.RoleUser:
		if OwnsOrder(a, o) {
			return readWrite
		}
		return none
	default:
		return none
	}
}

// 注文者本人か（ロールに関係なく、購入者としての操作に使う）
func OwnsOrder(a Actor, o model.Order) bool {
	return a.UserID > 0 && o.UserID == a.UserID
}
