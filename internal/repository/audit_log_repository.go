package repository

import (
	"context"

	"invitation/internal/domain/model"
)

// 監査ログの絞り込み条件。空の項目は絞らない。
type AuditLogFilter struct {
	Page  int
	Limit int

	ActorUserID  *int64
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   *int64
}

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//監査ログを新しい順で一覧取得。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
