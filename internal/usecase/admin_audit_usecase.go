package usecase

import (
	"context"
	"net/http"

	"invitation/internal/domain/model"
	"invitation/internal/domain/policy"
	repo "invitation/internal/repository"
)

const auditLogsPerPage = 50

// 監査ログの閲覧（super_adminのみ）
type AdminAuditUsecase struct {
	logs repo.AuditLogRepository
}

func NewAdminAuditUsecase(logs repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{logs: logs}
}

type AuditLogListInput struct {
	Page         int
	ResourceType string
	ResourceID   *int64
}

type AuditLogListOutput struct {
	Logs       []model.AuditLog `json:"logs"`
	Pagination Pagination       `json:"pagination"`
}

func (u *AdminAuditUsecase) List(ctx context.Context, actor policy.Actor, in AuditLogListInput) (AuditLogListOutput, error) {
	if actor.Role != model.RoleSuperAdmin {
		return AuditLogListOutput{}, errForbidden()
	}

	rt := model.AuditResourceType(in.ResourceType)
	switch rt {
	case "", model.AuditResourceTemplate, model.AuditResourceOrder:
	default:
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}

	page := normalizePage(in.Page)
	logs, total, err := u.logs.List(ctx, repo.AuditLogFilter{
		Page:         page,
		Limit:        auditLogsPerPage,
		ResourceType: rt,
		ResourceID:   in.ResourceID,
	})
	if err != nil {
		return AuditLogListOutput{}, errDB(err)
	}
	return AuditLogListOutput{Logs: logs, Pagination: newPagination(page, auditLogsPerPage, total)}, nil
}
