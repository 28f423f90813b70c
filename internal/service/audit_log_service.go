package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

type auditLogRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.AuditLogFilter) ([]models.AuditLogDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.AuditLogDetail, error)
}

// AuditLogService exposes the append-only audit trail for reading.
type AuditLogService struct {
	repo   auditLogRepository
	logger *zap.Logger
}

// NewAuditLogService constructs the service.
func NewAuditLogService(repo auditLogRepository, logger *zap.Logger) *AuditLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogService{repo: repo, logger: logger}
}

// List returns audit entries.
func (s *AuditLogService) List(ctx context.Context, p *models.Principal, filter models.AuditLogFilter) ([]models.AuditLogDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "audit log", "list audit logs")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one audit entry.
func (s *AuditLogService) Get(ctx context.Context, p *models.Principal, id string) (*models.AuditLogDetail, error) {
	entry, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "audit log", "load audit log")
	}
	return entry, nil
}
