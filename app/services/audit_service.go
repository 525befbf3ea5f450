package services

import (
	"context"
	"strconv"
	"time"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type AuditService struct {
	settings *SettingService
	now      func() time.Time
}

func NewAuditService() *AuditService {
	return &AuditService{settings: NewSettingService(), now: time.Now}
}

type AuditFilter struct {
	UserID     uint
	Action     string
	EntityType string
}

func (s *AuditService) List(ctx context.Context, f AuditFilter, p Page) ([]models.AuditLog, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.AuditLog{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	page, limit := p.normalized()
	var out []models.AuditLog
	pg, err := q.Order("created_at DESC, id DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

// RetentionDays prefers the audit_retention_days setting over
// AUDIT_RETENTION_DAYS. Zero or less keeps everything.
func (s *AuditService) RetentionDays(ctx context.Context) int {
	if v, ok := s.settings.Value(ctx, "audit_retention_days"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return config.Int("AUDIT_RETENTION_DAYS", 180)
}

// Prune deletes entries older than the retention window.
func (s *AuditService) Prune(ctx context.Context) (int64, error) {
	days := s.RetentionDays(ctx)
	if days <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -days)
	n, err := orm.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if err != nil {
		return 0, err
	}
	logger.Info("audit log pruned", "deleted", n, "older_than_days", days)
	return n, nil
}
