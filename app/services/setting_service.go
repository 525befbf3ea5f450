package services

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/crypt"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

const publicSettingsKey = "settings:public"

// byKey quotes the column, which is a reserved word on MySQL.
var byKey = clause.OrderByColumn{Column: clause.Column{Name: "key"}}

// SettingService stores key/value system settings. Secret values are
// sealed at rest and never leave the service in clear.
type SettingService struct {
	box func() (*crypt.Box, error)
}

func NewSettingService() *SettingService { return &SettingService{box: crypt.Default} }

// Public returns the public settings as a key → value map.
func (s *SettingService) Public(ctx context.Context) (map[string]string, error) {
	return cache.Remember(publicSettingsKey, cache.DefaultTTL(), func() (map[string]string, error) {
		var rows []models.SystemSetting
		err := orm.WithContext(ctx).
			Where("is_public = ? AND is_secret = ?", true, false).
			Order(byKey).
			Get(&rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Key] = r.Value
		}
		return out, nil
	})
}

// List is the admin view; secret values come back masked.
func (s *SettingService) List(ctx context.Context) ([]models.SystemSetting, error) {
	var rows []models.SystemSetting
	if err := orm.WithContext(ctx).Order(byKey).Get(&rows); err != nil {
		return nil, apperr.Internal(err)
	}
	for i := range rows {
		if rows[i].IsSecret {
			rows[i].Value = s.masked(ctx, rows[i].Value)
		}
	}
	return rows, nil
}

// Value reads one setting in clear; secrets are opened. ok is false when
// the key is absent or cannot be decrypted.
func (s *SettingService) Value(ctx context.Context, key string) (string, bool) {
	var row models.SystemSetting
	if err := orm.WithContext(ctx).Where(map[string]any{"key": key}).First(&row); err != nil {
		if !isMissing(err) {
			logger.WithCtx(ctx).Warn("setting read failed", "key", key, "error", err)
		}
		return "", false
	}
	if !row.IsSecret {
		return row.Value, true
	}
	plain, err := s.open(row.Value)
	if err != nil {
		logger.WithCtx(ctx).Error("setting decrypt failed", "key", key, "error", err)
		return "", false
	}
	return plain, true
}

type SettingInput struct {
	Value       string `json:"value"       validate:"required,max=10000"`
	Description string `json:"description" validate:"nullable,max=255"`
	IsPublic    bool   `json:"isPublic"`
	IsSecret    bool   `json:"isSecret"`
}

// Upsert creates or replaces key. Only a super admin may change settings.
func (s *SettingService) Upsert(ctx context.Context, actor auth.Principal, key string, in SettingInput) (*models.SystemSetting, error) {
	if actor.Role != auth.RoleSuperAdmin {
		return nil, apperr.Forbidden("Only a super admin can change system settings")
	}
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 120 {
		return nil, apperr.BadRequest("Invalid setting key")
	}
	if in.IsSecret && in.IsPublic {
		return nil, apperr.BadRequest("A secret setting cannot be public")
	}

	value := in.Value
	if in.IsSecret {
		sealed, err := s.seal(value)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		value = sealed
	}

	var row models.SystemSetting
	uid := actor.UserID
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		err := tx.Where(map[string]any{"key": key}).ForUpdate().First(&row)
		switch {
		case isMissing(err):
			row = models.SystemSetting{Key: key}
		case err != nil:
			return err
		}
		row.Value = value
		row.Description = in.Description
		row.IsPublic = in.IsPublic
		row.IsSecret = in.IsSecret
		row.UpdatedByID = &uid
		if err := tx.Fresh().Save(&row); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "setting.updated", "SystemSetting", row.ID,
			map[string]any{"key": key, "secret": in.IsSecret})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "")
	}
	s.forgetPublic(ctx)

	if row.IsSecret {
		row.Value = crypt.Mask(in.Value)
	}
	return &row, nil
}

func (s *SettingService) Delete(ctx context.Context, actor auth.Principal, key string) error {
	if actor.Role != auth.RoleSuperAdmin {
		return apperr.Forbidden("Only a super admin can change system settings")
	}
	var row models.SystemSetting
	if err := orm.WithContext(ctx).Where(map[string]any{"key": key}).First(&row); err != nil {
		return apperr.FromDB(err, "Setting not found")
	}
	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.SystemSetting{}, row.ID); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "setting.deleted", "SystemSetting", row.ID, map[string]any{"key": key})
		return nil
	})
	if err != nil {
		return apperr.FromDB(err, "Setting not found")
	}
	s.forgetPublic(ctx)
	return nil
}

func (s *SettingService) seal(v string) (string, error) {
	b, err := s.box()
	if err != nil {
		return "", err
	}
	return b.Seal(v)
}

func (s *SettingService) open(v string) (string, error) {
	b, err := s.box()
	if err != nil {
		return "", err
	}
	return b.Open(v)
}

func (s *SettingService) masked(ctx context.Context, sealed string) string {
	plain, err := s.open(sealed)
	if err != nil {
		logger.WithCtx(ctx).Warn("secret setting unreadable", "error", err)
		return "********"
	}
	return crypt.Mask(plain)
}

func (s *SettingService) forgetPublic(ctx context.Context) {
	if err := cache.Forget(publicSettingsKey); err != nil {
		logger.WithCtx(ctx).Warn("settings cache forget failed", "error", err)
	}
}
