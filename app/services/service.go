// Package services holds the marketplace business rules. Services resolve
// the database lazily through pkg/orm and return *apperr.Error for every
// failure a client should see.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/orm"
	"github.com/PascalSeth/trendiwear/pkg/reqid"
)

// Page is the common paging input of list endpoints.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalized() (int, int) { return orm.NormalizePage(p.Page, p.Limit) }

// like builds a case-insensitive LIKE pattern; "" when search is blank.
func like(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	return orm.Contains(strings.ToLower(search))
}

// Audit writes an audit row on q, which may be a transaction. Failures are
// logged and never fail the caller's request.
func Audit(ctx context.Context, q *orm.Query, actor auth.Principal, action, entityType string, entityID uint, details any) {
	entry := models.AuditLog{
		Action:     action,
		EntityType: entityType,
		IPAddress:  reqid.ClientIP(ctx),
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = string(b)
		}
	}
	if q == nil {
		q = orm.WithContext(ctx)
	}
	if err := q.Fresh().Create(&entry); err != nil {
		logger.WithCtx(ctx).Error("audit write failed", "action", action, "entity", entityType, "error", err)
	}
}

// ownerOr403 allows the owner and admins.
func ownerOr403(actor auth.Principal, ownerID uint, msg string) error {
	if actor.Owns(ownerID) {
		return nil
	}
	return apperr.Forbidden(msg)
}

// professionalOf loads the caller's professional profile.
func professionalOf(ctx context.Context, userID uint) (*models.ProfessionalProfile, error) {
	var p models.ProfessionalProfile
	if err := orm.WithContext(ctx).Where("user_id = ?", userID).First(&p); err != nil {
		return nil, apperr.FromDB(err, "Professional profile not found")
	}
	return &p, nil
}

func isMissing(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// mustExist turns a missing referenced row into a 400.
func mustExist(ctx context.Context, dest any, id uint, msg string) error {
	err := orm.WithContext(ctx).First(dest, id)
	if isMissing(err) {
		return apperr.BadRequest(msg)
	}
	return apperr.FromDB(err, msg)
}

func exists(ctx context.Context, model any, where string, args ...any) (bool, error) {
	ok, err := orm.WithContext(ctx).Model(model).Where(where, args...).Exists()
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("exists %T: %w", model, err))
	}
	return ok, nil
}

// slugify lowercases s and joins alphanumeric runs with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

const showcaseCachePrefix = "showcase:"

// Swapped in tests to observe invalidation.
var (
	flushCache  = cache.Flush
	forgetCache = cache.Forget
)

func showcaseKey(page, limit int) string {
	return fmt.Sprintf("%sp:%d:%d", showcaseCachePrefix, page, limit)
}

func invalidateShowcase(ctx context.Context) {
	if err := flushCache(showcaseCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("showcase cache flush failed", "error", err)
	}
}
