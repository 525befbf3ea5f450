package services

import (
	"context"
	"strings"
	"time"

	"github.com/PascalSeth/trendiwear/app/events"
	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

var reportTargets = map[string]any{
	models.ContentProduct:      &models.Product{},
	models.ContentReview:       &models.Review{},
	models.ContentBlog:         &models.Blog{},
	models.ContentProfessional: &models.ProfessionalProfile{},
	models.ContentUser:         &models.User{},
}

var reportMoves = map[string][]string{
	models.ReportPending:  {models.ReportReviewed, models.ReportResolved, models.ReportDismissed},
	models.ReportReviewed: {models.ReportResolved, models.ReportDismissed},
}

func CanMoveReport(from, to string) bool {
	for _, s := range reportMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ReportService struct{}

func NewReportService() *ReportService { return &ReportService{} }

type ReportInput struct {
	ContentType string `json:"contentType" validate:"required,in=PRODUCT,REVIEW,BLOG,PROFESSIONAL,USER"`
	ContentID   uint   `json:"contentId"   validate:"required"`
	Reason      string `json:"reason"      validate:"required,min=3,max=200"`
	Details     string `json:"details"     validate:"nullable,max=2000"`
}

// Create files a report against existing content. One open report per
// reporter and item.
func (s *ReportService) Create(ctx context.Context, actor auth.Principal, in ReportInput) (*models.ReportedContent, error) {
	model, ok := reportTargets[in.ContentType]
	if !ok {
		return nil, apperr.BadRequest("Unknown content type")
	}
	found, err := exists(ctx, model, "id = ?", in.ContentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.BadRequest("Reported content not found")
	}
	open, err := exists(ctx, &models.ReportedContent{},
		"reporter_id = ? AND content_type = ? AND content_id = ? AND status IN ?",
		actor.UserID, in.ContentType, in.ContentID, []string{models.ReportPending, models.ReportReviewed})
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperr.Conflict("You have already reported this content")
	}

	r := models.ReportedContent{
		ReporterID:  actor.UserID,
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		Reason:      sanitizeText(in.Reason),
		Details:     sanitizeText(in.Details),
		Status:      models.ReportPending,
	}
	if err := orm.WithContext(ctx).Create(&r); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	created := r
	event.FireAsync(ctx, events.ReportCreated, &created)
	return &r, nil
}

type ReportFilter struct {
	Status      string
	ContentType string
}

func (s *ReportService) List(ctx context.Context, f ReportFilter, p Page) ([]models.ReportedContent, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.ReportedContent{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ContentType != "" {
		q = q.Where("content_type = ?", f.ContentType)
	}
	page, limit := p.normalized()
	var out []models.ReportedContent
	pg, err := q.Preload("Reporter").Order("created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

type ReportUpdateInput struct {
	Status         string `json:"status"         validate:"required,in=REVIEWED,RESOLVED,DISMISSED"`
	ResolutionNote string `json:"resolutionNote" validate:"nullable,max=2000"`
}

func (s *ReportService) Update(ctx context.Context, actor auth.Principal, id uint, in ReportUpdateInput) (*models.ReportedContent, error) {
	var r models.ReportedContent
	if err := orm.WithContext(ctx).First(&r, id); err != nil {
		return nil, apperr.FromDB(err, "Report not found")
	}
	if !CanMoveReport(r.Status, in.Status) {
		return nil, apperr.BadRequest("Cannot change report from " + r.Status + " to " + in.Status)
	}

	from := r.Status
	uid := actor.UserID
	r.Status = in.Status
	r.ReviewedByID = &uid
	r.ResolutionNote = sanitizeText(in.ResolutionNote)
	if in.Status == models.ReportResolved || in.Status == models.ReportDismissed {
		now := time.Now()
		r.ResolvedAt = &now
	}

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&r); err != nil {
			return err
		}
		Audit(ctx, tx, actor, "report."+strings.ToLower(in.Status), "ReportedContent", id,
			map[string]any{"from": from, "to": in.Status})
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Report not found")
	}
	return &r, nil
}
