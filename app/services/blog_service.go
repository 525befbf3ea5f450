package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

type BlogService struct{}

func NewBlogService() *BlogService { return &BlogService{} }

type BlogFilter struct {
	Search   string
	Tag      string
	AuthorID uint
}

// List shows published posts; admins also see drafts.
func (s *BlogService) List(ctx context.Context, actor auth.Principal, f BlogFilter, p Page) ([]models.Blog, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Blog{})
	if !actor.IsAdmin() {
		if actor.UserID != 0 && f.AuthorID == actor.UserID {
			q = q.Where("author_id = ?", actor.UserID)
		} else {
			q = q.Where("is_published = ?", true)
		}
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if pattern := like(f.Search); pattern != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(excerpt) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if tag := strings.ToLower(strings.TrimSpace(f.Tag)); tag != "" {
		// Tags are stored as a JSON array of lowercase strings.
		quoted, _ := json.Marshal(tag)
		q = q.Where("tags LIKE ? ESCAPE '!'", orm.Contains(string(quoted)))
	}

	page, limit := p.normalized()
	var out []models.Blog
	pg, err := q.Preload("Author").Order("published_at DESC, created_at DESC").Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

// FindBySlug returns a post and counts the view. Drafts are visible to
// their author and admins only.
func (s *BlogService) FindBySlug(ctx context.Context, actor auth.Principal, slug string) (*models.Blog, error) {
	var b models.Blog
	if err := orm.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&b); err != nil {
		return nil, apperr.FromDB(err, "Blog not found")
	}
	if !b.IsPublished && !actor.Owns(b.AuthorID) {
		return nil, apperr.NotFound("Blog not found")
	}
	if b.IsPublished {
		if _, err := orm.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", b.ID).
			Update("views", gorm.Expr("views + 1")); err != nil {
			logger.WithCtx(ctx).Warn("blog view count failed", "blog", b.ID, "error", err)
		} else {
			b.Views++
		}
	}
	return &b, nil
}

type BlogInput struct {
	Title       string   `json:"title"       validate:"required,min=3,max=200"`
	Slug        string   `json:"slug"        validate:"nullable,slug,max=191"`
	Excerpt     string   `json:"excerpt"     validate:"nullable,max=500"`
	Content     string   `json:"content"     validate:"required"`
	CoverImage  string   `json:"coverImage"  validate:"nullable,url"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
}

func (in BlogInput) apply(b *models.Blog, now time.Time) {
	b.Title = sanitizeText(in.Title)
	b.Excerpt = sanitizeText(in.Excerpt)
	b.Content = sanitizeHTML(in.Content)
	b.CoverImage = in.CoverImage
	b.Tags = normalizeTags(in.Tags)
	if in.IsPublished && b.PublishedAt == nil {
		b.PublishedAt = &now
	}
	if !in.IsPublished {
		b.PublishedAt = nil
	}
	b.IsPublished = in.IsPublished
}

func (s *BlogService) Create(ctx context.Context, actor auth.Principal, in BlogInput) (*models.Blog, error) {
	if actor.Role != auth.RoleProfessional && !actor.IsAdmin() {
		return nil, apperr.Forbidden("Only professionals and administrators can write blogs")
	}
	b := models.Blog{AuthorID: actor.UserID, Slug: in.Slug}
	in.apply(&b, time.Now())
	if b.Slug == "" {
		b.Slug = slugify(b.Title)
	}
	if strings.TrimSpace(b.Content) == "" {
		return nil, apperr.BadRequest("Content is empty after sanitising")
	}
	if err := s.slugFree(ctx, b.Slug, 0); err != nil {
		return nil, err
	}
	if err := orm.WithContext(ctx).Create(&b); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	return &b, nil
}

func (s *BlogService) Update(ctx context.Context, actor auth.Principal, id uint, in BlogInput) (*models.Blog, error) {
	var b models.Blog
	if err := orm.WithContext(ctx).First(&b, id); err != nil {
		return nil, apperr.FromDB(err, "Blog not found")
	}
	if err := ownerOr403(actor, b.AuthorID, "You can only edit your own posts"); err != nil {
		return nil, err
	}
	if in.Slug != "" && in.Slug != b.Slug {
		if err := s.slugFree(ctx, in.Slug, id); err != nil {
			return nil, err
		}
		b.Slug = in.Slug
	}
	in.apply(&b, time.Now())

	err := orm.Transaction(ctx, func(tx *orm.Query) error {
		if err := tx.Save(&b); err != nil {
			return err
		}
		if actor.UserID != b.AuthorID {
			Audit(ctx, tx, actor, "blog.updated", "Blog", b.ID, map[string]any{"title": b.Title})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Blog not found")
	}
	return &b, nil
}

func (s *BlogService) Delete(ctx context.Context, actor auth.Principal, id uint) error {
	var b models.Blog
	if err := orm.WithContext(ctx).First(&b, id); err != nil {
		return apperr.FromDB(err, "Blog not found")
	}
	if err := ownerOr403(actor, b.AuthorID, "You can only delete your own posts"); err != nil {
		return err
	}
	return apperr.FromDB(orm.Transaction(ctx, func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.Blog{}, id); err != nil {
			return err
		}
		if actor.UserID != b.AuthorID {
			Audit(ctx, tx, actor, "blog.deleted", "Blog", id, map[string]any{"title": b.Title})
		}
		return nil
	}), "Blog not found")
}

func (s *BlogService) slugFree(ctx context.Context, slug string, except uint) error {
	taken, err := exists(ctx, &models.Blog{}, "slug = ? AND id <> ?", slug, except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Blog slug already exists")
	}
	return nil
}

func normalizeTags(tags []string) models.StringList {
	seen := map[string]bool{}
	out := models.StringList{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
