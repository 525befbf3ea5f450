package services

import (
	"context"
	"time"

	"github.com/PascalSeth/trendiwear/app/events"
	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// bookingMoves is the legal status graph.
var bookingMoves = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// CanMoveBooking reports whether from → to is a legal booking transition.
func CanMoveBooking(from, to string) bool {
	for _, s := range bookingMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

type BookingService struct {
	now func() time.Time
}

func NewBookingService() *BookingService { return &BookingService{now: time.Now} }

type BookingFilter struct {
	Status string
}

// BookingStatusChange is the payload of events.BookingStatusChanged.
type BookingStatusChange struct {
	Booking *models.Booking
	From    string
}

// List scopes by role: customers see their own bookings, professionals the
// ones they received, admins everything.
func (s *BookingService) List(ctx context.Context, actor auth.Principal, f BookingFilter, p Page) ([]models.Booking, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Booking{})
	switch {
	case actor.IsAdmin():
	case actor.Role == auth.RoleProfessional:
		prof, err := professionalOf(ctx, actor.UserID)
		if err != nil {
			return nil, orm.Pagination{}, err
		}
		q = q.Where("professional_id = ? OR customer_id = ?", prof.ID, actor.UserID)
	default:
		q = q.Where("customer_id = ?", actor.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	page, limit := p.normalized()
	var out []models.Booking
	pg, err := q.Preload("Service").Preload("Customer").
		Order("scheduled_at DESC").
		Paginate(&out, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal(err)
	}
	return out, pg, nil
}

func (s *BookingService) Find(ctx context.Context, actor auth.Principal, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := orm.WithContext(ctx).Preload("Service").Preload("Customer").First(&b, id); err != nil {
		return nil, apperr.FromDB(err, "Booking not found")
	}
	if _, err := s.side(ctx, actor, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type BookingInput struct {
	ServiceID   uint      `json:"serviceId"   validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Notes       string    `json:"notes"       validate:"nullable,max=2000"`
}

func (s *BookingService) Create(ctx context.Context, actor auth.Principal, in BookingInput) (*models.Booking, error) {
	if !in.ScheduledAt.After(s.now()) {
		return nil, apperr.BadRequest("Scheduled time must be in the future")
	}
	var svc models.Service
	if err := orm.WithContext(ctx).Preload("Professional").First(&svc, in.ServiceID); err != nil {
		if isMissing(err) {
			return nil, apperr.BadRequest("Service not found")
		}
		return nil, apperr.FromDB(err, "")
	}
	if !svc.IsActive {
		return nil, apperr.BadRequest("Service is not available")
	}
	if svc.Professional != nil && svc.Professional.UserID == actor.UserID {
		return nil, apperr.BadRequest("You cannot book your own service")
	}

	b := models.Booking{
		CustomerID:     actor.UserID,
		ServiceID:      svc.ID,
		ProfessionalID: svc.ProfessionalID,
		ScheduledAt:    in.ScheduledAt.UTC(),
		Status:         models.BookingPending,
		Price:          svc.Price,
		Notes:          sanitizeText(in.Notes),
	}
	if err := orm.WithContext(ctx).Create(&b); err != nil {
		return nil, apperr.FromDB(err, "")
	}
	metrics.BookingsCreated.Inc()

	svc.Professional = nil
	b.Service = &svc
	event.FireAsync(ctx, events.BookingCreated, &b)
	return &b, nil
}

// UpdateStatus applies a transition allowed for the caller's side of the
// booking.
func (s *BookingService) UpdateStatus(ctx context.Context, actor auth.Principal, id uint, status string) (*models.Booking, error) {
	var b models.Booking
	if err := orm.WithContext(ctx).First(&b, id); err != nil {
		return nil, apperr.FromDB(err, "Booking not found")
	}
	side, err := s.side(ctx, actor, &b)
	if err != nil {
		return nil, err
	}

	if b.Status == status {
		return nil, apperr.BadRequest("Booking is already " + status)
	}
	if !CanMoveBooking(b.Status, status) {
		return nil, apperr.BadRequest("Cannot change booking from " + b.Status + " to " + status)
	}
	if side == sideCustomer && status != models.BookingCancelled {
		return nil, apperr.Forbidden("Customers can only cancel bookings")
	}

	from := b.Status
	err = orm.Transaction(ctx, func(tx *orm.Query) error {
		n, err := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", status)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.Conflict("Booking status changed concurrently, reload and retry")
		}
		if side == sideAdmin {
			Audit(ctx, tx, actor, "booking.status_changed", "Booking", id, map[string]any{"from": from, "to": status})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "Booking not found")
	}

	b.Status = status
	event.FireAsync(ctx, events.BookingStatusChanged, BookingStatusChange{Booking: &b, From: from})
	return s.Find(ctx, actor, id)
}

// ExpireStale cancels PENDING bookings whose time has passed.
func (s *BookingService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := orm.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND scheduled_at < ?", models.BookingPending, s.now().UTC()).
		Update("status", models.BookingCancelled)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("stale bookings expired", "count", n)
	}
	return n, nil
}

const (
	sideCustomer = iota + 1
	sideProfessional
	sideAdmin
)

// side tells which party the caller is. Outsiders get a 403.
func (s *BookingService) side(ctx context.Context, actor auth.Principal, b *models.Booking) (int, error) {
	if actor.IsAdmin() {
		return sideAdmin, nil
	}
	if actor.Role == auth.RoleProfessional {
		prof, err := professionalOf(ctx, actor.UserID)
		if err == nil && prof.ID == b.ProfessionalID {
			return sideProfessional, nil
		}
	}
	if b.CustomerID == actor.UserID {
		return sideCustomer, nil
	}
	return 0, apperr.Forbidden("You do not have access to this booking")
}
