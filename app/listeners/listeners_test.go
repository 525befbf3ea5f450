package listeners

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/events"
	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/notification"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
)

type published struct {
	name string
	data any
}

type fakeHub struct {
	mu  sync.Mutex
	got []published
}

func (h *fakeHub) Publish(name string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, published{name, data})
}

type sent struct {
	address string
	kind    string
}

func setup(t *testing.T) (*fakeHub, *[]sent) {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)

	var out []sent
	prev := Notify
	Notify = func(_ context.Context, address string, n notification.Notification) error {
		out = append(out, sent{address, fmt.Sprintf("%T", n)})
		return nil
	}
	t.Cleanup(func() { Notify = prev })

	hub := &fakeHub{}
	Register(hub)
	return hub, &out
}

func TestOrderEventsReachCustomer(t *testing.T) {
	db := testkit.NewDB(t, models.All()...)
	hub, out := setup(t)

	u := models.User{Name: "Esi", Email: "esi@trendiwear.test", Password: "x", Role: auth.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	o := &models.Order{UserID: u.ID, OrderNumber: "TW-20260601-ABCDEF0123", Status: models.OrderPending,
		Subtotal: decimal.NewFromInt(90), ShippingFee: decimal.Zero, Total: decimal.NewFromInt(90)}

	event.Fire(context.Background(), events.OrderPlaced, o)
	o.Status = models.OrderShipped
	event.Fire(context.Background(), events.OrderStatusChanged, services.OrderStatusChange{Order: o, From: models.OrderProcessing})

	require.Len(t, *out, 2)
	assert.Equal(t, sent{"esi@trendiwear.test", "notifications.OrderPlaced"}, (*out)[0])
	assert.Equal(t, sent{"esi@trendiwear.test", "notifications.OrderStatus"}, (*out)[1])

	require.Len(t, hub.got, 2)
	assert.Equal(t, events.OrderPlaced, hub.got[0].name)
	assert.Equal(t, models.OrderShipped, hub.got[1].data.(map[string]any)["to"])
}

func TestBookingCreatedGoesToProfessional(t *testing.T) {
	db := testkit.NewDB(t, models.All()...)
	_, out := setup(t)

	pro := models.User{Name: "Kofi", Email: "kofi@trendiwear.test", Password: "x", Role: auth.RoleProfessional, IsActive: true}
	require.NoError(t, db.Create(&pro).Error)
	pt := models.ProfessionalType{Name: "Tailor", IsActive: true}
	require.NoError(t, db.Create(&pt).Error)
	prof := models.ProfessionalProfile{UserID: pro.ID, ProfessionalTypeID: pt.ID, BusinessName: "Kofi Tailoring"}
	require.NoError(t, db.Create(&prof).Error)

	event.Fire(context.Background(), events.BookingCreated, &models.Booking{ProfessionalID: prof.ID, CustomerID: 99})

	require.Len(t, *out, 1)
	assert.Equal(t, "kofi@trendiwear.test", (*out)[0].address)
}

func TestReportAndBadPayloads(t *testing.T) {
	testkit.NewDB(t, models.All()...)
	hub, out := setup(t)

	event.Fire(context.Background(), events.ReportCreated, &models.ReportedContent{ContentType: models.ContentBlog, ContentID: 3, Reason: "spam"})
	event.Fire(context.Background(), events.OrderPlaced, "not an order")

	require.Len(t, *out, 1)
	assert.Equal(t, sent{"", "notifications.ReportFiled"}, (*out)[0])
	require.Len(t, hub.got, 1)
	assert.Equal(t, "spam", hub.got[0].data.(map[string]any)["reason"])
}

func TestRegisterWithoutHub(t *testing.T) {
	testkit.NewDB(t, models.All()...)
	event.Flush()
	t.Cleanup(event.Flush)
	prev := Notify
	Notify = func(context.Context, string, notification.Notification) error { return nil }
	t.Cleanup(func() { Notify = prev })

	Register(nil)
	assert.NotPanics(t, func() {
		event.Fire(context.Background(), events.BookingStatusChanged,
			services.BookingStatusChange{Booking: &models.Booking{Status: models.BookingConfirmed}, From: models.BookingPending})
	})
}
