package server

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/schedule"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
	"github.com/PascalSeth/trendiwear/pkg/ws"
)

func routeNames(t *testing.T, hub *ws.Hub) map[string]bool {
	t.Helper()
	a, err := New(hub, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, r := range a.Router().Routes() {
		names[r.Name] = true
	}
	return names
}

func TestRouteTable(t *testing.T) {
	names := routeNames(t, nil)
	for _, n := range []string{"auth.register", "products.index", "orders.checkout", "bookings.status", "admin.settings.upsert", "graphql"} {
		assert.True(t, names[n], n)
	}
	assert.False(t, names["admin.live"])

	names = routeNames(t, ws.NewHub())
	assert.True(t, names["admin.live"])
	assert.True(t, names["admin.live.stream"])
}

func TestMaintenanceTasks(t *testing.T) {
	db := testkit.NewDB(t, models.All()...)
	RegisterTasks()

	stale := models.Booking{CustomerID: 1, ServiceID: 1, ProfessionalID: 1,
		ScheduledAt: time.Now().UTC().Add(-2 * time.Hour), Status: models.BookingPending, Price: decimal.NewFromInt(30)}
	require.NoError(t, db.Create(&stale).Error)
	old := models.AuditLog{Action: "test.aged", EntityType: "Test", CreatedAt: time.Now().UTC().AddDate(-2, 0, 0)}
	require.NoError(t, db.Create(&old).Error)

	ctx := context.Background()
	require.NoError(t, schedule.RunNow(ctx, TaskBookingsExpire))
	require.NoError(t, schedule.RunNow(ctx, TaskAuditPrune))

	var b models.Booking
	require.NoError(t, db.First(&b, stale.ID).Error)
	assert.Equal(t, models.BookingCancelled, b.Status)

	var n int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&n).Error)
	assert.Zero(t, n)
}
