package services

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/orm"
	"github.com/PascalSeth/trendiwear/pkg/workerpool"
)

const dashboardStatsKey = "dashboard:stats"

type DashboardStats struct {
	TotalUsers          int64           `json:"totalUsers"`
	TotalProfessionals  int64           `json:"totalProfessionals"`
	TotalProducts       int64           `json:"totalProducts"`
	TotalOrders         int64           `json:"totalOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	PendingReports      int64           `json:"pendingReports"`
	CurrentMonthOrders  int64           `json:"currentMonthOrders"`
	PreviousMonthOrders int64           `json:"previousMonthOrders"`
	MonthlyGrowth       float64         `json:"monthlyGrowth"`
}

// MonthlyGrowth is the percentage change from prev to cur, rounded to two
// decimals. No orders last month means 0.
func MonthlyGrowth(cur, prev int64) float64 {
	if prev == 0 {
		return 0
	}
	g := float64(cur-prev) / float64(prev) * 100
	return math.Round(g*100) / 100
}

// monthWindows returns the starts of the current and previous calendar
// months in UTC.
func monthWindows(now time.Time) (cur, prev time.Time) {
	now = now.UTC()
	cur = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return cur, cur.AddDate(0, -1, 0)
}

type DashboardService struct {
	pool *workerpool.Pool
	now  func() time.Time
	ttl  time.Duration
}

func NewDashboardService(pool *workerpool.Pool) *DashboardService {
	return &DashboardService{pool: pool, now: time.Now, ttl: time.Minute}
}

// Stats runs the independent aggregates concurrently on the pool.
func (s *DashboardService) Stats(ctx context.Context, actor auth.Principal) (*DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("Administrator access required")
	}
	st, err := cache.Remember(dashboardStatsKey, s.ttl, func() (DashboardStats, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *DashboardService) compute(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	cur, prev := monthWindows(s.now())

	count := func(dest *int64, model any, where string, args ...any) func(context.Context) error {
		return func(ctx context.Context) error {
			q := orm.WithContext(ctx).Model(model)
			if where != "" {
				q = q.Where(where, args...)
			}
			n, err := q.Count()
			*dest = n
			return err
		}
	}

	err := s.pool.Run(ctx,
		count(&st.TotalUsers, &models.User{}, ""),
		count(&st.TotalProfessionals, &models.ProfessionalProfile{}, ""),
		count(&st.TotalProducts, &models.Product{}, ""),
		count(&st.TotalOrders, &models.Order{}, ""),
		count(&st.PendingReports, &models.ReportedContent{}, "status = ?", models.ReportPending),
		count(&st.CurrentMonthOrders, &models.Order{}, "created_at >= ?", cur),
		count(&st.PreviousMonthOrders, &models.Order{}, "created_at >= ? AND created_at < ?", prev, cur),
		func(ctx context.Context) error {
			var row struct{ Revenue decimal.Decimal }
			err := orm.WithContext(ctx).Model(&models.Order{}).
				Select("COALESCE(SUM(total), 0) AS revenue").
				Where("status <> ?", models.OrderCancelled).
				Scan(&row)
			st.TotalRevenue = row.Revenue.Round(2)
			return err
		},
	)
	if err != nil {
		return DashboardStats{}, apperr.Internal(err)
	}
	st.MonthlyGrowth = MonthlyGrowth(st.CurrentMonthOrders, st.PreviousMonthOrders)
	return st, nil
}
