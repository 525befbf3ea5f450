// Package migrations registers the marketplace schema. Importing it for
// side effects is enough; cmd/trendiwear does so.
package migrations

import (
	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/migration"
	"github.com/PascalSeth/trendiwear/pkg/queue"
)

// tables creates models in order and drops them in reverse.
func tables(names []string, ms ...any) migration.Func {
	return migration.Func{
		UpFn: func(db *gorm.DB) error { return db.AutoMigrate(ms...) },
		DownFn: func(db *gorm.DB) error {
			for i := len(names) - 1; i >= 0; i-- {
				if err := db.Migrator().DropTable(names[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// reviewIndexes keep one review per user and target. The target columns
// are nullable and SQL Server treats NULLs as equal in unique indexes, so
// every dialect except MySQL gets a filtered index.
func reviewIndexes(dialect string) []string {
	where := func(col string) string {
		if dialect == "mysql" {
			return ""
		}
		return " WHERE " + col + " IS NOT NULL"
	}
	return []string{
		"CREATE UNIQUE INDEX idx_review_user_product ON reviews (user_id, product_id)" + where("product_id"),
		"CREATE UNIQUE INDEX idx_review_user_professional ON reviews (user_id, professional_id)" + where("professional_id"),
	}
}

func content() migration.Func {
	m := tables(
		[]string{"reviews", "blogs", "reported_contents"},
		&models.Review{}, &models.Blog{}, &models.ReportedContent{},
	)
	up := m.UpFn
	m.UpFn = func(db *gorm.DB) error {
		if err := up(db); err != nil {
			return err
		}
		for _, stmt := range reviewIndexes(db.Dialector.Name()) {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	}
	return m
}

func init() {
	migration.Register("20260301000000_create_users", tables(
		[]string{"users"},
		&models.User{},
	))
	migration.Register("20260301000100_create_professionals", tables(
		[]string{"professional_types", "professional_profiles"},
		&models.ProfessionalType{}, &models.ProfessionalProfile{},
	))
	migration.Register("20260301000200_create_catalog", tables(
		[]string{"categories", "products", "collections", "collection_products"},
		&models.Category{}, &models.Product{}, &models.Collection{},
	))
	migration.Register("20260301000300_create_services", tables(
		[]string{"service_categories", "services", "bookings"},
		&models.ServiceCategory{}, &models.Service{}, &models.Booking{},
	))
	migration.Register("20260301000400_create_commerce", tables(
		[]string{"addresses", "cart_items", "orders", "order_items"},
		&models.Address{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))
	migration.Register("20260301000500_create_content", content())
	migration.Register("20260301000600_create_admin", tables(
		[]string{"system_settings", "audit_logs"},
		&models.SystemSetting{}, &models.AuditLog{},
	))
	migration.Register("20260301000700_create_failed_jobs", tables(
		[]string{"failed_jobs"},
		&queue.FailedJobRecord{},
	))
}
