// Package seeders loads reference data: the super admin, professional
// types, service categories, root categories and default settings.
// Every seeder is idempotent.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/pkg/logger"
)

type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes seeders in registration order and stops at the first
// failure. Each seeder runs in its own transaction.
func RunAll(ctx context.Context, db *gorm.DB) error {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	for _, e := range current {
		logger.Info("seeder: running", "name", e.name)
		if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { return e.fn(tx) }); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
	}
	return nil
}
