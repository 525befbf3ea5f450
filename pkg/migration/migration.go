// Package migration applies versioned schema changes and tracks them in
// the schema_migrations table, grouped by batch so the last run can be
// rolled back as a unit.
//
//	migration.Register("20240301000000_create_products", migration.Func{
//	    UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&models.Product{}) },
//	    DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable("products") },
//	})
package migration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/pkg/logger"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Func adapts a pair of functions to Migration.
type Func struct {
	UpFn   func(db *gorm.DB) error
	DownFn func(db *gorm.DB) error
}

func (f Func) Up(db *gorm.DB) error { return f.UpFn(db) }

func (f Func) Down(db *gorm.DB) error {
	if f.DownFn == nil {
		return nil
	}
	return f.DownFn(db)
}

type record struct {
	ID    uint      `gorm:"primaryKey"`
	Name  string    `gorm:"uniqueIndex;size:191;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

// Registry holds migrations ordered by name; names start with a timestamp.
type Registry struct {
	mu    sync.Mutex
	items []entry
}

var global = &Registry{}

func Default() *Registry { return global }

func Register(name string, m Migration) { global.Register(name, m) }

func (r *Registry) Register(name string, m Migration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	r.items = append(r.items, entry{name: name, m: m})
	sort.Slice(r.items, func(i, j int) bool { return r.items[i].name < r.items[j].name })
}

func (r *Registry) list() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry(nil), r.items...)
}

type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db  *gorm.DB
	reg *Registry
}

// New uses the global registry when reg is nil.
func New(db *gorm.DB, reg *Registry) *Runner {
	if reg == nil {
		reg = global
	}
	return &Runner{db: db, reg: reg}
}

func (r *Runner) ensure(ctx context.Context) (*gorm.DB, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	return db, nil
}

func (r *Runner) ran(db *gorm.DB) (map[string]record, error) {
	var rows []record
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration in one new batch and returns the
// names applied.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	db, err := r.ensure(ctx)
	if err != nil {
		return nil, err
	}
	done, err := r.ran(db)
	if err != nil {
		return nil, err
	}

	batch := 1
	for _, rec := range done {
		batch = max(batch, rec.Batch+1)
	}

	var applied []string
	for _, e := range r.reg.list() {
		if _, ok := done[e.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", e.name, "batch", batch)
		if err := e.m.Up(db); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := db.Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		applied = append(applied, e.name)
	}
	return applied, nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	db, err := r.ensure(ctx)
	if err != nil {
		return nil, err
	}

	var last record
	if err := db.Order("batch desc").Limit(1).Find(&last).Error; err != nil {
		return nil, err
	}
	if last.ID == 0 {
		return nil, nil
	}

	var rows []record
	if err := db.Where("batch = ?", last.Batch).Order("name desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	byName := map[string]Migration{}
	for _, e := range r.reg.list() {
		byName[e.name] = e.m
	}

	var reverted []string
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return reverted, fmt.Errorf("migration: %s is not registered", row.Name)
		}
		logger.Info("migration: rolling back", "name", row.Name)
		if err := m.Down(db); err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := db.Delete(&record{}, row.ID).Error; err != nil {
			return reverted, err
		}
		reverted = append(reverted, row.Name)
	}
	return reverted, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	db, err := r.ensure(ctx)
	if err != nil {
		return nil, err
	}
	done, err := r.ran(db)
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, e := range r.reg.list() {
		rec, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}
