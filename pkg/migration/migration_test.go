package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

type gadget struct {
	ID uint
}

func TestRunRollbackStatus(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migration_test?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	reg := &Registry{}
	reg.Register("20240102000000_create_gadgets", Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&gadget{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&gadget{}) },
	})
	reg.Register("20240101000000_create_widgets", Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&widget{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
	})

	r := New(db, reg)
	ctx := context.Background()

	applied, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101000000_create_widgets", "20240102000000_create_gadgets"}, applied)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	applied, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	st, err := r.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, 2)
	assert.True(t, st[0].Ran)
	assert.Equal(t, 1, st[0].Batch)

	reverted, err := r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102000000_create_gadgets", "20240101000000_create_widgets"}, reverted)
	assert.False(t, db.Migrator().HasTable(&widget{}))
}

func TestDuplicateNamePanics(t *testing.T) {
	reg := &Registry{}
	reg.Register("a", Func{})
	assert.Panics(t, func() { reg.Register("a", Func{}) })
}
