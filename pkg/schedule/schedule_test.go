package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt(t *testing.T) {
	assert.Equal(t, "0 3 * * *", Daily().At("03:00").e.spec)
	assert.Equal(t, "30 14 * * *", Daily().At("14:30").e.spec)
	assert.Equal(t, "5 0 * * *", Daily().At("00:05").e.spec)
}

func TestRegisterAndRunNow(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	ran := 0
	require.NoError(t, Hourly().Name("bookings:expire").Run(func(context.Context) error { ran++; return nil }))
	require.NoError(t, RunNow(context.Background(), "bookings:expire"))
	assert.Equal(t, 1, ran)

	assert.Error(t, RunNow(context.Background(), "missing"))
	assert.Len(t, List(), 1)
}

func TestInvalidSpec(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	err := Cron("not a spec").Run(func(context.Context) error { return errors.New("x") })
	assert.Error(t, err)
	assert.Empty(t, List())
}
