package queue

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/pkg/logger"
)

// FailedJobRecord is a job that exhausted its retries. The table is
// created by the failed_jobs migration.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:120;not null;index" json:"jobType"`
	Payload  string    `gorm:"type:text;not null" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `gorm:"not null;default:0" json:"attempts"`
	FailedAt time.Time `gorm:"autoCreateTime" json:"failedAt"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var failedJobDB *gorm.DB

// UseDB persists failed jobs to db in addition to the in-memory list.
func UseDB(db *gorm.DB) {
	failedJobDB = db
}

func (m *Manager) persistFailed(ctx context.Context, name string, payload []byte, lastErr error, attempts int) {
	msg := ""
	if lastErr != nil {
		msg = lastErr.Error()
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{Name: name, Err: lastErr, FailedAt: time.Now(), Attempts: attempts})
	m.mu.Unlock()

	logger.Error("queue job exhausted retries", "type", name, "attempts", attempts, "error", msg)

	if failedJobDB == nil {
		return
	}
	rec := FailedJobRecord{JobType: name, Payload: string(payload), Error: msg, Attempts: attempts}
	if err := failedJobDB.WithContext(context.WithoutCancel(ctx)).Create(&rec).Error; err != nil {
		logger.Warn("persist failed job", "type", name, "error", err)
	}
}
