package models

import "time"

const (
	ReportPending   = "PENDING"
	ReportReviewed  = "REVIEWED"
	ReportResolved  = "RESOLVED"
	ReportDismissed = "DISMISSED"
)

const (
	ContentProduct      = "PRODUCT"
	ContentReview       = "REVIEW"
	ContentBlog         = "BLOG"
	ContentProfessional = "PROFESSIONAL"
	ContentUser         = "USER"
)

type ReportedContent struct {
	Base
	ReporterID     uint       `gorm:"not null;index"                         json:"reporterId"`
	Reporter       *User      `json:"reporter,omitempty"`
	ContentType    string     `gorm:"size:20;not null;index"                 json:"contentType"`
	ContentID      uint       `gorm:"not null"                               json:"contentId"`
	Reason         string     `gorm:"size:200;not null"                      json:"reason"`
	Details        string     `gorm:"type:text"                              json:"details,omitempty"`
	Status         string     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ReviewedByID   *uint      `json:"reviewedById"`
	ResolutionNote string     `gorm:"type:text"                              json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt"`
}

type SystemSetting struct {
	Base
	Key         string `gorm:"size:120;uniqueIndex;not null" json:"key"`
	Value       string `gorm:"type:text;not null"            json:"value"`
	Description string `gorm:"size:255"                      json:"description,omitempty"`
	IsPublic    bool   `gorm:"not null;default:false"        json:"isPublic"`
	IsSecret    bool   `gorm:"not null;default:false"        json:"isSecret"`
	UpdatedByID *uint  `json:"updatedById"`
}

type AuditLog struct {
	ID         uint      `gorm:"primaryKey"             json:"id"`
	UserID     *uint     `gorm:"index"                  json:"userId"`
	Action     string    `gorm:"size:80;not null;index" json:"action"`
	EntityType string    `gorm:"size:60;not null;index" json:"entityType"`
	EntityID   *uint     `json:"entityId"`
	Details    string    `gorm:"type:text"              json:"details,omitempty"`
	IPAddress  string    `gorm:"size:64"                json:"ipAddress,omitempty"`
	CreatedAt  time.Time `gorm:"index"                  json:"createdAt"`
}
