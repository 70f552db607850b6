package schema

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the verification lifecycle of a project
type ProjectStatus string

const (
	ProjectStatusDraft               ProjectStatus = "draft"
	ProjectStatusPendingVerification ProjectStatus = "pending_verification"
	ProjectStatusVerified            ProjectStatus = "verified"
	ProjectStatusRejected            ProjectStatus = "rejected"
	ProjectStatusActive              ProjectStatus = "active"
	ProjectStatusCompleted           ProjectStatus = "completed"
)

// Project represents the projects table. Projects are owned by the registry
// subsystem; the one mutation performed here is marking a project verified
// when the chain emits a ProjectVerified event.
type Project struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	// ExternalID is the registry-facing project identifier carried in
	// chain events (e.g. "PROJ-1")
	ExternalID string        `gorm:"column:external_id;not null;uniqueIndex;type:text"`
	Name       string        `gorm:"column:name;not null;type:text"`
	Status     ProjectStatus `gorm:"column:status;not null;type:text;default:draft"`
	VerifiedAt *time.Time    `gorm:"column:verified_at"`
	CreatedAt  time.Time     `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
