package models

import "gorm.io/datatypes"

const (
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

type Project struct {
	BaseModel

	LeaderID       uint   `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string
	Status         string         `gorm:"not null;default:open"` // "open", "in_progress", "completed"
	Links          datatypes.JSON `gorm:"type:jsonb"`            // repo/homepage/chat URLs, free-form
	DiscordWebhook string
	SlackWebhook   string

	// Relationships
	Leader   User             `gorm:"foreignKey:LeaderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members  []ProjectMember  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments []ProjectComment `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
