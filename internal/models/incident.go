package models

import (
	"time"

	"github.com/incident-copilot/backend/internal/incidents"
)

type Incident struct {
	ID          uint               `gorm:"primaryKey"`
	Title       string             `gorm:"type:varchar(255);not null;check:title_not_empty,length(trim(title)) > 0"`
	Description string             `gorm:"type:text;not null"`
	Severity    incidents.Severity `gorm:"type:varchar(8);not null"`
	Status      incidents.Status   `gorm:"type:varchar(16);not null;default:'open';index:ix_incidents_status_created_at,priority:1"`
	CreatedAt   time.Time          `gorm:"index:ix_incidents_created_at,sort:desc;index:ix_incidents_status_created_at,priority:2"`
	UpdatedAt   time.Time
	Events      []TimelineEvent `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE"`
}

func (Incident) TableName() string {
	return "incidents"
}
