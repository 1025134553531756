package models

import (
	"gorm.io/datatypes"
)

type ActionType string

// Closed taxonomy: extend by adding a variant, never repurpose one.
const (
	ActionIncidentCreated      ActionType = "INCIDENT_CREATED"
	ActionIncidentUpdated      ActionType = "INCIDENT_UPDATED"
	ActionIncidentResolved     ActionType = "INCIDENT_RESOLVED"
	ActionServiceStatusChanged ActionType = "SERVICE_STATUS_CHANGED"
	ActionMaintenanceScheduled ActionType = "MAINTENANCE_SCHEDULED"
	ActionMaintenanceStarted   ActionType = "MAINTENANCE_STARTED"
	ActionMaintenanceCompleted ActionType = "MAINTENANCE_COMPLETED"
)

// UserAction is the audit record for a significant mutation. Rows are
// append-only and double as the realtime notification payload.
type UserAction struct {
	BaseModel

	ActionType     ActionType     `gorm:"not null;index" json:"actionType"`
	Description    string         `gorm:"not null" json:"description"`
	Metadata       datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	UserID         string         `gorm:"not null;index;size:36" json:"userId"`
	OrganizationID string         `gorm:"not null;index;size:36" json:"organizationId"`
	ServiceID      *string        `gorm:"index;size:36" json:"serviceId,omitempty"`
	IncidentID     *string        `gorm:"index;size:36" json:"incidentId,omitempty"`

	// Relationships
	User         User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Service      *Service     `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
	Incident     *Incident    `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
