package models

type IncidentStatus string

// Incident statuses are advisory labels, not a constrained state machine:
// any transition is accepted, including reopening a resolved incident.
const (
	IncidentInvestigating IncidentStatus = "INVESTIGATING"
	IncidentIdentified    IncidentStatus = "IDENTIFIED"
	IncidentMonitoring    IncidentStatus = "MONITORING"
	IncidentResolved      IncidentStatus = "RESOLVED"
)

type Impact string

const (
	ImpactMinor    Impact = "MINOR"
	ImpactMajor    Impact = "MAJOR"
	ImpactCritical Impact = "CRITICAL"
)

type Incident struct {
	BaseModel

	Title          string         `gorm:"not null" json:"title"`
	Description    string         `json:"description"`
	Impact         Impact         `gorm:"not null;default:MINOR" json:"impact"`
	Status         IncidentStatus `gorm:"not null;default:INVESTIGATING" json:"status"`
	ServiceID      string         `gorm:"not null;index;size:36" json:"serviceId"`
	OrganizationID string         `gorm:"not null;index;size:36" json:"organizationId"`

	// Relationships
	Service Service        `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"service,omitempty"`
	Updates []StatusUpdate `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"updates,omitempty"`
}
