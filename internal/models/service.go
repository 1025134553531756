package models

type ServiceStatus string

const (
	ServiceOperational      ServiceStatus = "OPERATIONAL"
	ServiceDegraded         ServiceStatus = "DEGRADED"
	ServicePartialOutage    ServiceStatus = "PARTIAL_OUTAGE"
	ServiceMajorOutage      ServiceStatus = "MAJOR_OUTAGE"
	ServiceUnderMaintenance ServiceStatus = "MAINTENANCE"
)

type Service struct {
	BaseModel

	Name           string        `gorm:"not null" json:"name"`
	Description    string        `json:"description"`
	Status         ServiceStatus `gorm:"not null;default:OPERATIONAL" json:"status"`
	OrganizationID string        `gorm:"not null;index;size:36" json:"organizationId"`

	// Relationships
	Organization Organization         `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Incidents    []Incident           `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"incidents,omitempty"`
	Maintenances []ServiceMaintenance `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"maintenances,omitempty"`
}
