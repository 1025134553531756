package models

// StatusUpdate is an append-only entry on an incident timeline. Rows are
// never edited after creation.
type StatusUpdate struct {
	BaseModel

	Message     string         `gorm:"not null" json:"message"`
	Status      IncidentStatus `gorm:"not null" json:"status"`
	IncidentID  string         `gorm:"not null;index;size:36" json:"incidentId"`
	CreatedByID string         `gorm:"not null;size:36" json:"createdById"`

	// Relationships
	Incident  Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	CreatedBy User     `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"createdBy,omitempty"`
}
