package models

import "time"

type ServiceMaintenance struct {
	BaseModel

	ServiceID string    `gorm:"not null;index;size:36" json:"serviceId"`
	Start     time.Time `gorm:"not null" json:"start"`
	End       time.Time `gorm:"not null" json:"end"`
	Notes     string    `json:"notes"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"service,omitempty"`
}
