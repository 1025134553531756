package models

type Organization struct {
	BaseModel

	Name string `gorm:"not null" json:"name"`

	// Relationships
	Users    []User    `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Services []Service `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Actions  []UserAction `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
