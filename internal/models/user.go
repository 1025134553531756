package models

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleMember UserRole = "MEMBER"
)

type UserStatus string

const (
	StatusActive             UserStatus = "ACTIVE"
	StatusInvitationPending  UserStatus = "INVITATION_PENDING"
	StatusInvitationRejected UserStatus = "INVITATION_REJECTED"
	StatusInvitationRevoked  UserStatus = "INVITATION_REVOKED"
	StatusRemovedBySelf      UserStatus = "REMOVED_BY_SELF"
	StatusRemovedByAdmin     UserStatus = "REMOVED_BY_ADMIN"
)

// NegatedUserStatuses are the terminal membership states. Users in any of
// these are excluded from team listings and only return via re-invite or
// re-registration of the same email.
var NegatedUserStatuses = []UserStatus{
	StatusInvitationRejected,
	StatusInvitationRevoked,
	StatusRemovedBySelf,
	StatusRemovedByAdmin,
}

func (s UserStatus) Negated() bool {
	for _, negated := range NegatedUserStatuses {
		if s == negated {
			return true
		}
	}

	return false
}

type User struct {
	BaseModel

	Name           string     `gorm:"not null" json:"name"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   *string    `json:"-"`
	Role           UserRole   `gorm:"not null;default:MEMBER" json:"role"`
	Status         UserStatus `gorm:"not null;default:ACTIVE" json:"status"`
	OrganizationID string     `gorm:"not null;index;size:36" json:"organizationId"`

	// Relationships
	Organization  Organization   `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	StatusUpdates []StatusUpdate `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Actions       []UserAction   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
