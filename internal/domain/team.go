package domain

import (
	"github.com/statusdeck/statusdeck/internal/models"
	"gorm.io/gorm"
)

// RemovalStatus picks the terminal status for removing target, depending on
// whether the invitation was still pending and on who acted.
func RemovalStatus(actorID string, target models.User) models.UserStatus {
	if target.Status == models.StatusInvitationPending {
		if actorID == target.ID {
			return models.StatusInvitationRejected
		}
		return models.StatusInvitationRevoked
	}

	if actorID == target.ID {
		return models.StatusRemovedBySelf
	}
	return models.StatusRemovedByAdmin
}

// RemoveMember marks target with the given terminal status. When the target
// is an active admin, the update only applies while the organization keeps
// at least one other active admin: the count lives in the WHERE clause of a
// single UPDATE, so check and act cannot interleave with a concurrent
// removal.
func RemoveMember(tx *gorm.DB, organizationID string, target models.User, status models.UserStatus) error {
	query := tx.Model(&models.User{}).
		Where("id = ? AND organization_id = ?", target.ID, organizationID)

	if lastAdminGuardApplies(target) {
		query = query.Where(
			"(SELECT COUNT(*) FROM users WHERE organization_id = ? AND role = ? AND status = ?) > 1",
			organizationID, models.RoleAdmin, models.StatusActive,
		)
	}

	result := query.Update("status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if lastAdminGuardApplies(target) {
			return Invariant("cannot remove the last admin")
		}
		return ErrNotFound
	}

	return nil
}

// UpdateMember applies name and role changes. Demoting an active admin to
// member goes through the same atomic last-admin guard as removal.
func UpdateMember(tx *gorm.DB, organizationID string, target models.User, name string, role models.UserRole) error {
	updates := map[string]interface{}{}

	if name != "" {
		updates["name"] = name
	}

	if role != "" {
		updates["role"] = role
	}

	if len(updates) == 0 {
		return Validation("At least one field must be provided")
	}

	query := tx.Model(&models.User{}).
		Where("id = ? AND organization_id = ?", target.ID, organizationID)

	demotion := role == models.RoleMember && lastAdminGuardApplies(target)

	if demotion {
		query = query.Where(
			"(SELECT COUNT(*) FROM users WHERE organization_id = ? AND role = ? AND status = ?) > 1",
			organizationID, models.RoleAdmin, models.StatusActive,
		)
	}

	result := query.Updates(updates)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if demotion {
			return Invariant("cannot demote the last admin")
		}
		return ErrNotFound
	}

	return nil
}

// The guard only matters for active admins: pending or negated admins do not
// count toward the active-admin total, so acting on them cannot drop it.
func lastAdminGuardApplies(target models.User) bool {
	return target.Role == models.RoleAdmin && target.Status == models.StatusActive
}
