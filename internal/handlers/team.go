package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/types"
	"github.com/statusdeck/statusdeck/internal/utils"
	"gorm.io/gorm"
)

type InviteTeamMemberRequest struct {
	Email string          `json:"email" binding:"required,email"`
	Name  string          `json:"name" binding:"required"`
	Role  models.UserRole `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

type UpdateTeamMemberRequest struct {
	Name string          `json:"name"`
	Role models.UserRole `json:"role" binding:"omitempty,oneof=ADMIN MEMBER"`
}

func ListTeamMembers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var users []models.User

	err = db.DB.
		Where("organization_id = ?", currentUser.OrganizationID).
		Where("status NOT IN ?", models.NegatedUserStatuses).
		Order("created_at ASC").
		Find(&users).Error

	if err != nil {
		respondError(ctx, err, "Error fetching team members")
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func InviteTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body InviteTeamMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var existingUser models.User

	err = db.DB.Where("email = ?", body.Email).First(&existingUser).Error

	if err == nil {
		if !existingUser.Status.Negated() {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}

		// Re-inviting a removed or rejected member re-activates the same
		// row; email is the unique identity.
		if err := db.DB.Model(&existingUser).Update("status", models.StatusActive).Error; err != nil {
			respondError(ctx, err, "Error inviting team member")
			return
		}

		existingUser.Status = models.StatusActive
		ctx.JSON(http.StatusOK, types.NewUserResponse(existingUser))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, err, "Error inviting team member")
		return
	}

	user := models.User{
		Email:          body.Email,
		Name:           body.Name,
		Role:           body.Role,
		Status:         models.StatusInvitationPending,
		OrganizationID: currentUser.OrganizationID,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		respondError(ctx, err, "Error inviting team member")
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func UpdateTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	targetID := ctx.Param("id")

	// A member may rename their own record; everything else takes an admin.
	if currentUser.Role != models.RoleAdmin && currentUser.ID != targetID {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
		return
	}

	var body UpdateTeamMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if currentUser.Role != models.RoleAdmin && body.Role != "" && body.Role != currentUser.Role {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
		return
	}

	var target models.User

	err = db.DB.
		Where("id = ? AND organization_id = ?", targetID, currentUser.OrganizationID).
		First(&target).Error

	if err != nil || target.Status.Negated() {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found or unable to update"})
		return
	}

	if err := domain.UpdateMember(db.DB, currentUser.OrganizationID, target, body.Name, body.Role); err != nil {
		respondError(ctx, err, "Error updating team member")
		return
	}

	if err := db.DB.First(&target, "id = ?", target.ID).Error; err != nil {
		respondError(ctx, err, "Error updating team member")
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(target))
}

func RemoveTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	targetID := ctx.Param("id")

	if currentUser.Role != models.RoleAdmin && currentUser.ID != targetID {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
		return
	}

	var target models.User

	err = db.DB.
		Where("id = ? AND organization_id = ?", targetID, currentUser.OrganizationID).
		First(&target).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		respondError(ctx, err, "Error removing team member")
		return
	}

	if target.Status.Negated() {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "User is not removable"})
		return
	}

	status := domain.RemovalStatus(currentUser.ID, target)

	if err := domain.RemoveMember(db.DB, currentUser.OrganizationID, target, status); err != nil {
		respondError(ctx, err, "Error removing team member")
		return
	}

	ctx.Status(http.StatusNoContent)
}
