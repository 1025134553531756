package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/auth"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/types"
	"github.com/statusdeck/statusdeck/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	OrganizationName string `json:"organizationName"`
	Password         string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

// Messages shown when a registration hits an email that already has a row.
// A pending invitation is the one non-error case: registering completes it.
var existingUserMessages = map[models.UserStatus]string{
	models.StatusActive:             "User already exists",
	models.StatusRemovedByAdmin:     "User is removed, ask for a new invitation",
	models.StatusRemovedBySelf:      "User is removed, ask for a new invitation",
	models.StatusInvitationRejected: "User invitation rejected in past, ask for a new invitation",
	models.StatusInvitationRevoked:  "User invitation revoked, ask for a new invitation",
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		return
	}

	hash := string(passwordHash)

	var existingUser models.User

	err = db.DB.Where("email = ?", body.Email).First(&existingUser).Error

	if err == nil {
		if message, blocked := existingUserMessages[existingUser.Status]; blocked {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": message})
			return
		}

		// Pending invitation: registering with the invited email accepts it
		// and re-activates the same row.
		updates := map[string]interface{}{
			"status":        models.StatusActive,
			"password_hash": hash,
		}

		if err := db.DB.Model(&existingUser).Updates(updates).Error; err != nil {
			log.Printf("Failed to accept invitation for %s: %v", existingUser.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
			return
		}

		existingUser.Status = models.StatusActive
		setAuthCookie(ctx, existingUser)
		ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(existingUser)})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		return
	}

	if body.OrganizationName == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Organization name is required"})
		return
	}

	organization := models.Organization{Name: body.OrganizationName}
	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: &hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&organization).Error; err != nil {
			return err
		}

		user.OrganizationID = organization.ID

		return tx.Create(&user).Error
	})

	if err != nil {
		log.Printf("Failed to create organization: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		return
	}

	setAuthCookie(ctx, user)

	ctx.JSON(http.StatusCreated, gin.H{
		"user":         types.NewUserResponse(user),
		"organization": types.NewOrganizationResponse(organization),
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := db.DB.Preload("Organization").Where("email = ?", body.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}

	if user.Status.Negated() {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if user.PasswordHash == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	// Logging in with a pending invitation completes the acceptance.
	if user.Status == models.StatusInvitationPending {
		if err := db.DB.Model(&user).Update("status", models.StatusActive).Error; err != nil {
			log.Printf("Failed to activate user %s: %v", user.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
			return
		}
		user.Status = models.StatusActive
	}

	setAuthCookie(ctx, user)

	ctx.JSON(http.StatusOK, gin.H{
		"user":         types.NewUserResponse(user),
		"organization": types.NewOrganizationResponse(user.Organization),
	})
}

func Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.Preload("Organization").First(&user, "id = ?", currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user %s: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting user info"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":         types.NewUserResponse(user),
		"organization": types.NewOrganizationResponse(user.Organization),
	})
}

func setAuthCookie(ctx *gin.Context, user models.User) {
	token, err := auth.GenerateJWT(user.ID, user.Email, user.OrganizationID, string(user.Role))

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   60 * 60 * 24 * 7,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
