package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/types"
)

// GetOrganization is public: the status page needs the organization name
// before any login. Only the minimal projection leaves the server.
func GetOrganization(ctx *gin.Context) {
	var organization models.Organization

	err := db.DB.First(&organization, "id = ?", ctx.Param("organizationId")).Error

	if err != nil {
		respondError(ctx, err, "Organization not found")
		return
	}

	ctx.JSON(http.StatusOK, types.NewOrganizationResponse(organization))
}
