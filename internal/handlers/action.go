package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/utils"
)

type ActionHandler struct {
	recorder *actions.Recorder
}

func NewActionHandler(recorder *actions.Recorder) *ActionHandler {
	return &ActionHandler{recorder: recorder}
}

// ListActions serves the paginated audit view, always scoped to the
// caller's organization.
func (h *ActionHandler) ListActions(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := parsePositiveInt(ctx.Query("page"), 1)
	pageSize := parsePositiveInt(ctx.Query("pageSize"), actions.DefaultPageSize)

	filters := actions.Filters{
		ActionType: models.ActionType(ctx.Query("actionType")),
		ServiceID:  ctx.Query("serviceId"),
		IncidentID: ctx.Query("incidentId"),
	}

	result, err := h.recorder.List(currentUser.OrganizationID, filters, page, pageSize)

	if err != nil {
		respondError(ctx, err, "Failed to fetch actions")
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)

	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}
