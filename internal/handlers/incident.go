package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/utils"
	"gorm.io/gorm"
)

type CreateIncidentRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	ServiceID   string        `json:"serviceId" binding:"required"`
	Impact      models.Impact `json:"impact" binding:"omitempty,oneof=MINOR MAJOR CRITICAL"`
}

type UpdateIncidentRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      models.IncidentStatus `json:"status"`
	Impact      models.Impact         `json:"impact" binding:"omitempty,oneof=MINOR MAJOR CRITICAL"`
}

type AddStatusUpdateRequest struct {
	Message string                `json:"message" binding:"required"`
	Status  models.IncidentStatus `json:"status" binding:"required"`
}

type IncidentHandler struct {
	recorder *actions.Recorder
}

func NewIncidentHandler(recorder *actions.Recorder) *IncidentHandler {
	return &IncidentHandler{recorder: recorder}
}

func (h *IncidentHandler) ListIncidents(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var incidents []models.Incident

	err = db.DB.
		Where("organization_id = ?", currentUser.OrganizationID).
		Preload("Service").
		Preload("Updates", func(query *gorm.DB) *gorm.DB {
			return query.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Find(&incidents).Error

	if err != nil {
		respondError(ctx, err, "Error fetching incidents")
		return
	}

	ctx.JSON(http.StatusOK, incidents)
}

func (h *IncidentHandler) GetIncident(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var incident models.Incident

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		Preload("Service").
		Preload("Updates", func(query *gorm.DB) *gorm.DB {
			return query.Order("created_at DESC")
		}).
		First(&incident).Error

	if err != nil {
		respondError(ctx, err, "Incident not found")
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) CreateIncident(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateIncidentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var service models.Service

	err = db.DB.
		Where("id = ? AND organization_id = ?", body.ServiceID, currentUser.OrganizationID).
		First(&service).Error

	if err != nil {
		respondError(ctx, err, "Service not found")
		return
	}

	impact := body.Impact

	if impact == "" {
		impact = models.ImpactMinor
	}

	incident := models.Incident{
		Title:          body.Title,
		Description:    body.Description,
		Impact:         impact,
		Status:         models.IncidentInvestigating,
		ServiceID:      service.ID,
		OrganizationID: currentUser.OrganizationID,
	}

	if err := db.DB.Create(&incident).Error; err != nil {
		respondError(ctx, err, "Error creating incident")
		return
	}

	incident.Service = service

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     models.ActionIncidentCreated,
		Description:    fmt.Sprintf("Created incident: %s", incident.Title),
		Metadata:       map[string]interface{}{"impact": incident.Impact},
		ServiceID:      service.ID,
		IncidentID:     incident.ID,
	})

	if err != nil {
		respondError(ctx, err, "Error creating incident")
		return
	}

	ctx.JSON(http.StatusCreated, incident)
}

func (h *IncidentHandler) UpdateIncident(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateIncidentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var incident models.Incident

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		First(&incident).Error

	if err != nil {
		respondError(ctx, err, "Incident not found")
		return
	}

	updates := map[string]interface{}{}

	if body.Title != "" {
		updates["title"] = body.Title
	}

	if body.Description != "" {
		updates["description"] = body.Description
	}

	if body.Status != "" {
		updates["status"] = body.Status
	}

	if body.Impact != "" {
		updates["impact"] = body.Impact
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&incident).Updates(updates).Error; err != nil {
			respondError(ctx, err, "Error updating incident")
			return
		}
	}

	// Resolving selects a distinct action type; every other status change is
	// an ordinary update. No transition is rejected.
	actionType := models.ActionIncidentUpdated
	verb := "Updated"

	if body.Status == models.IncidentResolved {
		actionType = models.ActionIncidentResolved
		verb = "Resolved"
	}

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     actionType,
		Description:    fmt.Sprintf("%s incident: %s", verb, incident.Title),
		Metadata:       map[string]interface{}{"status": body.Status, "impact": body.Impact},
		ServiceID:      incident.ServiceID,
		IncidentID:     incident.ID,
	})

	if err != nil {
		respondError(ctx, err, "Error updating incident")
		return
	}

	if err := db.DB.Preload("Service").First(&incident, "id = ?", incident.ID).Error; err != nil {
		respondError(ctx, err, "Error updating incident")
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) DeleteIncident(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var incident models.Incident

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		First(&incident).Error

	if err != nil {
		respondError(ctx, err, "Incident not found")
		return
	}

	if err := db.DB.Delete(&incident).Error; err != nil {
		respondError(ctx, err, "Error deleting incident")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *IncidentHandler) AddStatusUpdate(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body AddStatusUpdateRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var incident models.Incident

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		First(&incident).Error

	if err != nil {
		respondError(ctx, err, "Incident not found")
		return
	}

	statusUpdate := models.StatusUpdate{
		Message:     body.Message,
		Status:      body.Status,
		IncidentID:  incident.ID,
		CreatedByID: currentUser.ID,
	}

	if err := db.DB.Create(&statusUpdate).Error; err != nil {
		respondError(ctx, err, "Error adding status update")
		return
	}

	if err := db.DB.Model(&incident).Update("status", body.Status).Error; err != nil {
		respondError(ctx, err, "Error adding status update")
		return
	}

	actionType := models.ActionIncidentUpdated
	verb := "Updated"

	if body.Status == models.IncidentResolved {
		actionType = models.ActionIncidentResolved
		verb = "Resolved"
	}

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     actionType,
		Description:    fmt.Sprintf("%s incident: %s", verb, incident.Title),
		Metadata:       map[string]interface{}{"status": body.Status},
		ServiceID:      incident.ServiceID,
		IncidentID:     incident.ID,
	})

	if err != nil {
		respondError(ctx, err, "Error adding status update")
		return
	}

	if err := db.DB.Preload("CreatedBy").First(&statusUpdate, "id = ?", statusUpdate.ID).Error; err != nil {
		respondError(ctx, err, "Error adding status update")
		return
	}

	ctx.JSON(http.StatusCreated, statusUpdate)
}
