package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/utils"
	"gorm.io/gorm"
)

type CreateMaintenanceRequest struct {
	ServiceID string    `json:"serviceId" binding:"required"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
	Notes     string    `json:"notes"`
}

type UpdateMaintenanceRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	Notes *string    `json:"notes"`
}

type MaintenanceHandler struct {
	recorder *actions.Recorder
}

func NewMaintenanceHandler(recorder *actions.Recorder) *MaintenanceHandler {
	return &MaintenanceHandler{recorder: recorder}
}

// ListMaintenances returns the caller's services each with their scheduled
// windows, the shape the maintenance calendar consumes.
func (h *MaintenanceHandler) ListMaintenances(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var services []models.Service

	err = db.DB.
		Where("organization_id = ?", currentUser.OrganizationID).
		Preload("Maintenances", func(query *gorm.DB) *gorm.DB {
			return query.Order("start ASC")
		}).
		Find(&services).Error

	if err != nil {
		respondError(ctx, err, "Error fetching maintenances")
		return
	}

	ctx.JSON(http.StatusOK, services)
}

func (h *MaintenanceHandler) GetMaintenance(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	maintenance, err := h.findInOrganization(ctx.Param("id"), currentUser.OrganizationID)

	if err != nil {
		respondError(ctx, err, "Maintenance not found")
		return
	}

	ctx.JSON(http.StatusOK, maintenance)
}

func (h *MaintenanceHandler) CreateMaintenance(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateMaintenanceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if err := domain.ValidateNewWindow(body.Start, body.End, time.Now()); err != nil {
		respondError(ctx, err, "Validation failed")
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

	maintenance := models.ServiceMaintenance{
		ServiceID: service.ID,
		Start:     body.Start,
		End:       body.End,
		Notes:     body.Notes,
	}

	if err := db.DB.Create(&maintenance).Error; err != nil {
		respondError(ctx, err, "Error creating maintenance")
		return
	}

	maintenance.Service = service

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     models.ActionMaintenanceScheduled,
		Description:    fmt.Sprintf("Scheduled maintenance for %s", service.Name),
		Metadata: map[string]interface{}{
			"maintenanceId": maintenance.ID,
			"start":         maintenance.Start,
			"end":           maintenance.End,
		},
		ServiceID: service.ID,
	})

	if err != nil {
		respondError(ctx, err, "Error creating maintenance")
		return
	}

	ctx.JSON(http.StatusCreated, maintenance)
}

func (h *MaintenanceHandler) UpdateMaintenance(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateMaintenanceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if err := domain.ValidateWindowUpdate(body.Start, body.End); err != nil {
		respondError(ctx, err, "Validation failed")
		return
	}

	maintenance, err := h.findInOrganization(ctx.Param("id"), currentUser.OrganizationID)

	if err != nil {
		respondError(ctx, err, "Maintenance not found")
		return
	}

	updates := map[string]interface{}{}

	if body.Start != nil {
		updates["start"] = *body.Start
	}

	if body.End != nil {
		updates["end"] = *body.End
	}

	if body.Notes != nil {
		updates["notes"] = *body.Notes
	}

	if len(updates) > 0 {
		if err := db.DB.Model(maintenance).Updates(updates).Error; err != nil {
			respondError(ctx, err, "Error updating maintenance")
			return
		}
	}

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     models.ActionMaintenanceScheduled,
		Description:    fmt.Sprintf("Updated maintenance for %s", maintenance.Service.Name),
		Metadata: map[string]interface{}{
			"maintenanceId": maintenance.ID,
			"start":         maintenance.Start,
			"end":           maintenance.End,
		},
		ServiceID: maintenance.ServiceID,
	})

	if err != nil {
		respondError(ctx, err, "Error updating maintenance")
		return
	}

	ctx.JSON(http.StatusOK, maintenance)
}

func (h *MaintenanceHandler) DeleteMaintenance(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	maintenance, err := h.findInOrganization(ctx.Param("id"), currentUser.OrganizationID)

	if err != nil {
		respondError(ctx, err, "Maintenance not found")
		return
	}

	if err := db.DB.Delete(maintenance).Error; err != nil {
		respondError(ctx, err, "Error deleting maintenance")
		return
	}

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     models.ActionMaintenanceCompleted,
		Description:    fmt.Sprintf("Deleted maintenance for %s", maintenance.Service.Name),
		Metadata:       map[string]interface{}{"maintenanceId": maintenance.ID},
		ServiceID:      maintenance.ServiceID,
	})

	if err != nil {
		respondError(ctx, err, "Error deleting maintenance")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// findInOrganization scopes a maintenance window through its owning service;
// windows of other tenants are indistinguishable from absent ones.
func (h *MaintenanceHandler) findInOrganization(id, organizationID string) (*models.ServiceMaintenance, error) {
	var maintenance models.ServiceMaintenance

	err := db.DB.
		Joins("JOIN services ON services.id = service_maintenances.service_id").
		Where("service_maintenances.id = ? AND services.organization_id = ?", id, organizationID).
		Preload("Service").
		First(&maintenance).Error

	if err != nil {
		return nil, err
	}

	return &maintenance, nil
}
