package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/utils"
	"gorm.io/gorm"
)

type CreateServiceRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Status      models.ServiceStatus `json:"status" binding:"omitempty,oneof=OPERATIONAL DEGRADED PARTIAL_OUTAGE MAJOR_OUTAGE MAINTENANCE"`
}

type UpdateServiceRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ServiceStatus `json:"status" binding:"omitempty,oneof=OPERATIONAL DEGRADED PARTIAL_OUTAGE MAJOR_OUTAGE MAINTENANCE"`
}

type ServiceHandler struct {
	recorder *actions.Recorder
}

func NewServiceHandler(recorder *actions.Recorder) *ServiceHandler {
	return &ServiceHandler{recorder: recorder}
}

// ListServices is the public status-page view: anyone holding an
// organization id can read its services with their incident history.
func (h *ServiceHandler) ListServices(ctx *gin.Context) {
	organizationID := ctx.Query("organizationId")

	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Organization ID is required"})
		return
	}

	var services []models.Service

	err := db.DB.
		Where("organization_id = ?", organizationID).
		Preload("Incidents", func(query *gorm.DB) *gorm.DB {
			return query.Order("created_at DESC")
		}).
		Preload("Incidents.Updates", func(query *gorm.DB) *gorm.DB {
			return query.Order("created_at DESC")
		}).
		Find(&services).Error

	if err != nil {
		respondError(ctx, err, "Error fetching services")
		return
	}

	ctx.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) GetService(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var service models.Service

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		Preload("Incidents", func(query *gorm.DB) *gorm.DB {
			return query.Order("created_at DESC").Limit(10)
		}).
		First(&service).Error

	if err != nil {
		respondError(ctx, err, "Service not found")
		return
	}

	ctx.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) CreateService(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateServiceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	status := body.Status

	if status == "" {
		status = models.ServiceOperational
	}

	service := models.Service{
		Name:           body.Name,
		Description:    body.Description,
		Status:         status,
		OrganizationID: currentUser.OrganizationID,
	}

	if err := db.DB.Create(&service).Error; err != nil {
		respondError(ctx, err, "Error creating service")
		return
	}

	_, err = h.recorder.Record(actions.RecordParams{
		UserID:         currentUser.ID,
		OrganizationID: currentUser.OrganizationID,
		ActionType:     models.ActionServiceStatusChanged,
		Description:    fmt.Sprintf("Created new service: %s", service.Name),
		Metadata:       map[string]interface{}{"status": service.Status},
		ServiceID:      service.ID,
	})

	if err != nil {
		respondError(ctx, err, "Error creating service")
		return
	}

	ctx.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) UpdateService(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateServiceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var service models.Service

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		First(&service).Error

	if err != nil {
		respondError(ctx, err, "Service not found")
		return
	}

	previousStatus := service.Status
	updates := map[string]interface{}{}

	if body.Name != "" {
		updates["name"] = body.Name
	}

	if body.Description != "" {
		updates["description"] = body.Description
	}

	if body.Status != "" {
		updates["status"] = body.Status
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusOK, service)
		return
	}

	if err := db.DB.Model(&service).Updates(updates).Error; err != nil {
		respondError(ctx, err, "Error updating service")
		return
	}

	if body.Status != "" && body.Status != previousStatus {
		_, err = h.recorder.Record(actions.RecordParams{
			UserID:         currentUser.ID,
			OrganizationID: currentUser.OrganizationID,
			ActionType:     models.ActionServiceStatusChanged,
			Description:    fmt.Sprintf("Updated service status to %s", body.Status),
			Metadata:       map[string]interface{}{"status": body.Status},
			ServiceID:      service.ID,
		})
	} else if body.Name != "" || body.Description != "" {
		_, err = h.recorder.Record(actions.RecordParams{
			UserID:         currentUser.ID,
			OrganizationID: currentUser.OrganizationID,
			ActionType:     models.ActionServiceStatusChanged,
			Description:    fmt.Sprintf("Updated service details for %s", service.Name),
			Metadata:       map[string]interface{}{"name": body.Name, "description": body.Description},
			ServiceID:      service.ID,
		})
	}

	if err != nil {
		respondError(ctx, err, "Error updating service")
		return
	}

	ctx.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) DeleteService(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var service models.Service

	err = db.DB.
		Where("id = ? AND organization_id = ?", ctx.Param("id"), currentUser.OrganizationID).
		First(&service).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
			return
		}
		respondError(ctx, err, "Error deleting service")
		return
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		respondError(ctx, err, "Error deleting service")
		return
	}

	ctx.Status(http.StatusNoContent)
}
