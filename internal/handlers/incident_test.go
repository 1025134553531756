package handlers

import (
	"net/http"
	"testing"

	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedService(t *testing.T, testDB *gorm.DB, organizationID string) models.Service {
	t.Helper()

	service := models.Service{
		Name:           "API",
		Status:         models.ServiceOperational,
		OrganizationID: organizationID,
	}
	require.NoError(t, testDB.Create(&service).Error)

	return service
}

func TestCreateIncidentDefaults(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	service := seedService(t, testDB, admin.OrganizationID)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	ctx, recorder := newTestContext(t, admin, CreateIncidentRequest{
		Title:     "API down",
		ServiceID: service.ID,
	})

	handler.CreateIncident(ctx)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var incident models.Incident
	require.NoError(t, testDB.First(&incident, "title = ?", "API down").Error)
	assert.Equal(t, models.IncidentInvestigating, incident.Status)
	assert.Equal(t, models.ImpactMinor, incident.Impact)

	recorded := loadActions(t, testDB, admin.OrganizationID)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionIncidentCreated, recorded[0].ActionType)
	assert.Equal(t, "MINOR", metadataOf(t, recorded[0])["impact"])
	require.NotNil(t, recorded[0].IncidentID)
	assert.Equal(t, incident.ID, *recorded[0].IncidentID)
}

func TestCreateIncidentForeignServiceRejected(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	other := models.Organization{Name: "Rival"}
	require.NoError(t, testDB.Create(&other).Error)
	foreign := seedService(t, testDB, other.ID)

	ctx, recorder := newTestContext(t, admin, CreateIncidentRequest{
		Title:     "Not ours",
		ServiceID: foreign.ID,
	})

	handler.CreateIncident(ctx)

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var count int64
	require.NoError(t, testDB.Model(&models.Incident{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResolveIncidentRecordsResolvedAction(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	service := seedService(t, testDB, admin.OrganizationID)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	incident := models.Incident{
		Title:          "API down",
		Status:         models.IncidentMonitoring,
		Impact:         models.ImpactMajor,
		ServiceID:      service.ID,
		OrganizationID: admin.OrganizationID,
	}
	require.NoError(t, testDB.Create(&incident).Error)

	ctx, recorder := newTestContext(t, admin, UpdateIncidentRequest{
		Status: models.IncidentResolved,
	})
	setParam(ctx, "id", incident.ID)

	handler.UpdateIncident(ctx)

	require.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Incident
	require.NoError(t, testDB.First(&updated, "id = ?", incident.ID).Error)
	assert.Equal(t, models.IncidentResolved, updated.Status)

	recorded := loadActions(t, testDB, admin.OrganizationID)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionIncidentResolved, recorded[0].ActionType)
	assert.Contains(t, recorded[0].Description, "Resolved")
}

func TestUpdateIncidentNonResolvingStatus(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	service := seedService(t, testDB, admin.OrganizationID)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	incident := models.Incident{
		Title:          "API down",
		Status:         models.IncidentInvestigating,
		Impact:         models.ImpactMinor,
		ServiceID:      service.ID,
		OrganizationID: admin.OrganizationID,
	}
	require.NoError(t, testDB.Create(&incident).Error)

	ctx, recorder := newTestContext(t, admin, UpdateIncidentRequest{
		Status: models.IncidentIdentified,
		Impact: models.ImpactCritical,
	})
	setParam(ctx, "id", incident.ID)

	handler.UpdateIncident(ctx)

	require.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Incident
	require.NoError(t, testDB.First(&updated, "id = ?", incident.ID).Error)
	assert.Equal(t, models.IncidentIdentified, updated.Status)
	assert.Equal(t, models.ImpactCritical, updated.Impact)

	recorded := loadActions(t, testDB, admin.OrganizationID)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionIncidentUpdated, recorded[0].ActionType)
}

func TestAddStatusUpdateAdvancesIncident(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	service := seedService(t, testDB, admin.OrganizationID)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	incident := models.Incident{
		Title:          "API down",
		Status:         models.IncidentInvestigating,
		Impact:         models.ImpactMajor,
		ServiceID:      service.ID,
		OrganizationID: admin.OrganizationID,
	}
	require.NoError(t, testDB.Create(&incident).Error)

	ctx, recorder := newTestContext(t, admin, AddStatusUpdateRequest{
		Message: "Root cause identified, deploying a fix",
		Status:  models.IncidentIdentified,
	})
	setParam(ctx, "id", incident.ID)

	handler.AddStatusUpdate(ctx)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var update models.StatusUpdate
	require.NoError(t, testDB.First(&update, "incident_id = ?", incident.ID).Error)
	assert.Equal(t, models.IncidentIdentified, update.Status)
	assert.Equal(t, admin.ID, update.CreatedByID)

	// The incident mirrors the latest update's status.
	var updated models.Incident
	require.NoError(t, testDB.First(&updated, "id = ?", incident.ID).Error)
	assert.Equal(t, models.IncidentIdentified, updated.Status)
}

func TestAddStatusUpdateResolvingRecordsResolvedAction(t *testing.T) {
	testDB := setupHandlerDB(t)
	admin := seedAdmin(t, testDB)
	service := seedService(t, testDB, admin.OrganizationID)
	handler := NewIncidentHandler(newTestRecorder(testDB))

	incident := models.Incident{
		Title:          "API down",
		Status:         models.IncidentMonitoring,
		Impact:         models.ImpactMajor,
		ServiceID:      service.ID,
		OrganizationID: admin.OrganizationID,
	}
	require.NoError(t, testDB.Create(&incident).Error)

	ctx, recorder := newTestContext(t, admin, AddStatusUpdateRequest{
		Message: "All clear",
		Status:  models.IncidentResolved,
	})
	setParam(ctx, "id", incident.ID)

	handler.AddStatusUpdate(ctx)

	require.Equal(t, http.StatusCreated, recorder.Code)

	recorded := loadActions(t, testDB, admin.OrganizationID)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionIncidentResolved, recorded[0].ActionType)
}
