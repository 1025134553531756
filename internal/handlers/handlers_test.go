package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/middleware"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/statusdeck/statusdeck/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupHandlerDB points the package-level connection at a fresh in-memory
// database for the duration of one test.
func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Service{},
		&models.Incident{},
		&models.StatusUpdate{},
		&models.ServiceMaintenance{},
		&models.UserAction{},
		&models.EmailOTP{},
	))

	previous := db.DB
	db.DB = testDB
	t.Cleanup(func() { db.DB = previous })

	return testDB
}

func seedAdmin(t *testing.T, testDB *gorm.DB) middleware.AuthenticatedUser {
	t.Helper()

	org := models.Organization{Name: "Acme"}
	require.NoError(t, testDB.Create(&org).Error)

	user := models.User{
		Name:           "Grace",
		Email:          "grace@acme.test",
		Role:           models.RoleAdmin,
		Status:         models.StatusActive,
		OrganizationID: org.ID,
	}
	require.NoError(t, testDB.Create(&user).Error)

	return middleware.AuthenticatedUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: org.ID,
		Status:         user.Status,
	}
}

// newTestContext builds a gin context carrying an authenticated user and an
// optional JSON body, the way the middleware chain would.
func newTestContext(t *testing.T, user middleware.AuthenticatedUser, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	ctx.Request = httptest.NewRequest(http.MethodPost, "/", reader)
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Set(types.ContextUserKey, user)

	return ctx, recorder
}

// newPublicContext is newTestContext without an authenticated user, for the
// endpoints that sit outside the auth middleware.
func newPublicContext(t *testing.T, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	ctx.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	ctx.Request.Header.Set("Content-Type", "application/json")

	return ctx, recorder
}

func setParam(ctx *gin.Context, key, value string) {
	ctx.Params = append(ctx.Params, gin.Param{Key: key, Value: value})
}

func loadActions(t *testing.T, testDB *gorm.DB, organizationID string) []models.UserAction {
	t.Helper()

	var recorded []models.UserAction
	require.NoError(t, testDB.
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&recorded).Error)

	return recorded
}

func metadataOf(t *testing.T, action models.UserAction) map[string]interface{} {
	t.Helper()

	meta := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(action.Metadata, &meta))

	return meta
}

func newTestRecorder(testDB *gorm.DB) *actions.Recorder {
	return actions.NewRecorder(testDB, nil)
}
