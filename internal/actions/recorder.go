package actions

import (
	"encoding/json"
	"log"
	"math"

	"github.com/statusdeck/statusdeck/internal/models"
	"gorm.io/gorm"
)

const DefaultPageSize = 10

// Broadcaster receives every successfully recorded action. Satisfied by
// *realtime.Hub.
type Broadcaster interface {
	BroadcastAction(action *models.UserAction)
}

// Recorder persists the audit trail and hands each new entry to the
// broadcaster. Recording happens after the primary mutation commits; a
// failed audit write propagates to the caller but never rolls the primary
// mutation back.
type Recorder struct {
	db          *gorm.DB
	broadcaster Broadcaster
}

func NewRecorder(db *gorm.DB, broadcaster Broadcaster) *Recorder {
	return &Recorder{db: db, broadcaster: broadcaster}
}

type RecordParams struct {
	UserID         string
	OrganizationID string
	ActionType     models.ActionType
	Description    string
	Metadata       map[string]interface{}
	ServiceID      string
	IncidentID     string
}

// Record appends one audit entry and broadcasts it to the organization's
// room. A missing organization ID makes this a silent no-op rather than an
// error, guarding against malformed calls.
func (r *Recorder) Record(params RecordParams) (*models.UserAction, error) {
	if params.OrganizationID == "" {
		return nil, nil
	}

	action := models.UserAction{
		ActionType:     params.ActionType,
		Description:    params.Description,
		UserID:         params.UserID,
		OrganizationID: params.OrganizationID,
	}

	if params.ServiceID != "" {
		action.ServiceID = &params.ServiceID
	}

	if params.IncidentID != "" {
		action.IncidentID = &params.IncidentID
	}

	if params.Metadata != nil {
		metadata, err := json.Marshal(params.Metadata)

		if err != nil {
			return nil, err
		}

		action.Metadata = metadata
	}

	if err := r.db.Create(&action).Error; err != nil {
		log.Printf("Failed to record action %s: %v", params.ActionType, err)
		return nil, err
	}

	if r.broadcaster != nil {
		r.broadcaster.BroadcastAction(&action)
	}

	return &action, nil
}

type Filters struct {
	ActionType models.ActionType
	ServiceID  string
	IncidentID string
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ServiceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type IncidentSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ActionView is an action joined with minimal projections of the acting
// user and the related service and incident.
type ActionView struct {
	models.UserAction
	User     UserSummary      `json:"user"`
	Service  *ServiceSummary  `json:"service,omitempty"`
	Incident *IncidentSummary `json:"incident,omitempty"`
}

type Page struct {
	Actions    []ActionView `json:"actions"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

// List returns one page of the organization's audit trail, newest first.
func (r *Recorder) List(organizationID string, filters Filters, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	scope := func(query *gorm.DB) *gorm.DB {
		query = query.Where("organization_id = ?", organizationID)

		if filters.ActionType != "" {
			query = query.Where("action_type = ?", filters.ActionType)
		}

		if filters.ServiceID != "" {
			query = query.Where("service_id = ?", filters.ServiceID)
		}

		if filters.IncidentID != "" {
			query = query.Where("incident_id = ?", filters.IncidentID)
		}

		return query
	}

	var total int64

	if err := scope(r.db.Model(&models.UserAction{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.UserAction

	err := scope(r.db).
		Preload("User").
		Preload("Service").
		Preload("Incident").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error

	if err != nil {
		return nil, err
	}

	views := make([]ActionView, 0, len(rows))

	for _, row := range rows {
		view := ActionView{
			UserAction: row,
			User: UserSummary{
				ID:    row.User.ID,
				Name:  row.User.Name,
				Email: row.User.Email,
			},
		}

		if row.Service != nil {
			view.Service = &ServiceSummary{ID: row.Service.ID, Name: row.Service.Name}
		}

		if row.Incident != nil {
			view.Incident = &IncidentSummary{ID: row.Incident.ID, Title: row.Incident.Title}
		}

		views = append(views, view)
	}

	return &Page{
		Actions:    views,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}
