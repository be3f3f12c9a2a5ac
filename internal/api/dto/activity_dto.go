package dto

import (
	"time"

	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/service"
)

// ActivityResponse is an audit entry with its acting user resolved.
type ActivityResponse struct {
	ID         string                `json:"id"`
	User       *UserRefResponse      `json:"user"`
	Action     domain.ActivityAction `json:"action"`
	Model      string                `json:"model"`
	DocumentID string                `json:"document_id"`
	Changes    map[string]any        `json:"changes"`
	CreatedAt  time.Time             `json:"created_at"`
}

// FromActivityView maps a service view to the response shape.
func FromActivityView(view *service.ActivityView) ActivityResponse {
	return ActivityResponse{
		ID:         view.Entry.ID,
		User:       fromUserRef(view.User),
		Action:     view.Entry.Action,
		Model:      view.Entry.Model,
		DocumentID: view.Entry.DocumentID,
		Changes:    view.Entry.Changes,
		CreatedAt:  view.Entry.CreatedAt,
	}
}
