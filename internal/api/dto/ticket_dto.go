package dto

import (
	"time"

	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Tags        []string              `json:"tags"`
	AssignedTo  *string               `json:"assigned_to"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// UserRefResponse is the projected view of a referenced user.
type UserRefResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// TicketResponse is a ticket with resolved references.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Tags        []string              `json:"tags"`
	CreatedBy   *UserRefResponse      `json:"created_by"`
	AssignedTo  *UserRefResponse      `json:"assigned_to"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// FromTicketView maps a service view to the response shape.
func FromTicketView(view *service.TicketView) TicketResponse {
	return TicketResponse{
		ID:          view.Ticket.ID,
		Title:       view.Ticket.Title,
		Description: view.Ticket.Description,
		Status:      view.Ticket.Status,
		Priority:    view.Ticket.Priority,
		Tags:        view.Ticket.Tags,
		CreatedBy:   fromUserRef(view.Creator),
		AssignedTo:  fromUserRef(view.Assignee),
		CreatedAt:   view.Ticket.CreatedAt,
		UpdatedAt:   view.Ticket.UpdatedAt,
	}
}

func fromUserRef(ref *domain.UserRef) *UserRefResponse {
	if ref == nil {
		return nil
	}
	return &UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email, Role: ref.Role}
}
