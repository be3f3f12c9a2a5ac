package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/notify"
	"github.com/spec-kit/crm-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

const ticketModel = "Ticket"

// TicketService is the lifecycle manager: it owns ticket state transitions
// and orchestrates audit writes and notifications around each one. The
// mutation is authoritative; audit and notification are best-effort side
// effects issued after it, audit first.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	activity   *ActivityService
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the lifecycle manager.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Activity   *ActivityService
	Dispatcher notify.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		activity:   deps.Activity,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload. Status and Priority
// are optional and default to open/medium.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	Tags        []string
	AssignedTo  *string
}

// TicketSearchQuery captures search filters, intersected with the caller's
// visibility scope.
type TicketSearchQuery struct {
	Text       *string
	Status     *domain.TicketStatus
	AssignedTo *string
}

// TicketView is a ticket with its user references resolved to projections.
type TicketView struct {
	Ticket   domain.Ticket
	Creator  *domain.UserRef
	Assignee *domain.UserRef
}

// CreateTicket creates a ticket owned by the caller. Any authenticated user
// may create tickets.
func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Caller, input TicketCreateInput) (*TicketView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("ticket title is required", nil)
	}

	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	var assignee *domain.User
	if input.AssignedTo != nil {
		found, err := s.users.GetByID(ctx, *input.AssignedTo)
		if err != nil {
			return nil, mapLookupErr(err, "user", *input.AssignedTo)
		}
		assignee = found
	}

	// tags column is NOT NULL; a nil slice would reach postgres as NULL.
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		Tags:        tags,
		CreatedBy:   caller.ID,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	actorID := caller.ID
	s.activity.Record(ctx, &actorID, domain.ActionCreate, ticketModel, ticket.ID, map[string]any{
		"created": ticketSnapshot(ticket),
	})

	if assignee != nil {
		s.send(ctx, notify.Notification{
			To:      assignee.Email,
			Subject: "New Ticket Assigned",
			Body:    fmt.Sprintf("You have been assigned a new ticket: %q.", ticket.Title),
			Channel: notify.ChannelEmail,
		})
		s.send(ctx, notify.Notification{
			To:      phoneOrPlaceholder(assignee),
			Subject: "New Ticket Assigned",
			Body:    fmt.Sprintf("Ticket %q has been assigned to you.", ticket.Title),
			Channel: notify.ChannelSMS,
		})
	}

	return s.resolveView(ctx, ticket)
}

// ListTickets returns tickets visible to the caller, newest first.
// Admin/manager see everything; everyone else only tickets they created or
// are assigned to.
func (s *TicketService) ListTickets(ctx context.Context, caller domain.Caller) ([]TicketView, error) {
	filter := repository.TicketFilter{}
	s.applyVisibilityScope(&filter, caller)

	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.resolveViews(ctx, tickets)
}

// SearchTickets filters visible tickets by free text, status, and assignee.
func (s *TicketService) SearchTickets(ctx context.Context, caller domain.Caller, query TicketSearchQuery) ([]TicketView, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": *query.Status})
	}

	filter := repository.TicketFilter{
		SearchTerm: query.Text,
		Status:     query.Status,
		AssignedTo: query.AssignedTo,
	}
	s.applyVisibilityScope(&filter, caller)

	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.resolveViews(ctx, tickets)
}

// UpdateStatus sets a new status on the ticket. Admin/manager only. Any
// enum value may follow any other; ordering is not enforced.
func (s *TicketService) UpdateStatus(ctx context.Context, caller domain.Caller, ticketID string, newStatus domain.TicketStatus) (*TicketView, error) {
	if !auth.CanMutateStatus(caller) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapLookupErr(err, "ticket", ticketID)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	actorID := caller.ID
	s.activity.Record(ctx, &actorID, domain.ActionStatusChange, ticketModel, ticket.ID, map[string]any{
		"status": map[string]any{"old": oldStatus, "new": newStatus},
	})

	if creator, err := s.users.GetByID(ctx, ticket.CreatedBy); err == nil {
		s.send(ctx, notify.Notification{
			To:      creator.Email,
			Subject: "Ticket Status Updated",
			Body:    fmt.Sprintf("Your ticket %q status changed to %q.", ticket.Title, newStatus),
			Channel: notify.ChannelEmail,
		})
	}
	if ticket.AssignedTo != nil {
		if assignee, err := s.users.GetByID(ctx, *ticket.AssignedTo); err == nil {
			s.send(ctx, notify.Notification{
				To:      assignee.Email,
				Subject: "Ticket Update",
				Body:    fmt.Sprintf("Ticket %q is now %q.", ticket.Title, newStatus),
				Channel: notify.ChannelEmail,
			})
		}
	}

	return s.resolveView(ctx, ticket)
}

// AssignTicket sets the ticket's assignee. Admin/manager only.
func (s *TicketService) AssignTicket(ctx context.Context, caller domain.Caller, ticketID, assigneeID string) (*TicketView, error) {
	if !auth.CanAssign(caller) {
		return nil, apperrors.NewForbidden("access denied")
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, mapLookupErr(err, "user", assigneeID)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapLookupErr(err, "ticket", ticketID)
	}

	oldAssignee := ticket.AssignedTo
	ticket.AssignedTo = &assignee.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	actorID := caller.ID
	s.activity.Record(ctx, &actorID, domain.ActionUpdate, ticketModel, ticket.ID, map[string]any{
		"assignedTo": map[string]any{"old": oldAssignee, "new": assignee.ID},
	})

	s.send(ctx, notify.Notification{
		To:      assignee.Email,
		Subject: "Ticket Assigned",
		Body:    fmt.Sprintf("A new ticket %q has been assigned to you.", ticket.Title),
		Channel: notify.ChannelEmail,
	})
	s.send(ctx, notify.Notification{
		To:      phoneOrPlaceholder(assignee),
		Subject: "Ticket Assigned",
		Body:    fmt.Sprintf("New ticket assigned: %q", ticket.Title),
		Channel: notify.ChannelSMS,
	})

	return s.resolveView(ctx, ticket)
}

// DeleteTicket removes the ticket permanently. Admin only.
func (s *TicketService) DeleteTicket(ctx context.Context, caller domain.Caller, ticketID string) error {
	if !auth.CanDelete(caller) {
		return apperrors.NewForbidden("access denied")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return mapLookupErr(err, "ticket", ticketID)
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return mapLookupErr(err, "ticket", ticketID)
	}

	actorID := caller.ID
	s.activity.Record(ctx, &actorID, domain.ActionDelete, ticketModel, ticket.ID, map[string]any{
		"deleted": ticketSnapshot(ticket),
	})

	if creator, err := s.users.GetByID(ctx, ticket.CreatedBy); err == nil {
		s.send(ctx, notify.Notification{
			To:      creator.Email,
			Subject: "Ticket Deleted",
			Body:    fmt.Sprintf("Your ticket %q was deleted by admin.", ticket.Title),
			Channel: notify.ChannelEmail,
		})
	}
	return nil
}

func (s *TicketService) applyVisibilityScope(filter *repository.TicketFilter, caller domain.Caller) {
	if auth.IsElevated(caller) {
		return
	}
	viewerID := caller.ID
	filter.ViewerID = &viewerID
}

// send delivers a notification without letting a failure reach the caller.
func (s *TicketService) send(ctx context.Context, n notify.Notification) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Send(ctx, n); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("channel", string(n.Channel)),
			zap.String("to", n.To),
			zap.Error(err))
	}
}

func (s *TicketService) resolveView(ctx context.Context, ticket *domain.Ticket) (*TicketView, error) {
	views, err := s.resolveViews(ctx, []domain.Ticket{*ticket})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// resolveViews projects createdBy/assignedTo references in one directory
// lookup; the persistence layer stays reference-resolution-agnostic.
func (s *TicketService) resolveViews(ctx context.Context, tickets []domain.Ticket) ([]TicketView, error) {
	idSet := make(map[string]struct{}, len(tickets)*2)
	for _, ticket := range tickets {
		idSet[ticket.CreatedBy] = struct{}{}
		if ticket.AssignedTo != nil {
			idSet[*ticket.AssignedTo] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	resolved, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		view := TicketView{Ticket: ticket}
		if user, ok := resolved[ticket.CreatedBy]; ok {
			ref := user.Ref()
			view.Creator = &ref
		}
		if ticket.AssignedTo != nil {
			if user, ok := resolved[*ticket.AssignedTo]; ok {
				ref := user.Ref()
				view.Assignee = &ref
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func ticketSnapshot(ticket *domain.Ticket) map[string]any {
	return map[string]any{
		"id":          ticket.ID,
		"title":       ticket.Title,
		"description": ticket.Description,
		"status":      ticket.Status,
		"priority":    ticket.Priority,
		"tags":        ticket.Tags,
		"createdBy":   ticket.CreatedBy,
		"assignedTo":  ticket.AssignedTo,
		"createdAt":   ticket.CreatedAt,
		"updatedAt":   ticket.UpdatedAt,
	}
}

func phoneOrPlaceholder(user *domain.User) string {
	if user.Phone != nil && *user.Phone != "" {
		return *user.Phone
	}
	return "N/A"
}

func mapLookupErr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{resource + "_id": id})
	}
	return apperrors.MapError(err)
}
