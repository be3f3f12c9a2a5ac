package auth

import "github.com/spec-kit/crm-helpdesk/internal/domain"

// Operation names a guarded lifecycle operation.
type Operation string

const (
	OpMutateStatus Operation = "mutate_status"
	OpAssign       Operation = "assign"
	OpDelete       Operation = "delete"
	OpViewActivity Operation = "view_activity"
	OpViewReports  Operation = "view_reports"
	OpListUsers    Operation = "list_users"
)

// allowedRoles maps each guarded operation to the roles permitted to run it.
// Stateless: evaluated fresh per call.
var allowedRoles = map[Operation][]domain.Role{
	OpMutateStatus: {domain.RoleAdmin, domain.RoleManager},
	OpAssign:       {domain.RoleAdmin, domain.RoleManager},
	OpDelete:       {domain.RoleAdmin},
	OpViewActivity: {domain.RoleAdmin, domain.RoleManager},
	OpViewReports:  {domain.RoleAdmin, domain.RoleManager},
	OpListUsers:    {domain.RoleAdmin, domain.RoleManager},
}

// Allowed reports whether the caller's role may run the operation.
func Allowed(caller domain.Caller, op Operation) bool {
	for _, role := range allowedRoles[op] {
		if caller.Role == role {
			return true
		}
	}
	return false
}

// IsElevated reports whether the caller sees every ticket.
func IsElevated(caller domain.Caller) bool {
	return caller.Role == domain.RoleAdmin || caller.Role == domain.RoleManager
}

// CanView reports whether the caller may see the ticket: elevated roles see
// everything, everyone else only tickets they created or are assigned to.
func CanView(caller domain.Caller, ticket *domain.Ticket) bool {
	if IsElevated(caller) {
		return true
	}
	if ticket.CreatedBy == caller.ID {
		return true
	}
	return ticket.AssignedTo != nil && *ticket.AssignedTo == caller.ID
}

// CanMutateStatus reports whether the caller may change ticket status.
func CanMutateStatus(caller domain.Caller) bool {
	return Allowed(caller, OpMutateStatus)
}

// CanAssign reports whether the caller may reassign tickets.
func CanAssign(caller domain.Caller) bool {
	return Allowed(caller, OpAssign)
}

// CanDelete reports whether the caller may delete tickets.
func CanDelete(caller domain.Caller) bool {
	return Allowed(caller, OpDelete)
}
