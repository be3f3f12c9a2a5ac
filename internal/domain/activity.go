package domain

import "time"

// ActivityAction captures the kind of state change an audit entry records.
type ActivityAction string

const (
	ActionCreate       ActivityAction = "CREATE"
	ActionUpdate       ActivityAction = "UPDATE"
	ActionDelete       ActivityAction = "DELETE"
	ActionStatusChange ActivityAction = "STATUS_CHANGE"
)

// IsValid reports whether the action is a member of the closed enum.
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionStatusChange:
		return true
	}
	return false
}

// ActivityEntry is an immutable audit trail record. Entries are written once
// per mutation and never updated or deleted. UserID is nil for system
// actions.
type ActivityEntry struct {
	ID         string
	UserID     *string
	Action     ActivityAction
	Model      string
	DocumentID string
	Changes    map[string]any
	CreatedAt  time.Time
}
