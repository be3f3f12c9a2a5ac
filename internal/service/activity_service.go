package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

// ActivityService owns the append-only audit trail: it records one entry per
// ticket mutation and serves the review feed.
type ActivityService struct {
	activity repository.ActivityRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(activity repository.ActivityRepository, users repository.UserRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activity: activity, users: users, logger: logger}
}

// ActivityQuery narrows the review feed.
type ActivityQuery struct {
	Action *domain.ActivityAction
	Search *string
}

// ActivityView pairs an entry with its resolved acting user.
type ActivityView struct {
	Entry domain.ActivityEntry
	User  *domain.UserRef
}

// Record appends an audit entry. A failed append is logged and swallowed: an
// audit write must never fail the mutation it describes.
func (s *ActivityService) Record(ctx context.Context, userID *string, action domain.ActivityAction, model, documentID string, changes map[string]any) {
	if changes == nil {
		changes = map[string]any{}
	}
	entry := &domain.ActivityEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		Model:      model,
		DocumentID: documentID,
		Changes:    changes,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Error("activity append failed",
			zap.String("action", string(action)),
			zap.String("document_id", documentID),
			zap.Error(err))
	}
}

// ListActivity returns the latest audit entries for review, newest first,
// with acting users projected. Restricted to admin/manager.
func (s *ActivityService) ListActivity(ctx context.Context, caller domain.Caller, query ActivityQuery) ([]ActivityView, error) {
	if !auth.Allowed(caller, auth.OpViewActivity) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if query.Action != nil && !query.Action.IsValid() {
		return nil, apperrors.NewValidationError("invalid action filter", map[string]any{"action": *query.Action})
	}

	entries, err := s.activity.List(ctx, repository.ActivityFilter{
		Action: query.Action,
		Search: query.Search,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID != nil {
			ids = append(ids, *entry.UserID)
		}
	}
	resolved, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]ActivityView, 0, len(entries))
	for _, entry := range entries {
		view := ActivityView{Entry: entry}
		if entry.UserID != nil {
			if user, ok := resolved[*entry.UserID]; ok {
				ref := user.Ref()
				view.User = &ref
			}
		}
		views = append(views, view)
	}
	return views, nil
}
