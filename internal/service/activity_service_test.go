package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

func newActivityEnv() (*fakeActivityRepo, *fakeUserRepo, *ActivityService) {
	users := newFakeUserRepo(
		domain.User{ID: "admin-1", Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin},
		domain.User{ID: "user-x", Name: "Xavier", Email: "xavier@example.com", Role: domain.RoleUser},
	)
	repo := &fakeActivityRepo{}
	return repo, users, NewActivityService(repo, users, zap.NewNop())
}

func TestRecord(t *testing.T) {
	t.Run("AssignsIDAndDefaultsChanges", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		actor := "admin-1"
		svc.Record(context.Background(), &actor, domain.ActionCreate, "Ticket", "t-1", nil)

		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "Ticket", entry.Model)
		assert.Equal(t, "t-1", entry.DocumentID)
		assert.NotNil(t, entry.Changes)
	})

	t.Run("SwallowsAppendFailure", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		repo.failAppend = true
		actor := "admin-1"
		// must not panic or surface the error
		svc.Record(context.Background(), &actor, domain.ActionDelete, "Ticket", "t-1", nil)
		assert.Empty(t, repo.entries)
	})
}

func TestListActivity(t *testing.T) {
	seed := func(repo *fakeActivityRepo, svc *ActivityService, n int) {
		actor := "admin-1"
		for i := 0; i < n; i++ {
			action := domain.ActionUpdate
			if i%2 == 0 {
				action = domain.ActionCreate
			}
			svc.Record(context.Background(), &actor, action, "Ticket", fmt.Sprintf("t-%d", i), nil)
		}
	}

	t.Run("ForbiddenForRegularUsers", func(t *testing.T) {
		_, _, svc := newActivityEnv()
		_, err := svc.ListActivity(context.Background(), userXCaller, ActivityQuery{})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("NewestFirstCappedAtFifty", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		seed(repo, svc, 60)

		views, err := svc.ListActivity(context.Background(), adminCaller, ActivityQuery{})
		require.NoError(t, err)
		require.Len(t, views, 50)
		assert.Equal(t, "t-59", views[0].Entry.DocumentID)
	})

	t.Run("FiltersByAction", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		seed(repo, svc, 6)

		action := domain.ActionCreate
		views, err := svc.ListActivity(context.Background(), adminCaller, ActivityQuery{Action: &action})
		require.NoError(t, err)
		require.Len(t, views, 3)
		for _, view := range views {
			assert.Equal(t, domain.ActionCreate, view.Entry.Action)
		}
	})

	t.Run("RejectsUnknownAction", func(t *testing.T) {
		_, _, svc := newActivityEnv()
		bad := domain.ActivityAction("ARCHIVE")
		_, err := svc.ListActivity(context.Background(), adminCaller, ActivityQuery{Action: &bad})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("SearchMatchesModelCaseInsensitive", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		seed(repo, svc, 4)

		search := "ticK"
		views, err := svc.ListActivity(context.Background(), adminCaller, ActivityQuery{Search: &search})
		require.NoError(t, err)
		assert.Len(t, views, 4)

		miss := "user"
		views, err = svc.ListActivity(context.Background(), adminCaller, ActivityQuery{Search: &miss})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("ResolvesActingUser", func(t *testing.T) {
		repo, _, svc := newActivityEnv()
		actor := "admin-1"
		svc.Record(context.Background(), &actor, domain.ActionCreate, "Ticket", "t-1", nil)
		unknown := "gone"
		svc.Record(context.Background(), &unknown, domain.ActionUpdate, "Ticket", "t-1", nil)
		require.Len(t, repo.entries, 2)

		views, err := svc.ListActivity(context.Background(), adminCaller, ActivityQuery{})
		require.NoError(t, err)
		require.Len(t, views, 2)
		// newest first: the unknown actor projects to nil, not an error
		assert.Nil(t, views[0].User)
		require.NotNil(t, views[1].User)
		assert.Equal(t, "Ada Admin", views[1].User.Name)
	})
}
