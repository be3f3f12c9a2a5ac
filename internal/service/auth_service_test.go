package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-helpdesk/internal/config"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

func newAuthEnv(users ...domain.User) (*fakeUserRepo, *AuthService) {
	repo := newFakeUserRepo(users...)
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4}
	return repo, NewAuthService(cfg, repo)
}

func TestRegister(t *testing.T) {
	t.Run("DefaultsRoleToUser", func(t *testing.T) {
		_, svc := newAuthEnv()
		user, err := svc.Register(context.Background(), RegisterInput{
			Name: "Nora", Email: "Nora@Example.com", Password: "hunter22",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, "nora@example.com", user.Email, "email normalized to lowercase")
		assert.NotEqual(t, "hunter22", user.PasswordHash)
	})

	t.Run("MissingFieldsFailValidation", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "x"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("UnknownRoleFailsValidation", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Nora", Email: "nora@example.com", Password: "hunter22", Role: domain.Role("superuser"),
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		_, svc := newAuthEnv(domain.User{ID: "u-1", Name: "Nora", Email: "nora@example.com", Role: domain.RoleUser})
		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Other Nora", Email: "nora@example.com", Password: "hunter22",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})
}

func TestLogin(t *testing.T) {
	setup := func(t *testing.T) *AuthService {
		t.Helper()
		_, svc := newAuthEnv()
		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Nora", Email: "nora@example.com", Password: "hunter22", Role: domain.RoleTester,
		})
		require.NoError(t, err)
		return svc
	}

	t.Run("IssuesTokenCarryingIdentity", func(t *testing.T) {
		svc := setup(t)
		result, err := svc.Login(context.Background(), "nora@example.com", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		assert.Equal(t, domain.RoleTester, result.User.Role)

		claims, err := svc.TokenManager().ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		assert.Equal(t, domain.RoleTester, claims.Role)
	})

	t.Run("WrongPasswordUnauthorized", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.Login(context.Background(), "nora@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("UnknownEmailUnauthorized", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.Login(context.Background(), "ghost@example.com", "hunter22")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})
}

func TestListUsers(t *testing.T) {
	t.Run("ForbiddenForRegularUsers", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.ListUsers(context.Background(), userXCaller)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("ReturnsDirectoryProjections", func(t *testing.T) {
		_, svc := newAuthEnv(
			domain.User{ID: "u-1", Name: "Ben", Email: "ben@example.com", Role: domain.RoleUser, PasswordHash: "hash"},
			domain.User{ID: "u-2", Name: "Amy", Email: "amy@example.com", Role: domain.RoleManager, PasswordHash: "hash"},
		)
		refs, err := svc.ListUsers(context.Background(), adminCaller)
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "Amy", refs[0].Name, "sorted by name")
		assert.Equal(t, "ben@example.com", refs[1].Email)
	})
}
