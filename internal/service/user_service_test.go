package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func seedProfile(t *testing.T, repo *memoryProfileRepo, email string, role domain.Role) *domain.UserProfile {
	t.Helper()
	profile := &domain.UserProfile{Email: email, Role: domain.RoleUser, PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), profile))
	if role != domain.RoleUser {
		require.NoError(t, repo.UpdateRole(context.Background(), profile.ID, role))
		profile.Role = role
	}
	return profile
}

func TestListProfilesAdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	seedProfile(t, repo, "one@example.com", domain.RoleUser)
	seedProfile(t, repo, "two@example.com", domain.RoleSupport)

	svc := service.NewUserService(repo, nil, nil)

	profiles, err := svc.ListProfiles(ctx, adminUser)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	_, err = svc.ListProfiles(ctx, supportUser)
	require.True(t, errorutil.HasCode(err, errorutil.CodePermissionDenied), "got %v", err)

	_, err = svc.ListProfiles(ctx, plainUser)
	require.True(t, errorutil.HasCode(err, errorutil.CodePermissionDenied), "got %v", err)

	_, err = svc.ListProfiles(ctx, domain.Anonymous())
	require.True(t, errorutil.HasCode(err, errorutil.CodeUnauthenticated), "got %v", err)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	target := seedProfile(t, repo, "promote@example.com", domain.RoleUser)

	dispatcher := &recordingDispatcher{}
	svc := service.NewUserService(repo, nil, dispatcher)

	require.NoError(t, svc.UpdateRole(ctx, adminUser, target.ID, domain.RoleSupport))

	updated, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSupport, updated.Role)

	require.Len(t, dispatcher.events, 1)
	require.Equal(t, events.EventUserRoleChanged, dispatcher.events[0].Type)
	payload, ok := dispatcher.events[0].Payload.(events.UserRoleChangedPayload)
	require.True(t, ok)
	require.Equal(t, domain.RoleUser, payload.OldRole)
	require.Equal(t, domain.RoleSupport, payload.NewRole)
}

func TestUpdateRoleGuards(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	target := seedProfile(t, repo, "target@example.com", domain.RoleUser)
	svc := service.NewUserService(repo, nil, nil)

	err := svc.UpdateRole(ctx, supportUser, target.ID, domain.RoleAdmin)
	require.True(t, errorutil.HasCode(err, errorutil.CodePermissionDenied), "got %v", err)

	err = svc.UpdateRole(ctx, adminUser, target.ID, domain.Role("owner"))
	require.True(t, errorutil.HasCode(err, errorutil.CodeValidationFailed), "got %v", err)

	err = svc.UpdateRole(ctx, adminUser, "no-such-user", domain.RoleSupport)
	require.True(t, errorutil.HasCode(err, errorutil.CodeNotFound), "got %v", err)

	// role unchanged throughout
	current, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, current.Role)
}
