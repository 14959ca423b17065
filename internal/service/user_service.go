package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/identity"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService exposes admin-only profile management.
type UserService struct {
	profiles   repository.ProfileRepository
	resolver   *identity.Resolver
	dispatcher events.Dispatcher
}

// NewUserService constructs the service. resolver and dispatcher may be nil.
func NewUserService(profiles repository.ProfileRepository, resolver *identity.Resolver, dispatcher events.Dispatcher) *UserService {
	return &UserService{profiles: profiles, resolver: resolver, dispatcher: dispatcher}
}

// ListProfiles returns every profile. Admin only.
func (s *UserService) ListProfiles(ctx context.Context, caller domain.Identity) ([]domain.UserProfile, error) {
	if caller.IsAnonymous() {
		return nil, errorutil.NewUnauthenticated("sign in to manage users")
	}
	if !caller.IsAdmin() {
		return nil, errorutil.NewPermissionDenied("admin role required")
	}
	return s.profiles.List(ctx)
}

// UpdateRole changes a profile's role. Admin only; the cached identity for
// the affected user is invalidated so the new role applies immediately.
func (s *UserService) UpdateRole(ctx context.Context, caller domain.Identity, userID string, role domain.Role) error {
	if caller.IsAnonymous() {
		return errorutil.NewUnauthenticated("sign in to manage users")
	}
	if !caller.IsAdmin() {
		return errorutil.NewPermissionDenied("admin role required")
	}
	if !role.Valid() {
		return errorutil.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile.Role == role {
		return nil
	}
	if err := s.profiles.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	if s.resolver != nil {
		s.resolver.Invalidate(ctx, userID)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleChanged,
			Actor:     actorFor(caller),
			Timestamp: time.Now(),
			Payload: events.UserRoleChangedPayload{
				UserID:  userID,
				OldRole: profile.Role,
				NewRole: role,
			},
		})
	}
	return nil
}
