package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/identity"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type memoryProfileRepo struct {
	mu       sync.Mutex
	seq      int
	profiles map[string]domain.UserProfile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[string]domain.UserProfile)}
}

func (r *memoryProfileRepo) Create(_ context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	profile.ID = fmt.Sprintf("p-%04d", r.seq)
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *memoryProfileRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, errorutil.NewNotFound("profile", nil)
	}
	return &profile, nil
}

func (r *memoryProfileRepo) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Email == email {
			p := profile
			return &p, nil
		}
	}
	return nil, errorutil.NewNotFound("profile", nil)
}

func (r *memoryProfileRepo) List(_ context.Context) ([]domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.UserProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	return result, nil
}

func (r *memoryProfileRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return errorutil.NewNotFound("profile", nil)
	}
	profile.Role = role
	profile.UpdatedAt = time.Now()
	r.profiles[id] = profile
	return nil
}

var testAuthConfig = config.AuthConfig{
	JWTSecret:             "test-secret",
	AccessTokenTTLMinutes: 60,
	BcryptCost:            4, // min cost keeps the suite fast
}

func TestSignUpCreatesProfileWithDefaultRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	changes := identity.NewBroadcaster()

	var observed []domain.Identity
	changes.OnChange(func(ident domain.Identity) {
		observed = append(observed, ident)
	})

	svc := service.NewAuthService(testAuthConfig, repo, changes)
	name := "New User"
	profile, token, exp, err := svc.SignUp(ctx, "New.User@Example.com", "hunter22", &name)
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	require.Equal(t, "new.user@example.com", profile.Email)
	require.Equal(t, domain.RoleUser, profile.Role)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, profile.ID, claims.UserID)

	require.Len(t, observed, 1)
	require.Equal(t, profile.ID, observed[0].UserID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	svc := service.NewAuthService(testAuthConfig, repo, nil)

	_, _, _, err := svc.SignUp(ctx, "dup@example.com", "password", nil)
	require.NoError(t, err)
	_, _, _, err = svc.SignUp(ctx, "dup@example.com", "password", nil)
	require.True(t, errorutil.HasCode(err, errorutil.CodeValidationFailed), "got %v", err)
}

func TestSignInVerifiesCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepo()
	svc := service.NewAuthService(testAuthConfig, repo, nil)

	created, _, _, err := svc.SignUp(ctx, "who@example.com", "correct-horse", nil)
	require.NoError(t, err)

	profile, token, _, err := svc.SignIn(ctx, "who@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, created.ID, profile.ID)
	require.NotEmpty(t, token)

	_, _, _, err = svc.SignIn(ctx, "who@example.com", "wrong")
	require.True(t, errorutil.HasCode(err, errorutil.CodeUnauthenticated), "got %v", err)

	_, _, _, err = svc.SignIn(ctx, "nobody@example.com", "whatever")
	require.True(t, errorutil.HasCode(err, errorutil.CodeUnauthenticated), "got %v", err)
}

func TestSignOutNotifiesAnonymous(t *testing.T) {
	repo := newMemoryProfileRepo()
	changes := identity.NewBroadcaster()

	var last domain.Identity
	changes.OnChange(func(ident domain.Identity) { last = ident })

	svc := service.NewAuthService(testAuthConfig, repo, changes)
	require.NoError(t, svc.SignOut(context.Background(), "some-token"))
	require.True(t, last.IsAnonymous())
}
