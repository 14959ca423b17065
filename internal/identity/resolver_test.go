package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/identity"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
	"go.uber.org/zap"
)

type fakeProfileRepo struct {
	profiles    map[string]domain.UserProfile
	err         error
	sawDeadline bool
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	_, r.sawDeadline = ctx.Deadline()
	if r.err != nil {
		return nil, r.err
	}
	profile, ok := r.profiles[id]
	if !ok {
		return nil, errorutil.NewNotFound("profile", nil)
	}
	return &profile, nil
}

func (r *fakeProfileRepo) Create(context.Context, *domain.UserProfile) error { return nil }
func (r *fakeProfileRepo) GetByEmail(context.Context, string) (*domain.UserProfile, error) {
	return nil, errorutil.NewNotFound("profile", nil)
}
func (r *fakeProfileRepo) List(context.Context) ([]domain.UserProfile, error) { return nil, nil }
func (r *fakeProfileRepo) UpdateRole(context.Context, string, domain.Role) error {
	return nil
}

func TestResolveAnonymousWithoutSubject(t *testing.T) {
	resolver := identity.NewResolver(&fakeProfileRepo{}, nil, 0, 0, zap.NewNop())
	ident := resolver.Resolve(context.Background(), "", "")
	require.True(t, ident.IsAnonymous())
}

func TestResolveUsesProfileRole(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]domain.UserProfile{
		"s1": {ID: "s1", Email: "s1@example.com", Role: domain.RoleSupport},
	}}
	resolver := identity.NewResolver(repo, nil, 0, 0, zap.NewNop())

	ident := resolver.Resolve(context.Background(), "s1", "s1@example.com")
	require.Equal(t, "s1", ident.UserID)
	require.Equal(t, domain.RoleSupport, ident.Role)
	require.True(t, ident.IsSupport())
	require.False(t, ident.IsAdmin())
	require.True(t, repo.sawDeadline, "profile fetch must be bounded by a deadline")
}

func TestResolveMissingProfileFailsClosed(t *testing.T) {
	resolver := identity.NewResolver(&fakeProfileRepo{}, nil, 0, 0, zap.NewNop())

	ident := resolver.Resolve(context.Background(), "ghost", "ghost@example.com")
	require.False(t, ident.IsAnonymous())
	require.Equal(t, domain.RoleUser, ident.Role)
	require.False(t, ident.IsSupport())
	require.False(t, ident.IsAdmin())
	require.Equal(t, "ghost@example.com", ident.Email)
}

func TestResolveStoreFailureDegradesToUserRole(t *testing.T) {
	repo := &fakeProfileRepo{err: errorutil.NewStoreError(errors.New("connection refused"))}
	resolver := identity.NewResolver(repo, nil, 0, 0, zap.NewNop())

	ident := resolver.Resolve(context.Background(), "a1", "a1@example.com")
	require.Equal(t, "a1", ident.UserID)
	require.Equal(t, domain.RoleUser, ident.Role)
}

func TestBroadcasterDeliversEachTransitionOnce(t *testing.T) {
	b := identity.NewBroadcaster()

	var mu sync.Mutex
	var seen []string
	b.OnChange(func(ident domain.Identity) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ident.UserID)
	})

	b.Notify(domain.Identity{UserID: "u1", Role: domain.RoleUser})
	b.Notify(domain.Identity{UserID: "u2", Role: domain.RoleUser})
	b.Notify(domain.Anonymous())

	require.Equal(t, []string{"u1", "u2", ""}, seen)
}

func TestBroadcasterLateSubscriberSeesOnlyNewTransitions(t *testing.T) {
	b := identity.NewBroadcaster()
	b.Notify(domain.Identity{UserID: "early"})

	var seen []string
	b.OnChange(func(ident domain.Identity) { seen = append(seen, ident.UserID) })

	b.Notify(domain.Identity{UserID: "late"})
	require.Equal(t, []string{"late"}, seen)
}

func TestBroadcasterConcurrentNotifiesStayMonotonic(t *testing.T) {
	b := identity.NewBroadcaster()

	var mu sync.Mutex
	count := 0
	b.OnChange(func(domain.Identity) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	var wg sync.WaitGroup
	const n = 16
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Notify(domain.Identity{UserID: "u", Role: domain.RoleUser})
		}(i)
	}
	wg.Wait()

	// racing notifications may be coalesced but never duplicated
	mu.Lock()
	defer mu.Unlock()
	require.LessOrEqual(t, count, n)
	require.Greater(t, count, 0)
}
