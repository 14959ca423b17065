package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const cacheKeyPrefix = "identity:profile:"

// Resolver maps an authenticated session subject to a full Identity with its
// current role. Profile lookups are bounded by a timeout and degrade to the
// least-privileged role rather than failing the request: a transient profile
// store outage must not lock everyone out of the helpdesk.
type Resolver struct {
	profiles repository.ProfileRepository
	cache    *redis.Client
	cacheTTL time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver constructs a resolver. cache may be nil to disable caching.
func NewResolver(profiles repository.ProfileRepository, cache *redis.Client, cacheTTL, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
		timeout:  timeout,
		logger:   logger,
	}
}

type cachedProfile struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Resolve returns the caller identity for a session subject. An empty userID
// yields the anonymous identity. A missing profile or a store failure yields
// an identity with role "user" so capability checks fail closed.
func (r *Resolver) Resolve(ctx context.Context, userID, email string) domain.Identity {
	if userID == "" {
		return domain.Anonymous()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if ident, ok := r.fromCache(ctx, userID); ok {
		return ident
	}

	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		if errorutil.HasCode(err, errorutil.CodeNotFound) {
			r.logger.Debug("no profile for session subject", zap.String("user_id", userID))
		} else {
			r.logger.Warn("profile lookup failed; degrading to user role",
				zap.String("user_id", userID), zap.Error(err))
		}
		return domain.Identity{UserID: userID, Email: email, Role: domain.RoleUser}
	}

	ident := profile.Identity()
	r.storeCache(ctx, ident)
	return ident
}

// Invalidate drops the cached entry for a user, e.g. after a role change.
func (r *Resolver) Invalidate(ctx context.Context, userID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKeyPrefix+userID).Err(); err != nil {
		r.logger.Debug("identity cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *Resolver) fromCache(ctx context.Context, userID string) (domain.Identity, bool) {
	if r.cache == nil {
		return domain.Identity{}, false
	}
	raw, err := r.cache.Get(ctx, cacheKeyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("identity cache read failed", zap.Error(err))
		}
		return domain.Identity{}, false
	}
	var entry cachedProfile
	if err := json.Unmarshal(raw, &entry); err != nil || !entry.Role.Valid() {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: userID, Email: entry.Email, Role: entry.Role}, true
}

func (r *Resolver) storeCache(ctx context.Context, ident domain.Identity) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedProfile{Email: ident.Email, Role: ident.Role})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+ident.UserID, raw, r.cacheTTL).Err(); err != nil {
		r.logger.Debug("identity cache write failed", zap.Error(err))
	}
}
