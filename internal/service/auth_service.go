package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/identity"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates signup and signin flows. A profile is created
// implicitly on signup with the default "user" role; roles only change
// through the admin role-update operation.
type AuthService struct {
	profiles   repository.ProfileRepository
	tokenMgr   *auth.TokenManager
	changes    *identity.Broadcaster
	bcryptCost int
}

// NewAuthService builds the service. changes may be nil.
func NewAuthService(cfg config.AuthConfig, profiles repository.ProfileRepository, changes *identity.Broadcaster) *AuthService {
	return &AuthService{
		profiles:   profiles,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		changes:    changes,
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SignUp registers a new profile and issues a token.
func (s *AuthService) SignUp(ctx context.Context, email, password string, fullName *string) (*domain.UserProfile, string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, errorutil.NewValidationError("email and password required", nil)
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errorutil.NewValidationError("email already registered", nil)
	} else if !errorutil.HasCode(err, errorutil.CodeNotFound) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}

	profile := &domain.UserProfile{
		Email:        email,
		FullName:     fullName,
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	s.notify(profile.Identity())
	return profile, token, exp, nil
}

// SignIn authenticates an existing profile.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.UserProfile, string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errorutil.HasCode(err, errorutil.CodeNotFound) {
			return nil, "", time.Time{}, errorutil.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthenticated("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	s.notify(profile.Identity())
	return profile, token, exp, nil
}

// SignOut ends the session. Tokens are stateless so this only publishes the
// transition to anonymous for observers.
func (s *AuthService) SignOut(_ context.Context, _ string) error {
	s.notify(domain.Anonymous())
	return nil
}

func (s *AuthService) notify(ident domain.Identity) {
	if s.changes != nil {
		s.changes.Notify(ident)
	}
}
