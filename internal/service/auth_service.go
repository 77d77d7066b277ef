package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/models"
	"github.com/blog-publishing-api/internal/repository"
	"github.com/blog-publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

// resolution is the outcome of one token resolution step
type resolution int

const (
	notFound resolution = iota
	found
)

// tokenResolver is one step of user resolution. Failure to recognise the
// token is reported as notFound and lets the next step try.
type tokenResolver func(ctx context.Context, token string) (*models.User, resolution)

// authService is the concrete implementation of AuthService
type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokens     *auth.TokenIssuer
	provider   SessionExchanger
	sessionTTL time.Duration
	resolvers  []tokenResolver
	now        func() time.Time
	log        zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(repos *repository.Repositories, tokens *auth.TokenIssuer, provider SessionExchanger, sessionTTL time.Duration, log zerolog.Logger) *authService {
	s := &authService{
		users:      repos.User,
		sessions:   repos.Session,
		tokens:     tokens,
		provider:   provider,
		sessionTTL: sessionTTL,
		now:        time.Now,
		log:        log.With().Str("service", "auth").Logger(),
	}
	s.resolvers = []tokenResolver{s.resolveSignedToken, s.resolveSessionToken}
	return s
}

// Register creates a password account. The first account ever created is admin.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateRegister(req).OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	isAdmin, err := s.isFirstUser(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           newUserID(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &hash,
		IsAdmin:      isAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Bool("is_admin", user.IsAdmin).
		Msg("User registered")

	return s.issue(user)
}

// Login verifies a password and issues a signed token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := validation.ValidateLogin(req).OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.PasswordHash == nil || !auth.VerifyPassword(req.Password, *user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	return s.issue(user)
}

// ResolveUser tries each resolver in order and returns the first user found
func (s *authService) ResolveUser(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}
	for _, resolve := range s.resolvers {
		if user, outcome := resolve(ctx, token); outcome == found {
			return user
		}
	}
	return nil
}

// RequireAuth resolves the token or fails with ErrUnauthorized
func (s *authService) RequireAuth(ctx context.Context, token string) (*models.User, error) {
	user := s.ResolveUser(ctx, token)
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// RequireAdmin resolves the token and fails with ErrForbidden for non-admins
func (s *authService) RequireAdmin(ctx context.Context, token string) (*models.User, error) {
	user, err := s.RequireAuth(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// ExchangeSession trades a provider session id for a stored session. The
// returned token is the opaque session token.
func (s *authService) ExchangeSession(ctx context.Context, sessionID string) (*models.AuthResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session ID required", ErrValidation)
	}

	identity, err := s.provider.Exchange(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrProviderRejected):
			s.log.Warn().Err(err).Msg("Provider rejected session")
			return nil, fmt.Errorf("%w: invalid session", ErrUnauthorized)
		default:
			s.log.Error().Err(err).Msg("Provider exchange failed")
			return nil, fmt.Errorf("%w: auth service unavailable", ErrServiceUnavailable)
		}
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		isAdmin, err := s.isFirstUser(ctx)
		if err != nil {
			return nil, err
		}
		user = &models.User{
			ID:        newUserID(),
			Email:     identity.Email,
			Name:      identity.Name,
			Picture:   identity.Picture,
			IsAdmin:   isAdmin,
			CreatedAt: s.now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.log.Info().Str("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("User created from provider sign-in")
	} else {
		if err := s.users.UpdateProfile(ctx, user.ID, identity.Name, identity.Picture); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.Name = identity.Name
		user.Picture = identity.Picture
	}

	token := identity.SessionToken
	if token == "" {
		token = newSessionToken()
	}

	now := s.now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &models.AuthResponse{Token: token, User: user.Summary()}, nil
}

// Logout deletes the stored session behind token. Signed tokens have no
// stored state and simply expire.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *authService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user.Summary()}, nil
}

// isFirstUser reports whether no user exists yet. Two concurrent first
// registrations can both observe zero; the store does not serialise them.
func (s *authService) isFirstUser(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}

func (s *authService) resolveSignedToken(ctx context.Context, token string) (*models.User, resolution) {
	userID, err := s.tokens.UserID(token)
	if err != nil {
		return nil, notFound
	}
	return s.lookupUser(ctx, userID)
}

func (s *authService) resolveSessionToken(ctx context.Context, token string) (*models.User, resolution) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("Session lookup failed")
		return nil, notFound
	}
	if session == nil || session.Expired(s.now()) {
		return nil, notFound
	}
	return s.lookupUser(ctx, session.UserID)
}

func (s *authService) lookupUser(ctx context.Context, userID string) (*models.User, resolution) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("User lookup failed")
		return nil, notFound
	}
	if user == nil {
		return nil, notFound
	}
	return user, found
}
