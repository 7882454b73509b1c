package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dojolog/dojolog-server/internal/auth"
	"github.com/dojolog/dojolog-server/internal/color"
	"github.com/dojolog/dojolog-server/internal/domain"
	domainerrors "github.com/dojolog/dojolog-server/internal/errors"
	"github.com/dojolog/dojolog-server/internal/id"
	"github.com/dojolog/dojolog-server/internal/store"
	"github.com/dojolog/dojolog-server/internal/validation"
)

// SignupRequest contains the data needed to create an account.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// ClientInfo describes where a login came from. It is stored on the session.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthResult is a signed-in user with the cookie token for their new session.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// Profile is the public view of the signed-in user.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	AvatarColor string    `json:"avatar_color"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthService handles signup, login, logout and session lookup.
type AuthService struct {
	users           store.UserStore
	sessions        store.SessionStore
	tokens          *auth.TokenService
	hasher          *auth.Hasher
	validator       *validation.Validator
	sessionDuration time.Duration
	logger          *slog.Logger

	// dummyHash is verified against on logins for unknown emails.
	dummyHash string
	dummyOnce sync.Once
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users store.UserStore,
	sessions store.SessionStore,
	tokens *auth.TokenService,
	hasher *auth.Hasher,
	sessionDuration time.Duration,
	logger *slog.Logger,
) *AuthService {
	if sessionDuration <= 0 {
		sessionDuration = domain.DefaultSessionDuration
	}
	return &AuthService{
		users:           users,
		sessions:        sessions,
		tokens:          tokens,
		hasher:          hasher,
		validator:       validation.New(),
		sessionDuration: sessionDuration,
		logger:          logger,
	}
}

// verifyDummy spends the same argon2 work as a real password check. Its result is ignored.
func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("dojolog-unknown-account")
		if err != nil {
			s.logger.Warn("failed to build dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	_, _ = s.hasher.Verify(s.dummyHash, password)
}

// SessionDuration returns how long a new session lasts.
func (s *AuthService) SessionDuration() time.Duration {
	return s.sessionDuration
}

// Signup creates an account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest, client ClientInfo) (*AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, client)
}

// CreateUser stores a new account without signing it in.
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("an account with that email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID)

	return user, nil
}

// Login checks credentials and starts a new session. Unknown emails and wrong passwords
// fail with the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.verifyDummy(req.Password)
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(req.Password); err == nil {
			user.PasswordHash = hash
		}
	}

	user.LastLoginAt = time.Now()
	user.UpdatedAt = user.LastLoginAt
	if err := s.users.UpdateUser(ctx, user); err != nil {
		// Login still succeeds.
		s.logger.Warn("failed to update last login time",
			"user_id", user.ID,
			"error", err,
		)
	}

	result, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return result, nil
}

// Logout ends a session. Ending a session that no longer exists is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a cookie token to its user and session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid session").WithCause(err)
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) || errors.Is(err, store.ErrSessionExpired) {
			return nil, nil, domainerrors.Unauthorized("session expired")
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session.TokenID != claims.TokenID || session.UserID != claims.UserID() {
		return nil, nil, domainerrors.Unauthorized("invalid session")
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid session")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, session, nil
}

// Me returns the profile of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return ProfileOf(user), nil
}

// ProfileOf builds the public profile of user.
func ProfileOf(user *domain.User) *Profile {
	return &Profile{
		ID:          user.ID,
		Email:       user.Email,
		AvatarColor: color.ForUser(user.ID),
		CreatedAt:   user.CreatedAt,
	}
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, client ClientInfo) (*AuthResult, error) {
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenID:   auth.NewTokenID(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &AuthResult{User: user, Session: session, Token: token}, nil
}
