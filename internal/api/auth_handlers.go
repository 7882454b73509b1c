package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dojolog/dojolog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	limited := huma.Middlewares{s.rateLimitAuth}

	huma.Register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/signup",
		Summary:       "Create an account",
		Description:   "Creates an account and signs it in. The session token is set as an HttpOnly cookie.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   limited,
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and starts a cookie session",
		Tags:        []string{"Authentication"},
		Middlewares: limited,
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Ends the current session and clears the session cookie",
		Tags:        []string{"Authentication"},
		Middlewares: limited,
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the signed-in user's profile",
		Tags:        []string{"Authentication"},
	}, s.handleMe)
}

// === DTOs ===

// CredentialsRequest is the request body for signup and login.
// Fields are checked by the auth service so every failure reports per-field details.
type CredentialsRequest struct {
	Email    string `json:"email,omitempty" maxLength:"254" doc:"Email address"`
	Password string `json:"password,omitempty" maxLength:"1024" doc:"Password, at least 8 characters for signup"`
}

// CredentialsInput wraps the credentials request for Huma.
type CredentialsInput struct {
	Body CredentialsRequest
}

// SessionOutput returns the profile and sets the session cookie.
type SessionOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      *service.Profile
}

// LogoutResponse confirms a logout.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      LogoutResponse
}

// ProfileOutput wraps the profile for Huma.
type ProfileOutput struct {
	Body *service.Profile
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *CredentialsInput) (*SessionOutput, error) {
	result, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	}, clientInfo(ctx))
	if err != nil {
		return nil, err
	}

	return &SessionOutput{
		SetCookie: s.sessionCookie(result.Token, s.services.Auth.SessionDuration()),
		Body:      service.ProfileOf(result.User),
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *CredentialsInput) (*SessionOutput, error) {
	result, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	}, clientInfo(ctx))
	if err != nil {
		return nil, err
	}

	return &SessionOutput{
		SetCookie: s.sessionCookie(result.Token, s.services.Auth.SessionDuration()),
		Body:      service.ProfileOf(result.User),
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if id := sessionID(ctx); id != "" {
		if err := s.services.Auth.Logout(ctx, id); err != nil {
			return nil, err
		}
	}

	return &LogoutOutput{
		SetCookie: s.sessionCookie("", -1),
		Body:      LogoutResponse{LoggedOut: true},
	}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Auth.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profile}, nil
}

// sessionCookie builds the session cookie. A negative lifetime deletes it.
func (s *Server) sessionCookie(token string, lifetime time.Duration) http.Cookie {
	maxAge := int(lifetime.Seconds())
	if lifetime < 0 {
		maxAge = -1
	}

	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
