package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/dojolog/dojolog-server/internal/domain"
)

const (
	tokenIssuer   = "dojolog-server"
	tokenAudience = "dojolog-web"
)

// ErrInvalidToken is returned for tokens that fail decryption or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims are the claims carried by a session cookie token.
// v4.local tokens are encrypted, so the claims are not readable without the key.
type SessionClaims struct {
	SessionID string `json:"sid"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"` // user id
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// UserID returns the id of the user the token was issued to.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// TokenService issues and verifies PASETO v4.local session cookie tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
	now func() time.Time
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{key: symmetricKey, now: time.Now}, nil
}

// NewTokenID returns a fresh random token id for a session.
func NewTokenID() string {
	return uuid.NewString()
}

// Issue creates an encrypted token naming session. It expires with the session.
func (s *TokenService) Issue(session *domain.Session) (string, error) {
	if session.TokenID == "" {
		return "", errors.New("session has no token id")
	}

	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(session.UserID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(session.ExpiresAt)
	token.SetJti(session.TokenID)

	if err := token.Set("sid", session.ID); err != nil {
		return "", fmt.Errorf("set session claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), nil
}

// Verify decrypts a token and validates its issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now())) // checks iat, nbf and exp against the service clock

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" || claims.TokenID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	return &claims, nil
}
