package services

import (
	"fmt"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "leaderboard-api"
	sessionAudience = "session"
	stateAudience   = "oauth-state"
	stateExpiry     = 10 * time.Minute
)

// SessionService signs the cookies that carry the signed-in identity and the
// OAuth state between /login and /callback.
type SessionService struct {
	secret []byte
	expiry time.Duration
}

// SessionClaims carries the user profile. Token holds the identity provider's
// ID token claims and is not interpreted here.
type SessionClaims struct {
	Email    string         `json:"email,omitempty"`
	Name     string         `json:"name,omitempty"`
	Picture  string         `json:"picture,omitempty"`
	Provider string         `json:"provider"`
	Token    map[string]any `json:"token,omitempty"`
	jwt.RegisteredClaims
}

func NewSessionService(secret string, expiry time.Duration) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (s *SessionService) Expiry() time.Duration {
	return s.expiry
}

func (s *SessionService) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Provider: user.Provider,
		Token:    user.Claims,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.Subject,
			Audience:  jwt.ClaimStrings{sessionAudience},
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (s *SessionService) Parse(tokenString string) (*models.User, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenString, claims, sessionAudience); err != nil {
		return nil, err
	}

	return &models.User{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		Provider: claims.Provider,
		Claims:   claims.Token,
	}, nil
}

// IssueState signs state so /callback can check it without server-side storage.
func (s *SessionService) IssueState(state string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(stateExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   state,
		Audience:  jwt.ClaimStrings{stateAudience},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return token, nil
}

func (s *SessionService) VerifyState(tokenString, state string) error {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenString, claims, stateAudience); err != nil {
		return err
	}
	if state == "" || claims.Subject != state {
		return ErrStateMismatch
	}
	return nil
}

func (s *SessionService) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithAudience(audience), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid {
		return ErrInvalidSession
	}
	return nil
}
