package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents session token claims. The registered ID claim is the session id.
type Claims struct {
	UserID   uint `json:"user_id"`
	Remember bool `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// Session converts validated claims into a Session.
func (c *Claims) Session() *Session {
	sess := &Session{
		ID:       c.ID,
		UserID:   c.UserID,
		Remember: c.Remember,
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess
}

// JWTService handles session token generation and validation.
type JWTService struct {
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewJWTService creates a new JWT service. sessionTTL bounds ordinary logins,
// rememberTTL bounds logins with the "remember me" flag.
func NewJWTService(secret string, sessionTTL, rememberTTL time.Duration) *JWTService {
	return &JWTService{
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// IssueSession signs a token for a new session of userID.
func (s *JWTService) IssueSession(userID uint, remember bool) (string, *Session, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	now := s.now()
	claims := &Claims{
		UserID:   userID,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims.Session(), nil
}

// ValidateToken validates a session token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, errors.New("token missing session identity")
	}
	return claims, nil
}
