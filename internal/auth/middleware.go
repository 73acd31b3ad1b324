package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "scribefinder/internal/errors"
)

const tokenLookup = "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + CookieName

var errSessionRevoked = errors.New("session revoked")

// Middleware attaches sessions to requests.
type Middleware struct {
	jwt   *JWTService
	store SessionStore
}

// NewMiddleware creates session middleware backed by jwt and store.
func NewMiddleware(jwt *JWTService, store SessionStore) *Middleware {
	return &Middleware{jwt: jwt, store: store}
}

// Required rejects requests without a valid, unrevoked session.
func (m *Middleware) Required() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:    tokenLookup,
		ContextKey:     contextKey,
		ParseTokenFunc: m.parse,
		ErrorHandler: func(c echo.Context, err error) error {
			resp := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated).ToErrorResponse()
			return echo.NewHTTPError(http.StatusUnauthorized, resp)
		},
	})
}

// Optional attaches a session when a valid one is presented and lets anonymous
// requests through otherwise.
func (m *Middleware) Optional() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:            tokenLookup,
		ContextKey:             contextKey,
		ParseTokenFunc:         m.parse,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			c.Set(contextKey, nil)
			return nil
		},
	})
}

// AnonymousOnly redirects callers that are already logged in to redirectTo.
// It must run after Optional.
func AnonymousOnly(redirectTo string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if FromContext(c) != nil {
				return c.Redirect(http.StatusSeeOther, redirectTo)
			}
			return next(c)
		}
	}
}

func (m *Middleware) parse(c echo.Context, token string) (interface{}, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := m.store.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errSessionRevoked
	}
	return claims.Session(), nil
}
