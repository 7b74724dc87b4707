package middleware

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// OwnerIDKey is the context key for the internal user ID that owns ledger data
	OwnerIDKey contextKey = "owner_id"
)

// OwnerLookup resolves an Auth0 subject to the internal user ID
type OwnerLookup interface {
	GetOwnerIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error)
}

// tokenValidator is satisfied by *validator.Validator
type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator   tokenValidator
	ownerLookup OwnerLookup
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, ownerLookup OwnerLookup) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:   jwtValidator,
		ownerLookup: ownerLookup,
	}, nil
}

// AuthenticateToken validates the bearer token only. Used by routes that run
// before the user record exists, like the login callback.
func (m *AuthMiddleware) AuthenticateToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ok, err := m.validate(c); !ok {
				return err
			}
			return next(c)
		}
	}
}

// Authenticate validates the bearer token and resolves its subject to an
// owner ID. Subjects without a user record are rejected.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ok, err := m.validate(c); !ok {
				return err
			}

			auth0ID := GetAuth0ID(c)
			ownerID, err := m.ownerLookup.GetOwnerIDByAuth0ID(c.Request().Context(), auth0ID)
			if err != nil {
				log.Debug().Err(err).Str("auth0_id", auth0ID).Msg("Owner lookup failed")
				return unauthorizedError(c, "User not registered")
			}

			ctx := context.WithValue(c.Request().Context(), OwnerIDKey, ownerID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// validate checks the Authorization header and stores the claims in the request
// context. On failure it writes the 401 response and returns false.
func (m *AuthMiddleware) validate(c echo.Context) (bool, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return false, unauthorizedError(c, "Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return false, unauthorizedError(c, "Invalid authorization header format")
	}

	claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return false, unauthorizedError(c, "Invalid token")
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims.RegisteredClaims.Subject == "" {
		return false, unauthorizedError(c, "Invalid claims")
	}

	ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
	ctx = context.WithValue(ctx, Auth0IDKey, validatedClaims.RegisteredClaims.Subject)
	c.SetRequest(c.Request().WithContext(ctx))
	return true, nil
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetOwnerID extracts the owner ID from the context, or uuid.Nil
func GetOwnerID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(OwnerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}
