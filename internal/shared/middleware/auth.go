package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"partshub-backend/internal/domains/appconfig"
	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/response"
	"partshub-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthMode is resolved once per request from the <prefix>_enabled flag.
type AuthMode int

const (
	// ModeOptionalBearer: auth disabled by config. A valid Bearer token
	// still yields a user id; everything else passes as anonymous.
	ModeOptionalBearer AuthMode = iota

	// ModeRequiredBasicOrBearer: auth enabled. The request must carry
	// valid Basic or Bearer credentials.
	ModeRequiredBasicOrBearer
)

// Identity is the outcome of authentication for one request.
type Identity struct {
	Authenticated bool
	UserID        string // empty for Basic and anonymous callers
}

// ErrUnauthenticated maps to HTTP 401. Messages stay generic so a caller
// cannot learn which credential part failed.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthResolver decides whether a request is authenticated, based on
// config-stored flags and credentials.
type AuthResolver struct {
	store appconfig.Store
	jwt   *jwt.Manager
}

func NewAuthResolver(store appconfig.Store, jwtManager *jwt.Manager) *AuthResolver {
	return &AuthResolver{
		store: store,
		jwt:   jwtManager,
	}
}

// ResolveMode reads <prefix>_enabled. A missing flag reads as disabled.
func (r *AuthResolver) ResolveMode(ctx context.Context, prefix string) (AuthMode, error) {
	enabled, err := r.store.GetBool(ctx, prefix+"_"+shared.ConfigSuffixEnabled)
	if err != nil {
		return ModeRequiredBasicOrBearer, fmt.Errorf("auth config read failed: %w", err)
	}
	if !enabled {
		return ModeOptionalBearer, nil
	}
	return ModeRequiredBasicOrBearer, nil
}

// Authenticate applies the resolved mode to the Authorization header.
func (r *AuthResolver) Authenticate(ctx context.Context, authHeader, prefix string) (Identity, error) {
	mode, err := r.ResolveMode(ctx, prefix)
	if err != nil {
		return Identity{}, err
	}

	scheme, payload := splitAuthHeader(authHeader)

	if mode == ModeOptionalBearer {
		if scheme == "bearer" {
			if claims, err := r.jwt.VerifyToken(payload); err == nil {
				return Identity{Authenticated: true, UserID: claims.UserID}, nil
			}
		}
		// Anonymous but allowed.
		return Identity{}, nil
	}

	if authHeader == "" {
		return Identity{}, fmt.Errorf("%w: authorization required, supply Basic or Bearer credentials", ErrUnauthenticated)
	}

	switch scheme {
	case "basic":
		return r.authenticateBasic(ctx, payload, prefix)
	case "bearer":
		claims, err := r.jwt.VerifyToken(payload)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
		}
		return Identity{Authenticated: true, UserID: claims.UserID}, nil
	default:
		return Identity{}, fmt.Errorf("%w: invalid authorization format", ErrUnauthenticated)
	}
}

func (r *AuthResolver) authenticateBasic(ctx context.Context, payload, prefix string) (Identity, error) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid authorization format", ErrUnauthenticated)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Identity{}, fmt.Errorf("%w: invalid authorization format", ErrUnauthenticated)
	}

	storedUser, _, err := r.store.Get(ctx, prefix+"_"+shared.ConfigSuffixUsername)
	if err != nil {
		return Identity{}, fmt.Errorf("auth config read failed: %w", err)
	}
	storedPass, _, err := r.store.Get(ctx, prefix+"_"+shared.ConfigSuffixPassword)
	if err != nil {
		return Identity{}, fmt.Errorf("auth config read failed: %w", err)
	}

	// Empty stored credentials mean auth was enabled but never configured.
	// Reject rather than accept everything.
	if storedUser == "" || storedPass == "" {
		return Identity{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(storedUser)) == 1
	passMatch := comparePassword(password, storedPass)

	// Evaluate both before deciding; do not reveal which part failed.
	if !userMatch || !passMatch {
		return Identity{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	return Identity{Authenticated: true}, nil
}

// comparePassword supports bcrypt-hashed stored passwords alongside
// plaintext config values.
func comparePassword(supplied, stored string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}

func splitAuthHeader(header string) (scheme, payload string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return strings.ToLower(parts[0]), strings.TrimSpace(parts[1])
}

// AuthMiddleware gates a route group on the config-driven auth mode.
// On 401 the response carries WWW-Authenticate so Basic clients can react.
func AuthMiddleware(resolver *AuthResolver, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Authenticate(c.Request.Context(), c.GetHeader("Authorization"), prefix)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				c.Header("WWW-Authenticate", `Basic realm="Import API"`)
				response.Unauthorized(c, strings.TrimPrefix(err.Error(), "unauthenticated: "))
			} else {
				response.InternalServerError(c, "authentication backend unavailable")
			}
			c.Abort()
			return
		}

		if identity.UserID != "" {
			c.Set(shared.ContextUserID, identity.UserID)
		}

		c.Next()
	}
}
