package middleware

import (
	"errors"
	"net/http"
	"strings"

	"tasktracker/internal/pkg/jwt"
	"tasktracker/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

var (
	ErrAuthHeaderMissing = errors.New("authorization header missing")
	ErrInvalidAuthFormat = errors.New("authorization header must be 'Bearer <token>'")
)

// Identity is the verified caller of a protected request.
type Identity struct {
	UserID int64
	Email  string
}

// AccessVerifier checks an access token's signature and expiry.
type AccessVerifier interface {
	VerifyAccess(token string) (*jwt.Claims, error)
}

// Authenticate verifies the Authorization header value and returns the caller.
func Authenticate(v AccessVerifier, header string) (Identity, error) {
	if strings.TrimSpace(header) == "" {
		return Identity{}, ErrAuthHeaderMissing
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return Identity{}, ErrInvalidAuthFormat
	}

	claims, err := v.VerifyAccess(strings.TrimSpace(parts[1]))
	if err != nil {
		return Identity{}, jwt.ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// JWTAuth rejects requests without a valid access token before the wrapped
// handler runs. It never consults the session store.
func JWTAuth(v AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := Authenticate(v, c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, ErrAuthHeaderMissing):
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		case errors.Is(err, ErrInvalidAuthFormat):
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		case err != nil:
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity JWTAuth verified for this request.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.UserID > 0
}

// WithIdentity stores id the same way JWTAuth does. Intended for tests.
func WithIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}
