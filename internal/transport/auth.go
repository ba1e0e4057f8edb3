package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const (
	tenantIDKey contextKey = iota
	actorIDKey
)

// TenantID extracts the authenticated tenant from the request context.
func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// ActorID extracts the authenticated actor from the request context. Empty
// for API-key auth, which identifies a tenant but not a person.
func ActorID(ctx context.Context) string {
	v, _ := ctx.Value(actorIDKey).(string)
	return v
}

// KeyResolver resolves a hashed API key to a tenant ID. An unknown key
// resolves to "".
type KeyResolver interface {
	TenantForKey(ctx context.Context, keyHash string) (string, error)
}

// Claims are the JWT claims carried by bearer tokens.
type Claims struct {
	ActorID string `json:"actor_id"`
	Tenant  string `json:"tenant"`
	jwt.RegisteredClaims
}

// GenerateToken signs a JWT for an actor in a tenant
func GenerateToken(actorID, tenant, secret string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	claims := Claims{
		ActorID: actorID,
		Tenant:  tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Authenticator validates bearer credentials and stamps the tenant on the
// request context. JWTs are tried first when a secret is configured, then
// the token is treated as an API key.
type Authenticator struct {
	JWTSecret string
	Keys      KeyResolver
}

// Middleware returns the authentication middleware
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}

		if a.JWTSecret != "" {
			if claims, ok := a.parseJWT(token); ok {
				ctx := context.WithValue(r.Context(), tenantIDKey, claims.Tenant)
				ctx = context.WithValue(ctx, actorIDKey, claims.ActorID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		if a.Keys != nil {
			tenantID, err := a.Keys.TenantForKey(r.Context(), HashKey(token))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal", "authentication failed", nil)
				return
			}
			if tenantID != "" {
				ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token", nil)
	})
}

func (a *Authenticator) parseJWT(tokenString string) (*Claims, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(a.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.Tenant == "" {
		return nil, false
	}
	return claims, true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// HashKey hashes an API key for storage and lookup
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
