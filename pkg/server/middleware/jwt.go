package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
)

var tokenRegex = regexp.MustCompile(`^Bearer (\S+)$`)

// ErrNoSecret is returned when issuing tokens without a signing secret
var ErrNoSecret = errors.New("jwt: signing secret not configured")

// Claims are the claims of an admin bearer token
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator is middleware that turns HS256 bearer tokens into
// request principals
type JWTAuthenticator struct {
	Secret []byte
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(secret []byte) *JWTAuthenticator {
	return &JWTAuthenticator{Secret: secret}
}

// Issue signs a token for subject holding roles, valid for ttl
func (j *JWTAuthenticator) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	if len(j.Secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

// Parse validates a signed token and returns its claims
func (j *JWTAuthenticator) Parse(tokenString string) (*Claims, error) {
	if len(j.Secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return claims, nil
}

// PrincipalsFor returns the principals held by the bearer of claims
func PrincipalsFor(claims *Claims) []string {
	if claims == nil {
		return []string{acl.Everyone}
	}

	principals := []string{acl.Everyone, acl.Authenticated, "user:" + claims.Subject}
	for _, role := range claims.Roles {
		principals = append(principals, "role:"+role)
	}
	return principals
}

// Middleware returns an HTTP middleware that validates bearer tokens.
// Requests without an Authorization header proceed as anonymous; requests
// with a bad token are refused.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) == 0 {
			next.ServeHTTP(w, r.WithContext(acl.WithPrincipals(r.Context(), PrincipalsFor(nil))))
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := j.Parse(tokenMatches[1])
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid authorization token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(acl.WithPrincipals(r.Context(), PrincipalsFor(claims))))
	})
}
