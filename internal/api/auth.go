package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const subjectContextKey = contextKey("subject")

// DefaultTokenTTL is how long tokens from GenerateToken stay valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims represents the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for subject, e.g. an operator name, that
// authorizes changes to the channel directory.
func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// requireAuthHandler admits requests carrying a valid HS256 bearer token and
// stores its subject in the request context. Without a configured secret every
// request is refused.
func (s *Server) requireAuthHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.jwtSecret) == 0 {
			respondError(w, http.StatusForbidden, "write access is disabled")
			return
		}

		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			respondError(w, http.StatusUnauthorized, "missing authentication token")
			return
		}

		claims := &Claims{}
		_, err := jwt.ParseWithClaims(tokenString, claims,
			func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			s.logger.Debug("token rejected", "error", err)
			respondError(w, http.StatusUnauthorized, "invalid authentication token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getSubject extracts the token subject from the request context.
func getSubject(r *http.Request) string {
	if val, ok := r.Context().Value(subjectContextKey).(string); ok {
		return val
	}
	return ""
}
