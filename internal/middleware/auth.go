package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/pkg/jwt"
)

// TokenVerifier defines the interface for token validation
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that validates JWT bearer tokens
func Auth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, model.NewUnauthorizedError("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, model.NewUnauthorizedError("invalid authorization header format"))
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				switch err {
				case jwt.ErrTokenExpired:
					writeError(w, model.NewUnauthorizedError("token expired"))
				case jwt.ErrInvalidSignature:
					writeError(w, model.NewUnauthorizedError("invalid token signature"))
				default:
					writeError(w, model.NewUnauthorizedError("invalid token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// writeError writes an APIError using the response envelope. Duplicated
// from the handler package to avoid an import cycle.
func writeError(w http.ResponseWriter, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   apiErr.Message,
	})
}
