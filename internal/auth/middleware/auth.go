package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// AccessTokenCookie is the cookie checked when no Authorization header is present
const AccessTokenCookie = "access_token"

var (
	// ErrMissingToken is returned when the request carries no access token
	ErrMissingToken = errors.New("authentication required")
	// ErrInvalidToken is returned when the access token is rejected
	ErrInvalidToken = errors.New("invalid or expired token")
)

// IdentityResolver resolves the user that issued a request.
//
// Implementations return ErrMissingToken or an error wrapping ErrInvalidToken when the
// request can not be attributed to a user.
type IdentityResolver interface {
	ResolveUserID(r *http.Request) (int, error)
}

// TokenValidator validates an access token and returns the user ID stored in it
type TokenValidator interface {
	ValidateAccessToken(token string) (int, error)
}

// TokenResolver resolves the user from a bearer token or the access_token cookie
type TokenResolver struct {
	validator TokenValidator
}

// NewTokenResolver creates a new IdentityResolver backed by JWT access tokens
func NewTokenResolver(validator TokenValidator) *TokenResolver {
	return &TokenResolver{validator: validator}
}

// ResolveUserID implements IdentityResolver
func (tr *TokenResolver) ResolveUserID(r *http.Request) (int, error) {
	token := extractToken(r)
	if token == "" {
		return 0, ErrMissingToken
	}

	userID, err := tr.validator.ValidateAccessToken(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return userID, nil
}

// extractToken reads the token from "Authorization: Bearer <token>" header or the access_token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// AuthMiddleware resolves the request's user and stores its ID in the request context.
//
// Requests that can not be resolved are answered with 401 and never reach the next handler.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.ResolveUserID(r)
			if err != nil {
				message := ErrInvalidToken.Error()
				if errors.Is(err, ErrMissingToken) {
					message = ErrMissingToken.Error()
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprintf(w, `{"error":%q}`, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
