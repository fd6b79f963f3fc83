package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok := authenticate(r, jwtSecret)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the viewer identity when a valid bearer token is
// present and proceeds anonymously otherwise.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctx, ok := authenticate(r, jwtSecret); ok {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, jwtSecret string) (context.Context, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	rawID, ok := claims["userId"].(float64)
	if !ok {
		return nil, false
	}
	username, _ := claims["username"].(string)

	ctx := context.WithValue(r.Context(), UserIDKey, int64(rawID))
	ctx = context.WithValue(ctx, UsernameKey, username)
	return ctx, true
}

// GetUserID extracts the user ID from a request that passed RequireAuth.
func GetUserID(ctx context.Context) int64 {
	return ctx.Value(UserIDKey).(int64)
}

// ViewerID returns the viewer's user ID, or nil for anonymous requests.
func ViewerID(ctx context.Context) *int64 {
	id, ok := ctx.Value(UserIDKey).(int64)
	if !ok {
		return nil
	}
	return &id
}
