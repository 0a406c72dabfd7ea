package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/raushankrgupta/vape-catalog-scraper/utils"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware requires a valid bearer token and stores its subject in the request context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.RespondError(w, nil, "Authorization header missing or malformed", http.StatusUnauthorized)
			return
		}

		subject, err := utils.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			utils.RespondError(w, nil, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the token subject stored by AuthMiddleware
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("user id not found in context")
	}
	return userID, nil
}
