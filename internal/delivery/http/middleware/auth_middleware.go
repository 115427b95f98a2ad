package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go-hospital-internment/internal/service"
	"go-hospital-internment/pkg/jwt"
	"go-hospital-internment/pkg/response"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserNameKey  contextKey = "user_name"
	RoleKey      contextKey = "role"
	TokenIDKey   contextKey = "token_id"
	ExpiresAtKey contextKey = "expires_at"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	denylist   service.TokenDenylist
}

func NewAuthMiddleware(jwtService *jwt.JWTService, denylist service.TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		denylist:   denylist,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		// Validate JWT token
		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// Check the token was not revoked by a logout
		if m.denylist != nil && claims.TokenID != "" {
			revoked, err := m.denylist.IsRevoked(r.Context(), claims.TokenID)
			if err != nil {
				response.InternalServerError(w, "Failed to validate token")
				return
			}
			if revoked {
				response.Unauthorized(w, "Token has been revoked")
				return
			}
		}

		// Add user info to context
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserNameKey, claims.Name)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
		if claims.ExpiresAt != nil {
			ctx = context.WithValue(ctx, ExpiresAtKey, claims.ExpiresAt.Time)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserNameFromContext extracts the display name from context
func GetUserNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UserNameKey).(string)
	return name, ok
}

// GetRoleFromContext extracts role from context
func GetRoleFromContext(ctx context.Context) (jwt.Role, bool) {
	role, ok := ctx.Value(RoleKey).(jwt.Role)
	return role, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetExpiresAtFromContext extracts the token expiry from context
func GetExpiresAtFromContext(ctx context.Context) (time.Time, bool) {
	expiresAt, ok := ctx.Value(ExpiresAtKey).(time.Time)
	return expiresAt, ok
}
