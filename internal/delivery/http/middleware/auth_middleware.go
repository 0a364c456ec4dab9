package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/pkg/jwt"
	"unihealth-admin/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleKey      contextKey = "role"
	TokenIDKey   contextKey = "token_id"
	SessionIDKey contextKey = "session_id"
)

// TokenChecker reports whether a key is still present in the token store
type TokenChecker interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient TokenChecker
	defaultRole entity.UserRole
}

// NewAuthMiddleware builds the bearer token check. defaultRole is assigned to
// tokens issued without a role claim.
func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient TokenChecker, defaultRole entity.UserRole) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		defaultRole: defaultRole,
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

		tokenString := parts[1]

		// Validate JWT token
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// Check if it's an access token
		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check if token exists in Redis (not revoked)
		tokenKey := fmt.Sprintf("access_token:%s:%s", claims.UserID.String(), claims.TokenID)
		exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		role := m.defaultRole
		if claims.Role != "" {
			parsed, ok := entity.ParseUserRole(claims.Role)
			if !ok {
				response.Forbidden(w, "Unknown role")
				return
			}
			role = parsed
		}

		// Add user info to context
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleKey, role)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		// Tokens issued before session claims existed keep a per-token session
		sessionID := claims.SessionID
		if sessionID == "" {
			sessionID = claims.TokenID
		}
		ctx = context.WithValue(ctx, SessionIDKey, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetSessionIDFromContext extracts the login session ID from context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}

// GetRoleFromContext extracts the console role from context
func GetRoleFromContext(ctx context.Context) (entity.UserRole, bool) {
	role, ok := ctx.Value(RoleKey).(entity.UserRole)
	return role, ok
}

// GetPrincipalFromContext collects the authenticated admin
func GetPrincipalFromContext(ctx context.Context) (entity.Principal, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return entity.Principal{}, false
	}
	tokenID, ok := GetTokenIDFromContext(ctx)
	if !ok {
		return entity.Principal{}, false
	}
	sessionID, ok := GetSessionIDFromContext(ctx)
	if !ok {
		return entity.Principal{}, false
	}
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return entity.Principal{}, false
	}

	return entity.Principal{UserID: userID, SessionID: sessionID, TokenID: tokenID, Role: role}, true
}

// WithPrincipal stores p the way Authenticate does
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, p.UserID)
	ctx = context.WithValue(ctx, RoleKey, p.Role)
	ctx = context.WithValue(ctx, TokenIDKey, p.TokenID)
	return context.WithValue(ctx, SessionIDKey, p.SessionID)
}
