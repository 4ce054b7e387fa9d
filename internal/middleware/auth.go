package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"autocare-report-services/internal/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	UserID    int64
	SessionID int64
	Role      auth.UserRole
	Email     string
	CenterID  *string
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	writeAuthErrorDebug(w, status, message, "")
}

func writeAuthErrorDebug(w http.ResponseWriter, status int, message string, debug string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	}

	if os.Getenv("APP_ENV") == "development" && strings.TrimSpace(debug) != "" {
		payload["debug"] = debug
	}

	_ = json.NewEncoder(w).Encode(payload)
}

// ProviderAuth admits service-center and technician accounts. Provider
// accounts must carry a center id; report handlers scope every query to it.
func ProviderAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return requireAuth(db, jwtSecret, func(claims *auth.Claims) (string, bool) {
		if !auth.ProviderRole(claims.Role) {
			return "Provider access required", false
		}
		if claims.Role == auth.RoleProvider && (claims.CenterID == nil || strings.TrimSpace(*claims.CenterID) == "") {
			return "Service center not found", false
		}
		return "", true
	})
}

// AdminAuth admits marketplace admin accounts only.
func AdminAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return requireAuth(db, jwtSecret, func(claims *auth.Claims) (string, bool) {
		if claims.Role != auth.RoleAdmin {
			return "Admin access required", false
		}
		return "", true
	})
}

func requireAuth(db *pgxpool.Pool, jwtSecret string, allow func(*auth.Claims) (string, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthErrorDebug(w, http.StatusUnauthorized, "Authorization token required", err.Error())
				return
			}

			if message, ok := allow(claims); !ok {
				writeAuthError(w, http.StatusForbidden, message)
				return
			}

			userID, err := parseInt64(claims.UserID)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			sessionID, err := parseInt64(claims.SessionID)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// Validate the session is still live and the account is active.
			var active bool
			query := `
				select u.is_active
				from users u
				join user_sessions us on us.id = $2 and us.user_id = u.id and us.status = 'ACTIVE' and us.expires_at > now()
				where u.id = $1
			`
			if err := db.QueryRow(r.Context(), query, userID, sessionID).Scan(&active); err != nil {
				writeAuthErrorDebug(w, http.StatusUnauthorized, "Session expired", err.Error())
				return
			}
			if !active {
				writeAuthError(w, http.StatusForbidden, "Account is disabled")
				return
			}

			authCtx := &AuthContext{
				UserID:    userID,
				SessionID: sessionID,
				Role:      claims.Role,
				Email:     claims.Email,
				CenterID:  claims.CenterID,
			}

			ctx := WithAuthContext(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseInt64(value string) (int64, error) {
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}
