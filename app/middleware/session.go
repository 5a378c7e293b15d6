package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const sessionKeyCtxKey contextKey = "sessionKey"

const sessionHeader = "X-Session-ID"

// GetSessionKeyFromContext returns the session key resolved by SessionKey.
func GetSessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(sessionKeyCtxKey).(string)
	return key, ok
}

// SessionKey resolves a stable session key for the conversation state. A
// bearer JWT subject wins when a valid token is presented; otherwise the
// X-Session-ID header is used, and as a last resort a fresh key is minted and
// echoed back so the client can carry it on subsequent turns.
func SessionKey(secret []byte, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFromBearer(r, secret, logger)
			if key == "" {
				key = strings.TrimSpace(r.Header.Get(sessionHeader))
			}
			if key == "" {
				key = uuid.NewString()
				w.Header().Set(sessionHeader, key)
			}

			ctx := context.WithValue(r.Context(), sessionKeyCtxKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func keyFromBearer(r *http.Request, secret []byte, logger *slog.Logger) string {
	if len(secret) == 0 {
		return ""
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		logger.DebugContext(r.Context(), "Ignoring invalid bearer token", slog.Any("error", err))
		return ""
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
