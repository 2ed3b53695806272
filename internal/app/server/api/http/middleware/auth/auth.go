package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"heybuddy/internal/app/server/token"
)

type Auth struct {
	tokens token.Servicer
	log    *slog.Logger
}

func New(tokens token.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		log:    log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware rejects requests without a valid bearer token and puts the
// owner id into the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			a.log.Debug("missing bearer token")
			reject(ctx)
			return
		}

		userID, err := a.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			a.log.Debug("token validation failed", "error", err)
			reject(ctx)
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func reject(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")
	json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
}

func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
