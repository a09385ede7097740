package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/fmbakop/cotisio/internal/server/auth"
	"github.com/fmbakop/cotisio/internal/server/models"
)

type contextKey string

const actorContextKey contextKey = "actor"

// requireAuth extracts the bearer token, validates it and stores the actor in
// the request context. Requests without a valid token are rejected with 401.
func requireAuth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}

			actor, err := auth.GetActorFromToken(token, secretKey)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actorFromContext returns the authenticated actor stored by requireAuth.
func actorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok
}
