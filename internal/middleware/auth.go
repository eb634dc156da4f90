package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ineedcourier/order-service/pkg/utils"
)

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type businessIDKey struct{}

// Auth resolves the bearer token into a business identity and stores it in
// the request context. Handlers read it back with BusinessID and pass it
// explicitly downward; nothing below the handler layer touches the context
// for identity.
func Auth(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				utils.WriteError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			businessID, err := verifier.VerifyToken(token)
			if err != nil {
				utils.WriteError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), businessIDKey{}, businessID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BusinessID returns the authenticated business id, or "" outside of the
// Auth middleware.
func BusinessID(ctx context.Context) string {
	id, _ := ctx.Value(businessIDKey{}).(string)
	return id
}
