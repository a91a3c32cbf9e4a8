package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/configuration"
)

// Authenticate verifies the bearer token minted by the upstream identity
// service and resolves the subject's organization. Requests without a
// resolvable tenant proceed with an empty AuthContext; tenant-scoped
// operations reject them downstream.
func Authenticate(resolve func(r *http.Request, subject string) (composables.AuthContext, error)) mux.MiddlewareFunc {
	secret := []byte(configuration.Use().Auth.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			auth, err := resolve(r, claims.Subject)
			if err != nil {
				http.Error(w, "failed to resolve principal", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithAuthCtx(r.Context(), auth)))
		})
	}
}
