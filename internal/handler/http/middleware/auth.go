package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token. It runs
// after jwtauth.Verifier, which parses the token into the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			// Refresh tokens verify like any other JWT but never grant API access.
			if tokenType, _ := claims["type"].(string); tokenType != "access" {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
