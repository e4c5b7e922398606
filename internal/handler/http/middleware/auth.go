package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeIDKey struct{}

// AuthRequired rejects requests without a valid, unrevoked access token and
// stores the token's employee in the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token revoked")
				return
			}

			employeeID, err := jwt.EmployeeID(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// EmployeeID returns the authenticated employee stored by AuthRequired.
func EmployeeID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDKey{}).(string)
	return id, ok && id != ""
}
