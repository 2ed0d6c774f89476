package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attrition-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly restricts a route to users whose token carries the is_admin
// claim. Runs after AuthRequired, so claims are already verified.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		admin, ok := claims["is_admin"].(bool)
		if !admin || !ok {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
