package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{jwtService: jwtService}
}

// Logout revokes the bearer token used for the request.
func (h *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	h.jwtService.RevokeToken(jwtauth.TokenFromHeader(r))
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}
