package handler

import (
	"net/http"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/delivery/http/middleware"
	"go-hospital-internment/internal/service"
	"go-hospital-internment/pkg/response"

	"github.com/sirupsen/logrus"
)

// AuthHandler serves session endpoints; tokens are issued by the identity provider
type AuthHandler struct {
	log      *logrus.Logger
	denylist service.TokenDenylist
	now      func() time.Time
}

func NewAuthHandler(log *logrus.Logger, denylist service.TokenDenylist) *AuthHandler {
	return &AuthHandler{
		log:      log,
		denylist: denylist,
		now:      time.Now,
	}
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the current access token until it expires
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok || tokenID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	ttl := time.Minute
	if expiresAt, ok := middleware.GetExpiresAtFromContext(r.Context()); ok {
		ttl = expiresAt.Sub(h.now())
	}
	if ttl <= 0 {
		response.Success(w, http.StatusOK, "Logout successful", nil)
		return
	}

	if err := h.denylist.Revoke(r.Context(), tokenID, ttl); err != nil {
		h.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// GetCurrentUser gets current user info
// @Summary Get current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	name, _ := middleware.GetUserNameFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	response.Success(w, http.StatusOK, "User retrieved successfully", &dto.CurrentUserResponse{
		UserID: userID,
		Name:   name,
		Role:   string(role),
	})
}
