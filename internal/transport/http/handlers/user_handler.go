package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/phoenixchat/phoenix/internal/service"
	"github.com/phoenixchat/phoenix/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())

	profile, err := h.userService.Me(r.Context(), viewerID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		} else {
			logrus.WithError(err).Error("get profile")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to fetch profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerID := middleware.ViewerID(r.Context())

	profile, err := h.userService.GetByUsername(r.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		} else {
			logrus.WithError(err).Error("get user")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to fetch user")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
