package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/ctxkeys"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type accountHandler struct {
	authService         *service.AuthService
	userService         *service.UserService
	profileService      *service.ProfileService
	subscriptionService *service.SubscriptionService
}

func NewAccountHandler(
	authService *service.AuthService,
	userService *service.UserService,
	profileService *service.ProfileService,
	subscriptionService *service.SubscriptionService,
) *accountHandler {
	return &accountHandler{
		authService:         authService,
		userService:         userService,
		profileService:      profileService,
		subscriptionService: subscriptionService,
	}
}

type meResponse struct {
	User         userResponse        `json:"user"`
	Profile      *model.Profile      `json:"profile"`
	Subscription *model.Subscription `json:"subscription"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

type themeRequest struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
}

type emailRequest struct {
	Email string `json:"email"`
}

// Me returns the signed-in user with profile and plan. Loading the profile
// also applies a lapsed streak.
func (h *accountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.CheckStreak(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.subscriptionService.Subscription(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User:         newUserResponse(user),
		Profile:      profile,
		Subscription: sub,
	})
}

func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.userService.UpdatePassword(userID(r), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.userService.DeleteAccount(userID(r), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *accountHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateTheme(userID(r), req.Mode, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *accountHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateEmail(r.Context(), userID(r), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
