package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/phoenixchat/phoenix/internal/service"
	"github.com/phoenixchat/phoenix/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Username, input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "ALREADY_REGISTERED", "Email or username already registered.")
		default:
			logrus.WithError(err).Error("register")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// VerifyEmail redeems the emailed token and sends the browser back to the
// frontend login page with the outcome in the query string.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, h.frontendURL+"/login?error=missing-token", http.StatusFound)
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		if !errors.Is(err, service.ErrTokenInvalid) {
			logrus.WithError(err).Error("verify email")
		}
		http.Redirect(w, r, h.frontendURL+"/login?error=invalid-or-expired", http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/login?verified=1", http.StatusFound)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password.")
		case errors.Is(err, service.ErrNotVerified):
			writeError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED",
				"Please verify your email before logging in. Check your inbox for the verification link.")
		default:
			logrus.WithError(err).Error("login")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
