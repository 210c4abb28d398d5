package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/auth"
	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	domerrors "github.com/diego64/help-me-sub001/internal/domain/errors"
	infraauth "github.com/diego64/help-me-sub001/internal/infrastructure/auth"
	"github.com/diego64/help-me-sub001/internal/infrastructure/http/middleware"
	"github.com/diego64/help-me-sub001/internal/infrastructure/security"
)

type AuthHandler struct {
	login    *auth.Login
	refresh  *auth.Refresh
	logout   *auth.Logout
	users    ports.UserRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(login *auth.Login, refresh *auth.Refresh, logout *auth.Logout, users ports.UserRepository, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		login:    login,
		refresh:  refresh,
		logout:   logout,
		users:    users,
		validate: validator.New(),
		log:      log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "invalid email or password length")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: email, Password: password})
	if err != nil {
		AuditLog(h.log, r, "auth.login", email, "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		switch {
		case errors.Is(err, domerrors.ErrAccountLocked):
			writeErr(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeErr(w, http.StatusUnauthorized, err.Error())
		default:
			h.log.Error().Err(err).Msg("login failed")
			writeErr(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	AuditLog(h.log, r, "auth.login", email, result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.Pair.AccessToken,
		"refresh_token": result.Pair.RefreshToken,
		"expires_in":    result.Pair.ExpiresIn,
		"user": map[string]interface{}{
			"id":    result.User.ID.String(),
			"name":  result.User.Name,
			"email": result.User.Email,
			"role":  result.User.Role,
		},
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required,max=4096"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: body.RefreshToken})
	if err != nil {
		AuditLog(h.log, r, "auth.refresh", "", "", false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		switch {
		case errors.Is(err, domerrors.ErrTokenExpired), errors.Is(err, domerrors.ErrTokenInvalid):
			writeErr(w, http.StatusUnauthorized, err.Error())
		default:
			h.log.Error().Err(err).Msg("refresh failed")
			writeErr(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	AuditLog(h.log, r, "auth.refresh", "", "", true, "")
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.Pair.AccessToken,
		"refresh_token": result.Pair.RefreshToken,
		"expires_in":    result.Pair.ExpiresIn,
	})
}

// Logout runs behind the auth gate; the bearer token is present and
// already verified by the time we get here.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := infraauth.ExtractBearer(r.Header.Get("Authorization"))
	principal := middleware.PrincipalFromContext(r.Context())
	userID := ""
	if principal != nil {
		userID = principal.UserID
	}
	if err := h.logout.Execute(r.Context(), auth.LogoutInput{AccessToken: token}); err != nil {
		AuditLog(h.log, r, "auth.logout", "", userID, false, err.Error())
		middleware.RecordAuthAttempt("logout", false)
		h.log.Error().Err(err).Msg("logout failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "auth.logout", "", userID, true, "")
	middleware.RecordAuthAttempt("logout", true)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeErr(w, http.StatusUnauthorized, domerrors.ErrUnauthorized.Error())
		return
	}
	id, err := uuid.Parse(principal.UserID)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, domerrors.ErrTokenInvalid.Error())
		return
	}
	user, err := h.users.GetByID(r.Context(), domain.NewUserID(id))
	if err != nil {
		h.log.Error().Err(err).Msg("load user failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeErr(w, http.StatusNotFound, domerrors.ErrUserNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    user.ID.String(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// PasswordStrength scores a candidate password without storing anything.
func (h *AuthHandler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, security.ScoreStrength(body.Password))
}

// GeneratePassword returns a random strong password. Admin-only: used when
// provisioning technician accounts.
func (h *AuthHandler) GeneratePassword(w http.ResponseWriter, r *http.Request) {
	length := 16
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid length")
			return
		}
		length = n
	}
	password, err := security.GeneratePassword(length)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}
