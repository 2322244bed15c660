package handlers

import (
	"net/http"
	"time"

	"github.com/fundcraft/backstage/internal/api/middleware"
	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/fundcraft/backstage/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler implements email/password registration and login with JWTs.
type AuthHandler struct {
	users  repository.UserRepository
	secret string
	ttl    time.Duration
}

func NewAuthHandler(users repository.UserRepository, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttl: ttl}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var existing models.User
	if err := h.users.GetByEmail(r.Context(), req.Email, &existing); err == nil {
		writeErrorStr(w, r, appErr.CodeConflict, "email already registered")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, appErr.Wrap(err, appErr.CodeInternal, "hash password failed"))
		return
	}
	user := &models.User{Email: req.Email, PasswordHash: string(hash), Name: req.Name}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := middleware.SignToken(h.secret, user.ID, user.Email, h.ttl)
	if err != nil {
		writeError(w, r, appErr.Wrap(err, appErr.CodeInternal, "sign token failed"))
		return
	}
	logger.L().Info("user registered", zap.String("user_id", user.ID.String()))
	writeJSON(w, r, http.StatusCreated, authResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var user models.User
	if err := h.users.GetByEmail(r.Context(), req.Email, &user); err != nil {
		writeErrorStr(w, r, appErr.CodeUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeErrorStr(w, r, appErr.CodeUnauthorized, "invalid credentials")
		return
	}
	token, err := middleware.SignToken(h.secret, user.ID, user.Email, h.ttl)
	if err != nil {
		writeError(w, r, appErr.Wrap(err, appErr.CodeInternal, "sign token failed"))
		return
	}
	writeJSON(w, r, http.StatusOK, authResponse{Token: token, User: user})
}

// Logout is stateless; clients discard the token. Kept as an endpoint so the
// client flow has a single place to hook server-side invalidation later.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"logged_out": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var user models.User
	if err := h.users.GetByID(r.Context(), uid, &user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}
