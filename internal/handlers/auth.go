package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		httpx.Error(w, r, apperr.Unauthorized("Invalid email or password"))
		return
	}

	var user models.User
	err := h.db.WithContext(r.Context()).Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.Password, req.Password)) {
		httpx.Error(w, r, apperr.Unauthorized("Invalid email or password"))
		return
	}
	if err != nil {
		httpx.Error(w, r, apperr.Internal("login failed", err))
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
