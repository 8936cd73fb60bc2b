package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AMurtezaj/door-management-system-sub000/internal/auth"
	"github.com/AMurtezaj/door-management-system-sub000/internal/middleware"
	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/repositories"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

type AuthHandler struct {
	users      *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewAuthHandler(users *repositories.UserRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtManager}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "name, email and a password of at least 8 characters are required"})
		return
	}
	if req.Role == "" {
		req.Role = "staff"
	}
	if req.Role != "admin" && req.Role != "staff" {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "role must be admin or staff"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Error(w, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		utils.JSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	if !user.IsActive {
		utils.JSON(w, http.StatusForbidden, map[string]string{"error": "account suspended"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
