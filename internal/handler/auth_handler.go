package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/service"
	"github.com/coursedesk/coursedesk-backend/internal/validator"
)

// AuthHandler handles faculty authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	facultyService *service.FacultyService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, facultyService *service.FacultyService) *AuthHandler {
	return &AuthHandler{authService: authService, facultyService: facultyService}
}

// LoginRequest is the faculty login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FacultyLogin godoc
// POST /api/v1/auth/faculty/login
func (h *AuthHandler) FacultyLogin(c *gin.Context) {
	var req LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	faculty, err := h.facultyService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrFacultyNotFound) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.authService.CheckPassword(faculty.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateFacultyToken(c.Request.Context(), faculty.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token, "faculty": faculty})
}

// FacultyLogout godoc
// POST /api/v1/auth/faculty/logout
func (h *AuthHandler) FacultyLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetFacultySession(c.Request.Context(), claims.FacultyID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// GetFacultyProfile godoc
// GET /api/v1/auth/faculty/me
func (h *AuthHandler) GetFacultyProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	faculty, err := h.facultyService.GetByID(c.Request.Context(), claims.FacultyID)
	if err != nil {
		if errors.Is(err, repository.ErrFacultyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"faculty": faculty})
}
