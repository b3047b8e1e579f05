package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roombooking/internal/middleware"
	"roombooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// @Summary Register a servant account
// @Tags Auth
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// @Summary Log in
// @Tags Auth
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// @Summary Current user
// @Tags Auth
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// @Summary List users (admin)
// @Tags Users
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// @Summary Get user (admin)
// @Tags Users
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// @Summary Create user (admin)
// @Tags Users
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// @Summary Update user (admin)
// @Tags Users
// @Router /api/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// @Summary Delete user (admin)
// @Tags Users
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User removed")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingField):
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
	case errors.Is(err, ErrInvalidEmail):
		response.Message(c, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, ErrWeakPassword):
		response.Message(c, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, ErrInvalidRole):
		response.Message(c, http.StatusBadRequest, "Invalid role value")
	case errors.Is(err, ErrChangeOwnRole):
		response.Message(c, http.StatusBadRequest, "You cannot change your own role")
	case errors.Is(err, ErrDeleteSelf):
		response.Message(c, http.StatusBadRequest, "You cannot delete your own account")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Message(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, ErrInvalidCredentials):
		response.Message(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		response.Message(c, http.StatusNotFound, "User not found")
	default:
		response.Error(c, http.StatusInternalServerError, "Server error", err)
	}
}
