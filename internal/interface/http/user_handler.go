package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/domain/entity"
	"github.com/oksasatya/users-backend/internal/interface/middleware"
	"github.com/oksasatya/users-backend/pkg/response"
	"github.com/oksasatya/users-backend/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,role"`
}

type updateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"omitempty,pwd"`
}

// isSelfOrAdmin reports whether the authenticated user may act on target id.
func isSelfOrAdmin(c *gin.Context, targetID string) bool {
	if c.GetString(middleware.CtxUserRoleKey) == entity.RoleAdmin.String() {
		return true
	}
	return c.GetString(middleware.CtxUserIDKey) == targetID
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
}

// GetByID GET /api/users/:id (self or admin)
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if !isSelfOrAdmin(c, id) {
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user", nil)
}

// GetByUserName GET /api/users/username/:username (admin)
func (h *UserHandler) GetByUserName(c *gin.Context) {
	u, err := h.Svc.GetByUserName(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user", nil)
}

// GetByEmail GET /api/users/email/:email (admin)
func (h *UserHandler) GetByEmail(c *gin.Context) {
	u, err := h.Svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user", nil)
}

// List GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "users", nil)
}

// ListDeleted GET /api/users/deleted (admin)
func (h *UserHandler) ListDeleted(c *gin.Context) {
	users, err := h.Svc.ListDeleted(c.Request.Context())
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "deleted users", nil)
}

// Search GET /api/users/search?q=...&size=... (admin)
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Create POST /api/users (admin). Returns the created user, not tokens.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, messageFor(err), nil)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusCreated, userJSON(u), "user created", nil)
}

// Update PUT /api/users/:id (self or admin)
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if !isSelfOrAdmin(c, id) {
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user updated", nil)
}

// SoftDelete DELETE /api/users/:id (admin)
func (h *UserHandler) SoftDelete(c *gin.Context) {
	u, err := h.Svc.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user deleted", nil)
}

// HardDelete DELETE /api/users/:id/hard (admin)
func (h *UserHandler) HardDelete(c *gin.Context) {
	u, err := h.Svc.HardDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "user permanently deleted", nil)
}
