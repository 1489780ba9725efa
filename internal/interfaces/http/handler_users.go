package http

import (
	"net/http"

	"umb_panel/internal/entities"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var user entities.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	user.Name = SanitizeString(user.Name)
	if msg := validateUser(&user, true); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	created, err := h.users.Create(c.Request.Context(), sessionFrom(c), &user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var user entities.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	user.Name = SanitizeString(user.Name)
	if msg := validateUser(&user, false); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := h.users.Update(c.Request.Context(), sessionFrom(c), c.Param("id"), &user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.users.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) SetUserActive(c *gin.Context) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := h.users.SetActive(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *Handler) SetUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Role != entities.RoleAdmin && req.Role != entities.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	updated, err := h.users.SetRole(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func validateUser(user *entities.User, creating bool) string {
	switch {
	case !ValidateLength(user.Name, 1, MaxNameLength):
		return "Name is required"
	case !ValidEmail(user.Email):
		return "A valid email is required"
	case creating && len(user.Password) < 6:
		return "Password must be at least 6 characters"
	case user.Role != "" && user.Role != entities.RoleAdmin && user.Role != entities.RoleUser:
		return "Invalid role"
	}
	return ""
}
