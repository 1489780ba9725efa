package http

import (
	"errors"
	"net/http"

	"umb_panel/internal/infrastructure"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidEmail(req.Email) || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// No fallback session on failure. A credential rejection answers
		// 401; anything else (backend down, 5xx) surfaces as the upstream
		// failure it is.
		var apiErr *infrastructure.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"profile": sess.Profile,
	})
}

func (h *Handler) Me(c *gin.Context) {
	sess := sessionFrom(c)
	profile, err := h.auth.Profile(c.Request.Context(), sess)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(sessionFrom(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
