package http

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"umb_panel/internal/infrastructure"
	"umb_panel/internal/usecases"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const sessionKey = "session"

type Middleware struct {
	auth     *usecases.AuthUsecase
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewMiddleware(auth *usecases.AuthUsecase) *Middleware {
	return &Middleware{
		auth:     auth,
		limiters: make(map[string]*rate.Limiter),
	}
}

// SessionRequired resolves the panel token to a persisted session and puts it
// in the request context. A token whose session was force-cleared answers 401
// with code "session_expired", the signal the client uses to go back to the
// login view.
func (m *Middleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		sess, err := m.auth.SessionFromToken(tokenString)
		if err != nil {
			if errors.Is(err, infrastructure.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Session expired",
					"code":  "session_expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// AdminRequired must follow SessionRequired.
func (m *Middleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}

// LoginRateLimit throttles login attempts per client address.
func (m *Middleware) LoginRateLimit(r rate.Limit, b int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		m.mu.Lock()
		limiter, exists := m.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(r, b)
			m.limiters[key] = limiter
		}
		m.mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows the browser front-end to call from another origin.
func (m *Middleware) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// SecurityHeaders adds standard hardening headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestSizeLimiter caps request bodies; invoice uploads are the largest
// legitimate payload.
func RequestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
