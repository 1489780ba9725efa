package http

import (
	"errors"
	"net/http"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
	"umb_panel/internal/repository"
	"umb_panel/internal/usecases"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth    *usecases.AuthUsecase
	bots    *repository.BotRepository
	users   *repository.UserRepository
	status  *usecases.StatusUsecase
	actions *usecases.BotActionsUsecase
}

func NewHandler(auth *usecases.AuthUsecase, bots *repository.BotRepository, users *repository.UserRepository, status *usecases.StatusUsecase, actions *usecases.BotActionsUsecase) *Handler {
	return &Handler{
		auth:    auth,
		bots:    bots,
		users:   users,
		status:  status,
		actions: actions,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware) {
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(20 << 20)) // room for invoice PDFs
	r.Use(middleware.CORSMiddleware())

	// Public: login only. A 401 here is "bad credentials", never a
	// session clear.
	r.POST("/panel/auth/login", middleware.LoginRateLimit(1, 5), h.Login)

	api := r.Group("/panel")
	api.Use(middleware.SessionRequired())
	{
		api.GET("/auth/me", h.Me)
		api.POST("/auth/logout", h.Logout)

		api.GET("/bots", h.ListBots)
		api.POST("/bots", h.CreateBot)
		api.GET("/bots/:id", h.GetBot)
		api.PUT("/bots/:id", h.UpdateBot)
		api.DELETE("/bots/:id", h.DeleteBot)
		api.PUT("/bots/:id/status", h.SetBotStatus)
		api.POST("/bots/:id/apikey", h.RegenerateAPIKey)
		api.GET("/bots/:id/env", h.BotEnv)

		// bot detail aggregation and per-bot proxied actions
		api.GET("/bots/:id/detail", h.BotDetail)
		api.POST("/bots/:id/whatsapp/test", h.SendTestMessage)
		api.POST("/bots/:id/invoices/:billingId", h.UploadInvoice)
		api.GET("/bots/:id/invoices/:billingId", h.DownloadInvoice)
		api.DELETE("/bots/:id/invoices/:billingId", h.DeleteInvoice)
	}

	admin := r.Group("/panel/users")
	admin.Use(middleware.SessionRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("", h.ListUsers)
		admin.POST("", h.CreateUser)
		admin.GET("/:id", h.GetUser)
		admin.PUT("/:id", h.UpdateUser)
		admin.DELETE("/:id", h.DeleteUser)
		admin.PUT("/:id/active", h.SetUserActive)
		admin.PUT("/:id/role", h.SetUserRole)
	}
}

func sessionFrom(c *gin.Context) *entities.Session {
	v, _ := c.Get(sessionKey)
	sess, _ := v.(*entities.Session)
	return sess
}

// writeError maps usecase errors onto HTTP responses, preferring the remote
// wording when the backend or a bot service supplied one.
func writeError(c *gin.Context, err error) {
	var apiErr *infrastructure.APIError
	switch {
	case errors.Is(err, infrastructure.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session expired",
			"code":  "session_expired",
		})
	case errors.Is(err, usecases.ErrBotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream request failed"})
	}
}

// requireConfirm implements the two-phase contract for destructive actions:
// the delete is refused unless the caller explicitly confirms it.
func requireConfirm(c *gin.Context) bool {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error": "Destructive action requires confirm=true",
		})
		return false
	}
	return true
}
