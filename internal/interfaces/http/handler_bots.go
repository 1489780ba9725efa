package http

import (
	"io"
	"net/http"

	"umb_panel/internal/entities"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBots(c *gin.Context) {
	bots, err := h.bots.GetAll(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bots})
}

func (h *Handler) GetBot(c *gin.Context) {
	bot, err := h.bots.GetByID(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bot})
}

func (h *Handler) CreateBot(c *gin.Context) {
	var bot entities.Bot
	if err := c.ShouldBindJSON(&bot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	bot.Name = SanitizeString(bot.Name)
	if msg := validateBot(&bot); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	created, err := h.bots.Create(c.Request.Context(), sessionFrom(c), &bot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *Handler) UpdateBot(c *gin.Context) {
	var bot entities.Bot
	if err := c.ShouldBindJSON(&bot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	bot.Name = SanitizeString(bot.Name)
	if msg := validateBot(&bot); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := h.bots.Update(c.Request.Context(), sessionFrom(c), c.Param("id"), &bot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *Handler) DeleteBot(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.bots.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) SetBotStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := h.bots.SetStatus(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// RegenerateAPIKey issues a fresh sk_live_ key and saves it on the record.
func (h *Handler) RegenerateAPIKey(c *gin.Context) {
	ctx := c.Request.Context()
	sess := sessionFrom(c)

	bot, err := h.bots.GetByID(ctx, sess, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	bot.APIKey = entities.GenerateAPIKey()

	updated, err := h.bots.Update(ctx, sess, bot.ID, bot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// BotEnv renders the .env the bot service needs for this record.
func (h *Handler) BotEnv(c *gin.Context) {
	bot, err := h.bots.GetByID(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, bot.EnvFile())
}

// BotDetail runs the settle-all status fan-out. Missing facets come back
// absent, not as errors; the response is only an error when the bot itself
// cannot be found.
func (h *Handler) BotDetail(c *gin.Context) {
	snapshot, err := h.status.BotStatus(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) SendTestMessage(c *gin.Context) {
	var req struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidPhone(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination number"})
		return
	}
	req.Message = SanitizeString(req.Message)
	if !ValidateLength(req.Message, 1, MaxMessageLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	result, err := h.actions.SendTestMessage(c.Request.Context(), sessionFrom(c), c.Param("id"), req.To, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) UploadInvoice(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice file is required"})
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read invoice file"})
		return
	}

	err = h.actions.UploadInvoice(c.Request.Context(), sessionFrom(c), c.Param("id"), c.Param("billingId"), header.Filename, pdf)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "uploaded"})
}

func (h *Handler) DownloadInvoice(c *gin.Context) {
	pdf, err := h.actions.DownloadInvoice(c.Request.Context(), sessionFrom(c), c.Param("id"), c.Param("billingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoice-`+c.Param("billingId")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	err := h.actions.DeleteInvoice(c.Request.Context(), sessionFrom(c), c.Param("id"), c.Param("billingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func validateBot(bot *entities.Bot) string {
	switch {
	case !ValidateLength(bot.Name, 1, MaxNameLength):
		return "Bot name is required"
	case !ValidURL(bot.URL):
		return "A valid bot URL is required"
	case bot.Database == "":
		return "Database connection string is required"
	case !ValidEmail(bot.OwnerEmail):
		return "A valid owner email is required"
	case bot.OwnerPass == "":
		return "Owner password is required"
	case bot.Plan.Price < 0:
		return "Plan price cannot be negative"
	}
	return ""
}
