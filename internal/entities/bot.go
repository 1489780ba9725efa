package entities

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Bot is one managed chatbot instance. The record itself lives in the
// management backend; the panel only holds a transient copy.
type Bot struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	APIKey     string    `json:"apiKey"`
	Database   string    `json:"database"`
	OwnerEmail string    `json:"email"`
	OwnerPass  string    `json:"password"`
	Status     string    `json:"status"` // "active" or "inactive"
	Plan       Plan      `json:"plan"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type Plan struct {
	Type        string      `json:"type"`
	Price       float64     `json:"price"`
	Limits      PlanLimits  `json:"limits"`
	OverageCost OverageCost `json:"overageCost"`
}

type PlanLimits struct {
	WhatsAppMessages int `json:"whatsappMessages"`
	Emails           int `json:"emails"`
}

type OverageCost struct {
	PerWhatsAppMessage float64 `json:"perWhatsappMessage"`
	PerEmail           float64 `json:"perEmail"`
}

const (
	BotStatusActive   = "active"
	BotStatusInactive = "inactive"
)

const apiKeyChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateAPIKey returns a fresh bot credential in the sk_live_ format the
// bot services expect.
func GenerateAPIKey() string {
	var sb strings.Builder
	sb.WriteString("sk_live_")
	max := big.NewInt(int64(len(apiKeyChars)))
	for i := 0; i < 32; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		sb.WriteByte(apiKeyChars[n.Int64()])
	}
	return sb.String()
}

// EnvFile renders the .env a bot service needs to run against this record.
func (b *Bot) EnvFile() string {
	return fmt.Sprintf(`# Puerto del servidor
PORT=3000

# URL base de la API (para generar links de QR)
API_URL=%s

# Configuración de MongoDB
MONGODB_URI=%s

# API Key para autenticación
API_KEY=%s

# Configuración de correo para notificaciones
EMAIL_HOST=smtp.gmail.com
EMAIL_PORT=587
EMAIL_SECURE=false
EMAIL_USER=%s
EMAIL_PASSWORD=%s
EMAIL_FROM=%s

# Configuración para la forma de administrar
PRICE_PLAN=%g
WHATSAPP_MESSAGE_LIMIT=%d
EMAIL_LIMIT=%d
PRICE_WHATSAPP_EXTRA_MESSAGE=%g
PRICE_EMAIL_EXTRA=%g
`,
		b.URL, b.Database, b.APIKey,
		b.OwnerEmail, b.OwnerPass, b.OwnerEmail,
		b.Plan.Price,
		b.Plan.Limits.WhatsAppMessages, b.Plan.Limits.Emails,
		b.Plan.OverageCost.PerWhatsAppMessage, b.Plan.OverageCost.PerEmail)
}
