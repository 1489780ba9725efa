package entities

import "time"

// HealthReport mirrors GET /api/health on a bot service.
type HealthReport struct {
	Checks  HealthChecks  `json:"checks"`
	Account AccountHealth `json:"account"`
}

type HealthChecks struct {
	API      string `json:"api"`
	Database string `json:"database"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

type AccountHealth struct {
	Active  bool `json:"active"`
	Blocked bool `json:"blocked"`
}

// SummaryReport mirrors the data payload of GET /api/stats/summary.
type SummaryReport struct {
	Account struct {
		WhatsAppConnected bool `json:"whatsappConnected"`
	} `json:"account"`
	LastBilling struct {
		Month     string  `json:"month"`
		TotalCost float64 `json:"totalCost"`
	} `json:"lastBilling"`
}

// UsageReport mirrors the data payload of GET /api/stats/usage.
type UsageReport struct {
	Month    string       `json:"month"`
	WhatsApp ChannelUsage `json:"whatsapp"`
	Email    ChannelUsage `json:"email"`
}

type ChannelUsage struct {
	Sent      int `json:"sent"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
	Extra     int `json:"extra"`
}

// BotStatusSnapshot is the consolidated bot detail view. Each facet is
// populated only if its request succeeded; a nil facet means that corner of
// the dashboard is unavailable right now, not that the snapshot failed.
// Never persisted, recomputed on every refresh.
type BotStatusSnapshot struct {
	Bot       Bot             `json:"bot"`
	Health    *HealthReport   `json:"health,omitempty"`
	Summary   *SummaryReport  `json:"summary,omitempty"`
	Usage     *UsageReport    `json:"usage,omitempty"`
	Billing   []BillingRecord `json:"billing"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// FacetCount reports how many of the four facets resolved.
func (s *BotStatusSnapshot) FacetCount() int {
	n := 0
	if s.Health != nil {
		n++
	}
	if s.Summary != nil {
		n++
	}
	if s.Usage != nil {
		n++
	}
	if s.Billing != nil {
		n++
	}
	return n
}
