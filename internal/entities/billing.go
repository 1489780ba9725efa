package entities

// BillingRecord is one month of a bot's billing, owned and mutated entirely
// by the bot's own service. The panel displays it and manages the attached
// invoice PDF.
type BillingRecord struct {
	ID                    string  `json:"_id"`
	Month                 string  `json:"month"`
	WhatsAppMessagesSent  int     `json:"whatsappMessagesSent"`
	WhatsAppExtraMessages int     `json:"whatsappExtraMessages"`
	EmailsSent            int     `json:"emailsSent"`
	EmailsExtra           int     `json:"emailsExtra"`
	BasePlanCost          float64 `json:"basePlanCost"`
	ExtraWhatsAppCost     float64 `json:"extraWhatsappCost"`
	ExtraEmailCost        float64 `json:"extraEmailCost"`
	TotalCost             float64 `json:"totalCost"`
	Status                string  `json:"status"` // pending, invoiced, paid
	InvoiceGenerated      bool    `json:"invoiceGenerated"`
	InvoiceUploaded       bool    `json:"invoiceUploaded"`
	PaymentReceived       bool    `json:"paymentReceived"`
}
