package infrastructure

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"umb_panel/internal/entities"

	"github.com/go-resty/resty/v2"
)

// BotAPIClient talks to one bot's own service using that bot's API key.
// It carries no management-backend credential; the two credential spaces
// never mix.
type BotAPIClient struct {
	rest *resty.Client
}

func NewBotAPIClient(bot *entities.Bot, timeout time.Duration) *BotAPIClient {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(bot.URL, "/")).
		SetTimeout(timeout).
		SetHeader("x-api-key", bot.APIKey).
		SetHeader("Accept", "application/json")
	return &BotAPIClient{rest: rest}
}

func (c *BotAPIClient) Health(ctx context.Context) (*entities.HealthReport, error) {
	resp, err := c.rest.R().SetContext(ctx).Get("/api/health")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	// /api/health replies without the data envelope the stats endpoints use.
	// Decode the body directly; some bot services answer with a non-JSON
	// content type.
	var report entities.HealthReport
	if err := json.Unmarshal(resp.Body(), &report); err != nil {
		return nil, fmt.Errorf("decode /api/health response: %w", err)
	}
	return &report, nil
}

func (c *BotAPIClient) Summary(ctx context.Context) (*entities.SummaryReport, error) {
	var report entities.SummaryReport
	if err := c.getData(ctx, "/api/stats/summary", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *BotAPIClient) Usage(ctx context.Context) (*entities.UsageReport, error) {
	var report entities.UsageReport
	if err := c.getData(ctx, "/api/stats/usage", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *BotAPIClient) Billing(ctx context.Context) ([]entities.BillingRecord, error) {
	records := []entities.BillingRecord{}
	if err := c.getData(ctx, "/api/stats/billing", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SendReceipt is the bot service's acknowledgement of a test message.
type SendReceipt struct {
	To     string `json:"to"`
	SentAt string `json:"sentAt"`
}

func (c *BotAPIClient) SendWhatsApp(ctx context.Context, to, message string) (*SendReceipt, error) {
	var receipt SendReceipt
	body := map[string]string{"to": to, "message": message}
	if err := c.postData(ctx, "/api/whatsapp/send", body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *BotAPIClient) UploadInvoice(ctx context.Context, billingID, filename string, pdf []byte) error {
	body := map[string]string{
		"billingId": billingID,
		"base64":    base64.StdEncoding.EncodeToString(pdf),
		"filename":  filename,
	}
	return c.postData(ctx, "/api/stats/invoice/upload", body, nil)
}

func (c *BotAPIClient) DownloadInvoice(ctx context.Context, billingID string) ([]byte, error) {
	resp, err := c.rest.R().SetContext(ctx).Get("/api/stats/invoice/file/" + billingID)
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *BotAPIClient) DeleteInvoice(ctx context.Context, billingID string) error {
	resp, err := c.rest.R().SetContext(ctx).Delete("/api/stats/invoice/file/" + billingID)
	return checkResp(resp, err)
}

// getData fetches an endpoint that wraps its payload in {"data": ...}.
func (c *BotAPIClient) getData(ctx context.Context, path string, out any) error {
	resp, err := c.rest.R().SetContext(ctx).Get(path)
	if err := checkResp(resp, err); err != nil {
		return err
	}
	return decodeData(resp.Body(), path, out)
}

func (c *BotAPIClient) postData(ctx context.Context, path string, body, out any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err := checkResp(resp, err); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(resp.Body(), path, out)
}

func decodeData(body []byte, path string, out any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if len(wrapper.Data) == 0 || string(wrapper.Data) == "null" {
		return fmt.Errorf("%s response missing data", path)
	}
	if err := json.Unmarshal(wrapper.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

func checkResp(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: remoteMessage(resp.Body(), resp.Status())}
	}
	return nil
}
