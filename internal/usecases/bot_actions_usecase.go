package usecases

import (
	"context"
	"time"

	"umb_panel/internal/entities"
	"umb_panel/internal/repository"

	"github.com/sirupsen/logrus"
)

// BotActionsUsecase covers the one-shot per-bot operations: the WhatsApp test
// send and the invoice attachment lifecycle. No aggregation here; each action
// is a single request/response against the bot's own API.
type BotActionsUsecase struct {
	bots      *repository.BotRepository
	newClient BotClientFactory
}

func NewBotActionsUsecase(bots *repository.BotRepository, factory BotClientFactory) *BotActionsUsecase {
	return &BotActionsUsecase{bots: bots, newClient: factory}
}

// SendResult reports a delivered test message with the recipient exactly as
// the bot service echoed it (it normalizes the country code).
type SendResult struct {
	To        string    `json:"to"`
	SentAt    time.Time `json:"sentAt"`
	LocalTime string    `json:"localTime"`
}

func (uc *BotActionsUsecase) SendTestMessage(ctx context.Context, sess *entities.Session, botID, to, message string) (*SendResult, error) {
	bot, err := findBot(ctx, sess, uc.bots, botID)
	if err != nil {
		return nil, err
	}

	receipt, err := uc.newClient(bot).SendWhatsApp(ctx, to, message)
	if err != nil {
		// the remote error message travels to the operator verbatim
		return nil, err
	}

	result := &SendResult{To: receipt.To}
	if sentAt, perr := time.Parse(time.RFC3339, receipt.SentAt); perr == nil {
		result.SentAt = sentAt
		result.LocalTime = sentAt.Local().Format("15:04")
	} else {
		logrus.WithField("sentAt", receipt.SentAt).Warn("unparseable sentAt in send receipt")
	}
	return result, nil
}

func (uc *BotActionsUsecase) UploadInvoice(ctx context.Context, sess *entities.Session, botID, billingID, filename string, pdf []byte) error {
	bot, err := findBot(ctx, sess, uc.bots, botID)
	if err != nil {
		return err
	}
	return uc.newClient(bot).UploadInvoice(ctx, billingID, filename, pdf)
}

func (uc *BotActionsUsecase) DownloadInvoice(ctx context.Context, sess *entities.Session, botID, billingID string) ([]byte, error) {
	bot, err := findBot(ctx, sess, uc.bots, botID)
	if err != nil {
		return nil, err
	}
	return uc.newClient(bot).DownloadInvoice(ctx, billingID)
}

func (uc *BotActionsUsecase) DeleteInvoice(ctx context.Context, sess *entities.Session, botID, billingID string) error {
	bot, err := findBot(ctx, sess, uc.bots, botID)
	if err != nil {
		return err
	}
	return uc.newClient(bot).DeleteInvoice(ctx, billingID)
}
