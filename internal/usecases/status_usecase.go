package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
	"umb_panel/internal/repository"

	"github.com/sirupsen/logrus"
)

// ErrBotNotFound means the requested id is not in the bot collection.
var ErrBotNotFound = errors.New("bot not found")

// BotClient is what the usecases need from a bot's own API.
// *infrastructure.BotAPIClient is the production implementation.
type BotClient interface {
	Health(ctx context.Context) (*entities.HealthReport, error)
	Summary(ctx context.Context) (*entities.SummaryReport, error)
	Usage(ctx context.Context) (*entities.UsageReport, error)
	Billing(ctx context.Context) ([]entities.BillingRecord, error)
	SendWhatsApp(ctx context.Context, to, message string) (*infrastructure.SendReceipt, error)
	UploadInvoice(ctx context.Context, billingID, filename string, pdf []byte) error
	DownloadInvoice(ctx context.Context, billingID string) ([]byte, error)
	DeleteInvoice(ctx context.Context, billingID string) error
}

// BotClientFactory builds a client bound to one bot's base URL and API key.
type BotClientFactory func(bot *entities.Bot) BotClient

func DefaultBotClientFactory(timeout time.Duration) BotClientFactory {
	return func(bot *entities.Bot) BotClient {
		return infrastructure.NewBotAPIClient(bot, timeout)
	}
}

// StatusUsecase produces the consolidated bot detail snapshot.
type StatusUsecase struct {
	bots      *repository.BotRepository
	notifier  infrastructure.Notifier
	newClient BotClientFactory
}

func NewStatusUsecase(bots *repository.BotRepository, notifier infrastructure.Notifier, factory BotClientFactory) *StatusUsecase {
	return &StatusUsecase{
		bots:      bots,
		notifier:  notifier,
		newClient: factory,
	}
}

// BotStatus fans out the four facet requests and settles them all: each facet
// lands in the snapshot if its request succeeded and stays nil otherwise. A
// facet failure never fails the snapshot; only the initial bot lookup can.
//
// There is no caching, no retry and no dedup of concurrent refreshes — a
// second call racing the first is fine, last write to the view wins.
func (uc *StatusUsecase) BotStatus(ctx context.Context, sess *entities.Session, id string) (*entities.BotStatusSnapshot, error) {
	bot, err := findBot(ctx, sess, uc.bots, id)
	if err != nil {
		return nil, err
	}

	client := uc.newClient(bot)
	snapshot := &entities.BotStatusSnapshot{Bot: *bot}

	// Join over four independent requests: wait for every one to reach a
	// terminal state, never abort on the first failure. Each goroutine
	// writes its own snapshot field, so no lock is needed.
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if health, err := client.Health(ctx); err == nil {
			snapshot.Health = health
		} else {
			facetFailed(bot, "health", err)
		}
	}()
	go func() {
		defer wg.Done()
		if summary, err := client.Summary(ctx); err == nil {
			snapshot.Summary = summary
		} else {
			facetFailed(bot, "summary", err)
		}
	}()
	go func() {
		defer wg.Done()
		if usage, err := client.Usage(ctx); err == nil {
			snapshot.Usage = usage
		} else {
			facetFailed(bot, "usage", err)
		}
	}()
	go func() {
		defer wg.Done()
		if billing, err := client.Billing(ctx); err == nil {
			snapshot.Billing = billing
		} else {
			facetFailed(bot, "billing", err)
		}
	}()

	wg.Wait()
	snapshot.FetchedAt = time.Now().UTC()

	if uc.notifier != nil {
		uc.notifier.AlertAccountTrouble(bot, snapshot.Health)
	}
	return snapshot, nil
}

func facetFailed(bot *entities.Bot, facet string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"bot":   bot.Name,
		"facet": facet,
	}).Debug("facet unavailable")
}

// findBot locates a bot inside the full collection, matching the detail
// view's lookup semantics: a missing id is "not found" and no facet request
// is ever issued for it.
func findBot(ctx context.Context, sess *entities.Session, bots *repository.BotRepository, id string) (*entities.Bot, error) {
	all, err := bots.GetAll(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrBotNotFound
}
