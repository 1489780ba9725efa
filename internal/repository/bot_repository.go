package repository

import (
	"context"
	"fmt"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
)

// BotRepository is a typed CRUD wrapper over the management backend's /bots
// collection. The backend owns the records; nothing is cached here, so a
// failed write leaves no partial local state to roll back.
type BotRepository struct {
	backend *infrastructure.BackendClient
}

func NewBotRepository(backend *infrastructure.BackendClient) *BotRepository {
	return &BotRepository{backend: backend}
}

func (r *BotRepository) GetAll(ctx context.Context, sess *entities.Session) ([]entities.Bot, error) {
	var bots []entities.Bot
	if err := r.backend.Get(ctx, sess, "/bots", &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

func (r *BotRepository) GetByID(ctx context.Context, sess *entities.Session, id string) (*entities.Bot, error) {
	var bot entities.Bot
	if err := r.backend.Get(ctx, sess, "/bots/"+id, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *BotRepository) Create(ctx context.Context, sess *entities.Session, bot *entities.Bot) (*entities.Bot, error) {
	if bot.APIKey == "" {
		bot.APIKey = entities.GenerateAPIKey()
	}
	var created entities.Bot
	if err := r.backend.Post(ctx, sess, "/bots", bot, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *BotRepository) Update(ctx context.Context, sess *entities.Session, id string, bot *entities.Bot) (*entities.Bot, error) {
	var updated entities.Bot
	if err := r.backend.Put(ctx, sess, "/bots/"+id, bot, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *BotRepository) Delete(ctx context.Context, sess *entities.Session, id string) error {
	return r.backend.Delete(ctx, sess, "/bots/"+id)
}

// SetStatus flips a bot between active and inactive.
func (r *BotRepository) SetStatus(ctx context.Context, sess *entities.Session, id, status string) (*entities.Bot, error) {
	if status != entities.BotStatusActive && status != entities.BotStatusInactive {
		return nil, fmt.Errorf("invalid bot status %q", status)
	}
	var updated entities.Bot
	body := map[string]string{"status": status}
	if err := r.backend.Put(ctx, sess, "/bots/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
