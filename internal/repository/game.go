package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const gameKeyPrefix = "game:"

// GameRepository - archive of game records. Records expire after ttl, zero keeps them forever.
type GameRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameRepository(client *redis.Client, ttl time.Duration) *GameRepository {
	return &GameRepository{
		client: client,
		ttl:    ttl,
	}
}

func (that *GameRepository) CreateOrUpdate(ctx context.Context, record *entity.GameRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal game record: %w", err)
	}

	if err = that.client.Set(ctx, gameKeyPrefix+record.ID, recordJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game record: %w", err)
	}

	return nil
}

func (that *GameRepository) GetByID(ctx context.Context, id string) (*entity.GameRecord, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("game %s: %w", id, apperror.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game record by id: %w", err)
	}

	var record entity.GameRecord
	if err = json.Unmarshal(response, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
	}

	return &record, nil
}

func (that *GameRepository) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game record by id: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("game %s: %w", id, apperror.ErrNotFound)
	}

	return nil
}
