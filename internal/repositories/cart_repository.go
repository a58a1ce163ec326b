package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebagonz91/promo-storefront/internal/config"
	"github.com/sebagonz91/promo-storefront/internal/models"
)

// CartStore is the durable single-slot storage behind the cart: read at
// session start, written after every mutation.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, sessionID string, cart *models.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

const cartKeyPrefix = "cart"

type cartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &cartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + ":" + sessionID
}

// Load returns the stored cart for the session. An absent slot or one holding
// corrupt data yields an empty cart rather than an error.
func (s *cartStore) Load(ctx context.Context, sessionID string) (*models.Cart, error) {

	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {

		if err == redis.Nil {
			return models.NewCart(), nil
		}

		return nil, fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}

	cart := models.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		slog.Warn("Discarding corrupt cart slot",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))

		return models.NewCart(), nil
	}

	if cart.Items == nil {
		cart.Items = models.LineItems{}
	}

	return cart, nil
}

func (s *cartStore) Save(ctx context.Context, sessionID string, cart *models.Cart) error {

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for session %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", sessionID, err)
	}

	return nil
}

func (s *cartStore) Clear(ctx context.Context, sessionID string) error {

	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", sessionID, err)
	}

	return nil
}
