package oddscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda as listagens de partidas (com odds correntes) no Redis.
// Só leitura passa por aqui; escrita de admin e acerto invalidam as chaves.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

const listKey = "matches:list"

func keyMatch(id string) string { return "matches:detail:" + id }

func (c *Cache) GetList(ctx context.Context, dst any) (bool, error) {
	return c.get(ctx, listKey, dst)
}

func (c *Cache) SetList(ctx context.Context, v any, ttl time.Duration) error {
	return c.set(ctx, listKey, v, ttl)
}

func (c *Cache) GetMatch(ctx context.Context, id string, dst any) (bool, error) {
	return c.get(ctx, keyMatch(id), dst)
}

func (c *Cache) SetMatch(ctx context.Context, id string, v any, ttl time.Duration) error {
	return c.set(ctx, keyMatch(id), v, ttl)
}

// Invalidate derruba a listagem e, se informado, o detalhe da partida.
func (c *Cache) Invalidate(ctx context.Context, matchID string) error {
	keys := []string{listKey}
	if matchID != "" {
		keys = append(keys, keyMatch(matchID))
	}
	return c.R.Del(ctx, keys...).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, key, b, ttl).Err()
}
