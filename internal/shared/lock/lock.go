// Package lock fornece um lock distribuído simples sobre Redis, usado pra
// garantir uma única varredura de lifecycle por vez entre instâncias.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/esports-bet-engine/internal/wager/domain"
)

// unlockLua apaga a chave só se o valor bater com o token do dono, pra um
// holder não soltar o lock de outro.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// Manager implementa o lock via SETNX com TTL e unlock condicional em Lua.
type Manager struct {
	rdb      *redis.Client
	unlockSc *redis.Script
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{
		rdb:      rdb,
		unlockSc: redis.NewScript(unlockLua),
	}
}

func lockKey(key string) string { return "lock:" + key }

// Acquire tenta obter o lock da chave com o TTL dado. Em sucesso devolve a
// função de unlock, segura pra chamar mais de uma vez. Lock já tomado por
// outro holder retorna domain.ErrLockHeld.
func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	lk := lockKey(key)

	ok, err := m.rdb.SetNX(ctx, lk, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrLockHeld
	}

	released := false
	unlock := func() {
		if released {
			return
		}
		released = true
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.unlockSc.Run(rctx, m.rdb, []string{lk}, token).Err()
	}
	return unlock, nil
}
