package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MemoryClient é um Client em memória, usado quando REDIS_ADDR está vazio
// (instância única, desenvolvimento) e nos testes.
type MemoryClient struct {
	mu        sync.Mutex
	now       func() time.Time
	items     map[string]memoryItem
	nextSweep time.Time
}

// sweepInterval limita a frequência da varredura de itens expirados nas escritas.
const sweepInterval = time.Minute

type memoryItem struct {
	value     string
	expiresAt time.Time // zero = sem expiração
}

// NewMemoryClient cria um cache em memória vazio.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{now: time.Now, items: make(map[string]memoryItem)}
}

// sweep remove todos os itens expirados, no máximo uma vez por sweepInterval.
// Chaves de versões antigas do relatório e contadores de IPs que não voltam
// nunca são lidas de novo, então só saem daqui.
func (c *MemoryClient) sweep() {
	now := c.now()
	if now.Before(c.nextSweep) {
		return
	}
	for key, item := range c.items {
		if !item.expiresAt.IsZero() && !now.Before(item.expiresAt) {
			delete(c.items, key)
		}
	}
	c.nextSweep = now.Add(sweepInterval)
}

func (c *MemoryClient) lookup(key string) (memoryItem, bool) {
	item, ok := c.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return memoryItem{}, false
	}
	return item, true
}

// Get recupera o valor associado a uma chave.
func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return item.value, nil
}

// GetInt recupera um contador inteiro.
func (c *MemoryClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// Set define um valor; expiration zero significa sem expiração.
func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	item := memoryItem{value: stringify(value)}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}
	c.items[key] = item
	return nil
}

// Incr incrementa um contador, preservando a expiração existente.
func (c *MemoryClient) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	item, _ := c.lookup(key)
	var n int64
	if item.value != "" {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("valor da chave %s não é inteiro: %w", key, err)
		}
		n = parsed
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	c.items[key] = item
	return n, nil
}

// Close não faz nada no cache em memória.
func (c *MemoryClient) Close() error { return nil }

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
