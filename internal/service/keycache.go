package service

import (
	"VoiceLedger/internal/crypto"
	"sync"
)

// KeyCache — процессный кэш зашифрованных пользовательских ключей:
// email → Bundle. Заполняется лениво при первом обращении, перезаписывается
// сразу при отправке нового ключа, не вытесняется до конца жизни процесса.
// Последняя запись по email побеждает.
type KeyCache struct {
	mu      sync.RWMutex
	entries map[string]crypto.Bundle
}

// NewKeyCache создаёт пустой кэш.
func NewKeyCache() *KeyCache {
	return &KeyCache{entries: make(map[string]crypto.Bundle)}
}

// Get возвращает Bundle пользователя и признак наличия.
func (c *KeyCache) Get(email string) (crypto.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[email]
	return b, ok
}

// Set кладёт Bundle пользователя, перетирая предыдущий.
func (c *KeyCache) Set(email string, b crypto.Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[email] = b
}
