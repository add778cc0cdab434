package report

import (
	"sync"
	"time"
)

// Cache кеш готового отчета с TTL
type Cache struct {
	report Report
	mu     sync.RWMutex
	ttl    time.Duration
	lastUp time.Time
}

// NewCache создает новый кеш
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Set сохраняет отчет в кеш
func (c *Cache) Set(report Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.lastUp = time.Now()
}

// Get возвращает отчет из кеша, если он актуален
func (c *Cache) Get() (Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Проверяем, не истек ли TTL
	if c.lastUp.IsZero() || time.Since(c.lastUp) > c.ttl {
		return Report{}, false
	}

	return c.report, true
}

// Clear очищает кеш
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = Report{}
	c.lastUp = time.Time{}
}
