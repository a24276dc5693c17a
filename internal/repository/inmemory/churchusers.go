package inmemory

import (
	"sync"
	"time"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
)

type InMemoryChurchUserCache struct {
	mu    sync.RWMutex
	items map[string]churchUserItem
	now   func() time.Time
}

type churchUserItem struct {
	value     churchuserdomain.ChurchUser
	expiresAt time.Time
}

func NewInMemoryChurchUserCache() *InMemoryChurchUserCache {
	return &InMemoryChurchUserCache{
		items: make(map[string]churchUserItem),
		now:   time.Now,
	}
}

func (c *InMemoryChurchUserCache) GetByAuthID(authUserID string) (*churchuserdomain.ChurchUser, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[authUserID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[authUserID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, authUserID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	if item.value.ChurchID != nil {
		churchID := *item.value.ChurchID
		value.ChurchID = &churchID
	}
	return &value, true
}

func (c *InMemoryChurchUserCache) SetByAuthID(authUserID string, user *churchuserdomain.ChurchUser, ttl time.Duration) {
	if user == nil || ttl <= 0 {
		c.DeleteByAuthID(authUserID)
		return
	}

	value := *user
	if user.ChurchID != nil {
		churchID := *user.ChurchID
		value.ChurchID = &churchID
	}

	c.mu.Lock()
	c.items[authUserID] = churchUserItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryChurchUserCache) DeleteByAuthID(authUserID string) {
	c.mu.Lock()
	delete(c.items, authUserID)
	c.mu.Unlock()
}

func (c *InMemoryChurchUserCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]churchUserItem)
	c.mu.Unlock()
}
