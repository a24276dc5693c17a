package churchuser

import "time"

type Cache interface {
	GetByAuthID(authUserID string) (*ChurchUser, bool)
	SetByAuthID(authUserID string, user *ChurchUser, ttl time.Duration)
	DeleteByAuthID(authUserID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByAuthID(string) (*ChurchUser, bool) {
	return nil, false
}

func (noopCache) SetByAuthID(string, *ChurchUser, time.Duration) {}

func (noopCache) DeleteByAuthID(string) {}

func (noopCache) Clear() {}
