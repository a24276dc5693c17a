package preferences

import (
	preferencesdomain "church-admin-go/internal/domain/preferences"
	"church-admin-go/pkg/logger"
)

type Handlers struct {
	Preferences *preferencesdomain.Service
	log         logger.Logger
}

func New(preferences *preferencesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Preferences: preferences,
		log:         log,
	}
}
