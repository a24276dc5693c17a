package churches

import (
	churchdomain "church-admin-go/internal/domain/church"
	"church-admin-go/pkg/logger"
)

type Handlers struct {
	Churches *churchdomain.Service
	log      logger.Logger
}

func New(churches *churchdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Churches: churches,
		log:      log,
	}
}
