package reports

import (
	reportsdomain "church-admin-go/internal/domain/reports"
	"church-admin-go/pkg/logger"
)

type Handlers struct {
	Reports *reportsdomain.Service
	log     logger.Logger
}

func New(reports *reportsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Reports: reports,
		log:     log,
	}
}
