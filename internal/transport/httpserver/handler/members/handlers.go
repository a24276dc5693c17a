package members

import (
	memberdomain "church-admin-go/internal/domain/member"
	"church-admin-go/pkg/logger"
)

type Handlers struct {
	Members *memberdomain.Service
	log     logger.Logger
}

func New(members *memberdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Members: members,
		log:     log,
	}
}
