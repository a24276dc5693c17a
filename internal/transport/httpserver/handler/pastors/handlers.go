package pastors

import (
	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/pkg/logger"
)

type Handlers struct {
	ChurchUsers *churchuserdomain.Service
	log         logger.Logger
}

func New(churchUsers *churchuserdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		ChurchUsers: churchUsers,
		log:         log,
	}
}
