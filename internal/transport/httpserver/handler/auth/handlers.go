package auth

import (
	"context"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
)

type SignIner interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
}

type Registrar interface {
	Register(ctx context.Context, input churchuserdomain.RegisterInput) (*churchuserdomain.ChurchUser, bool, error)
}

type Handlers struct {
	Identities  SignIner
	ChurchUsers Registrar
	log         logger.Logger
}

func New(identities SignIner, churchUsers Registrar, log logger.Logger) *Handlers {
	return &Handlers{
		Identities:  identities,
		ChurchUsers: churchUsers,
		log:         log,
	}
}
