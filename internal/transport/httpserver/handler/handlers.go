package handler

import (
	"church-admin-go/internal/transport/httpserver/handler/assignments"
	"church-admin-go/internal/transport/httpserver/handler/auth"
	"church-admin-go/internal/transport/httpserver/handler/churches"
	"church-admin-go/internal/transport/httpserver/handler/common"
	"church-admin-go/internal/transport/httpserver/handler/members"
	"church-admin-go/internal/transport/httpserver/handler/pastors"
	"church-admin-go/internal/transport/httpserver/handler/preferences"
	"church-admin-go/internal/transport/httpserver/handler/reports"
)

type Handlers struct {
	Common      *common.Handlers
	Auth        *auth.Handlers
	Assignments *assignments.Handlers
	Pastors     *pastors.Handlers
	Churches    *churches.Handlers
	Members     *members.Handlers
	Reports     *reports.Handlers
	Preferences *preferences.Handlers
}
