package wiring

import (
	"invest/internal/contracts"
	investserver "invest/internal/platform/server"
)

// Deps adapts the server and repositories to the feature Dependencies interfaces.
type Deps struct {
	srv   *investserver.Server
	repos contracts.Repos
}

func NewDeps(srv *investserver.Server) Deps {
	return Deps{srv: srv, repos: srv.Repos()}
}
