package core

import "pkt.systems/pslog"

// ServiceDeps captures optional dependencies for the core service.
type ServiceDeps struct {
	Store SessionStore
	// Logger backs requests whose context carries no logger bound through logx.
	Logger pslog.Logger
}
