package core

// ModuleID uniquely identifies a module, namespaced by dots
// (e.g. "gateway.http", "provider.together").
type ModuleID string

// ModuleInfo describes a registered module: its ID and a constructor
// returning a fresh, unconfigured instance.
type ModuleInfo struct {
	ID  ModuleID
	New func() Module
}

// Module is the minimal interface every module implements. Everything else
// (configuration, provisioning, starting) is opt-in via the lifecycle
// interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}
