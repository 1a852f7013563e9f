package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/strandchat/strand/internal/core"
)

// Validate checks the structural validity of a Config. It verifies the
// version field, ensures at least one module is configured, checks that all
// referenced module IDs exist in the registry, and enforces that exactly
// one provider module is selected (the gateway issues completions against
// a single provider; there is no fallback chain).
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if len(cfg.Modules) == 0 {
		errs = append(errs, errors.New("config: at least one module must be configured"))
	}

	var providers []string
	for id := range cfg.Modules {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
			continue
		}
		if isProviderID(id) {
			providers = append(providers, id)
		}
	}

	if len(providers) > 1 {
		slices.Sort(providers)
		errs = append(errs, fmt.Errorf("config: multiple provider modules configured (%v); exactly one is supported", providers))
	}

	return errors.Join(errs...)
}

func isProviderID(id string) bool {
	for _, info := range core.GetModulesByNamespace("provider") {
		if string(info.ID) == id {
			return true
		}
	}
	return false
}

// Resolve returns a sorted list of module IDs from the configuration.
// The deterministic order ensures consistent module loading. Services are
// registered during provisioning and resolved during Start, which runs
// after every module has been loaded, so load order never matters for
// cross-module discovery.
func Resolve(cfg *Config) []string {
	ids := make([]string, 0, len(cfg.Modules))
	for id := range cfg.Modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
