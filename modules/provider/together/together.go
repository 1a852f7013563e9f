// Package together implements the provider.together module, an
// OpenAI-compatible Chat Completions client for the Together API.
package together

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/strandchat/strand/internal/core"
	"github.com/strandchat/strand/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.Provider      = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
	_ core.Module            = (*Provider)(nil)
	_ core.Configurable      = (*Provider)(nil)
	_ core.Provisioner       = (*Provider)(nil)
	_ core.Validator         = (*Provider)(nil)
)

// Provider implements the Together Chat Completions API as a strand
// provider module.
type Provider struct {
	config Config
	logger *slog.Logger
	client *http.Client
	apiKey string
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.together",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger

	// Resolve API key: config takes precedence over environment variable.
	p.apiKey = p.config.APIKey
	if p.apiKey == "" {
		if envKey, ok := os.LookupEnv("TOGETHER_API_KEY"); ok {
			p.apiKey = envKey
		}
	}

	// No client-level timeout: the caller arms a single deadline on the
	// request context, and doubling it up here would race it.
	p.client = &http.Client{}

	ctx.RegisterService(provider.ServiceName, p)

	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if p.apiKey == "" {
		return errors.New("provider.together: api_key is required (config or TOGETHER_API_KEY)")
	}
	if p.config.Model == "" {
		return errors.New("provider.together: model is required")
	}
	return nil
}

// ModelName returns the configured model identifier.
func (p *Provider) ModelName() string {
	return p.config.Model
}
