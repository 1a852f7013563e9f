package gateway

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/strandchat/strand/internal/core"
)

func TestGateway_ModuleInfo(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	info := g.ModuleInfo()

	if info.ID != "gateway.http" {
		t.Errorf("ID = %q, want %q", info.ID, "gateway.http")
	}
	if info.New == nil {
		t.Fatal("New func is nil")
	}
	if _, ok := info.New().(*Gateway); !ok {
		t.Error("New() should return *Gateway")
	}
}

func TestGateway_ConfigureDefaults(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	if err := g.Configure(mustYAMLNode(t, "{}")); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if g.config.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q, want default", g.config.Bind)
	}
	if g.config.Deadline != 30*time.Second {
		t.Errorf("Deadline = %v, want 30s", g.config.Deadline)
	}
	if g.config.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", g.config.ReadTimeout)
	}
	if g.config.WriteTimeout != 35*time.Second {
		t.Errorf("WriteTimeout = %v, want deadline + 5s", g.config.WriteTimeout)
	}
	if g.config.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", g.config.ShutdownTimeout)
	}
}

func TestGateway_ConfigureCustom(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	node := mustYAMLNode(t, `
bind: "0.0.0.0:9090"
deadline: 10s
read_timeout: 5s
shutdown_timeout: 10s
auth:
  bearer_token: "my-token"
`)
	if err := g.Configure(node); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if g.config.Bind != "0.0.0.0:9090" {
		t.Errorf("Bind = %q", g.config.Bind)
	}
	if g.config.Deadline != 10*time.Second {
		t.Errorf("Deadline = %v", g.config.Deadline)
	}
	if g.config.WriteTimeout != 15*time.Second {
		t.Errorf("WriteTimeout = %v, want deadline + 5s", g.config.WriteTimeout)
	}
	if !g.config.Auth.IsConfigured() {
		t.Error("auth should be configured")
	}
}

func TestGateway_ValidateBindAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bind    string
		wantErr bool
	}{
		{"127.0.0.1:8080", false},
		{"0.0.0.0:0", false},
		{"not a bind address", true},
		{"127.0.0.1:notaport", true},
	}

	for _, tt := range tests {
		g := &Gateway{config: Config{Bind: tt.bind}}
		err := g.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.bind, err, tt.wantErr)
		}
	}
}

func TestGateway_StartWithoutProvider(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	g.config.defaults()
	if err := g.Provision(core.NewAppContext(slog.Default(), t.TempDir())); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if err := g.Start(); err == nil {
		t.Error("Start should fail when no provider module is registered")
	}
}

func TestGateway_StopWithoutStart(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	if err := g.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start should be a no-op, got: %v", err)
	}
}
