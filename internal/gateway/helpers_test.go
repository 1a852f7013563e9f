package gateway

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/strandchat/strand/internal/provider"
	"gopkg.in/yaml.v3"
)

// newTestGateway builds a gateway around the given provider without going
// through the module lifecycle.
func newTestGateway(t *testing.T, p provider.Provider, mutate func(*Config)) *Gateway {
	t.Helper()

	g := &Gateway{
		provider:  p,
		logger:    slog.Default(),
		metrics:   newMetrics(),
		startedAt: time.Now(),
	}
	g.config.defaults()
	if mutate != nil {
		mutate(&g.config)
	}
	return g
}

// serveTest exposes the gateway's router on an ephemeral test server.
func serveTest(t *testing.T, g *Gateway) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(g.buildRouter())
	t.Cleanup(srv.Close)
	return srv
}

// mustYAMLNode parses s and returns its root mapping node.
func mustYAMLNode(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if len(doc.Content) == 0 {
		return &doc
	}
	return doc.Content[0]
}
