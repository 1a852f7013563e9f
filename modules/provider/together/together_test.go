package together

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/strandchat/strand/internal/provider"
	"gopkg.in/yaml.v3"
)

func mustYAMLNode(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s), &node); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return &node
}

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := &Provider{
		config: Config{
			APIKey:  "test-key",
			Model:   "test-model",
			BaseURL: srv.URL,
		},
		apiKey: "test-key",
		client: srv.Client(),
	}
	return p
}

func TestModuleInfo(t *testing.T) {
	t.Parallel()

	p := &Provider{}
	info := p.ModuleInfo()
	if info.ID != "provider.together" {
		t.Errorf("ID = %q, want provider.together", info.ID)
	}
	if info.New == nil {
		t.Fatal("New func is nil")
	}
}

func TestConfigureDefaults(t *testing.T) {
	t.Parallel()

	p := &Provider{}
	if err := p.Configure(mustYAMLNode(t, "{}")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if p.config.BaseURL != "https://api.together.xyz/v1" {
		t.Errorf("BaseURL = %q, want default", p.config.BaseURL)
	}
	if p.config.Model != "deepseek-ai/DeepSeek-R1-Distill-Llama-70B-free" {
		t.Errorf("Model = %q, want default", p.config.Model)
	}
}

func TestValidate_MissingKey(t *testing.T) {
	t.Parallel()

	p := &Provider{config: Config{Model: "m"}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq chatRequest
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hello back"}}]}`))
	})

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Turns: []provider.Turn{
			{Role: provider.MessageRoleSystem, Content: "be nice"},
			{Role: provider.MessageRoleUser, Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text() != "hello back" {
		t.Errorf("Text() = %q", resp.Text())
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	t.Parallel()

	p := testProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text() != "" {
		t.Errorf("Text() = %q, want empty", resp.Text())
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`, provider.ErrRateLimit},
		{"server error", http.StatusInternalServerError, `boom`, provider.ErrProviderDown},
		{"auth failure", http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, errAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Complete(context.Background(), provider.CompletionRequest{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete_DeadlinePassesThrough(t *testing.T) {
	t.Parallel()

	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, provider.CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Complete error = %v, want context.DeadlineExceeded", err)
	}
}
