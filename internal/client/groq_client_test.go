package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandkit/api/internal/config"
)

func TestGroqClient_Complete(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer gsk_test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"{\"brand_name\":\"Nord\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient(&config.GroqConfig{APIKey: "gsk_test", BaseURL: srv.URL, Model: "llama-3.3-70b-versatile"})
	if !c.IsConfigured() {
		t.Fatal("expected client to be configured")
	}

	out, err := c.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", JSONMode: true})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != `{"brand_name":"Nord"}` {
		t.Errorf("Complete() = %q", out)
	}

	if got.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", got.Model)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "usr" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestGroqClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":"rate"}`, wantErr: "status 429"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no choices"},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: "unmarshal"},
		{name: "truncated", status: http.StatusOK, body: `{"choices":[{"message":{"content":"{\"brand"},"finish_reason":"length"}]}`, wantErr: "truncated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := c.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGroqClient_NotConfigured(t *testing.T) {
	c := NewGroqClient(&config.GroqConfig{})
	if c.IsConfigured() {
		t.Error("expected unconfigured client")
	}
}
