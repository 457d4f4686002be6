package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o-mini"}, nil)
	text, err := c.Complete(context.Background(), Request{
		Messages:    []Message{TextContent("system", "sys"), TextContent("user", "hi")},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello there" {
		t.Fatalf("text = %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(500) || gotBody["temperature"] != 0.7 {
		t.Errorf("max_tokens = %v, temperature = %v", gotBody["max_tokens"], gotBody["temperature"])
	}
}

func TestCompleteUpstreamErrorUsesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{TextContent("user", "hi")}})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", ue.StatusCode)
	}
	if !strings.Contains(ue.Message, "Rate limit reached") {
		t.Errorf("message = %q, want the body error message", ue.Message)
	}
}

func TestCompleteUpstreamErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{TextContent("user", "hi")}})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if !strings.Contains(ue.Message, "502") {
		t.Errorf("message = %q, want the status line", ue.Message)
	}
}

func TestCompleteMissingAPIKeySkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("network call made without an API key")
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{TextContent("user", "hi")}})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if !strings.Contains(ue.Message, "not configured") {
		t.Errorf("message = %q", ue.Message)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	if _, err := c.Complete(context.Background(), Request{Messages: []Message{TextContent("user", "hi")}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestVisionContentShape(t *testing.T) {
	msg := VisionContent("read this receipt", "QUJD")
	parts, ok := msg.Content.([]ContentPart)
	if !ok || len(parts) != 2 {
		t.Fatalf("content = %#v", msg.Content)
	}
	if parts[0].Type != "text" || parts[0].Text != "read this receipt" {
		t.Errorf("text part = %+v", parts[0])
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL.URL != "data:image/jpeg;base64,QUJD" {
		t.Errorf("image part = %+v", parts[1])
	}
}
