package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func newTestFailover(t *testing.T, logOut io.Writer, providers ...*MockProvider) *FailoverProvider {
	t.Helper()
	if logOut == nil {
		logOut = io.Discard
	}
	f := &FailoverProvider{
		timeout: time.Second,
		logOut:  logOut,
	}
	for i, p := range providers {
		f.providers = append(f.providers, p)
		f.labels = append(f.labels, "cred-"+string(rune('a'+i)))
	}
	return f
}

func TestFailoverFirstCredentialSucceeds(t *testing.T) {
	primary := NewMockProvider(MockResponse{Text: "hello"})
	backup := NewMockProvider(MockResponse{Text: "unused"})
	f := newTestFailover(t, nil, primary, backup)

	resp, err := f.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("resp.Text = %q, want %q", resp.Text, "hello")
	}
	if backup.CallCount() != 0 {
		t.Fatalf("backup called %d times, want 0", backup.CallCount())
	}
}

func TestFailoverMovesToNextCredential(t *testing.T) {
	var log bytes.Buffer
	primary := NewMockProvider(MockResponse{Err: &ErrQuotaExhausted{Err: errors.New("402")}})
	backup := NewMockProvider(MockResponse{Text: "from backup"})
	f := newTestFailover(t, &log, primary, backup)

	resp, err := f.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "from backup" {
		t.Fatalf("resp.Text = %q, want %q", resp.Text, "from backup")
	}
	if primary.CallCount() != 1 || backup.CallCount() != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.CallCount(), backup.CallCount())
	}
	if !strings.Contains(log.String(), "cred-a") {
		t.Errorf("failure log should name the failed credential, got %q", log.String())
	}
}

func TestFailoverPoolNotReordered(t *testing.T) {
	// A credential that failed on one call is still tried first on the next.
	primary := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: "recovered"},
	)
	backup := NewMockProvider(
		MockResponse{Text: "fallback"},
		MockResponse{Text: "unused"},
	)
	f := newTestFailover(t, nil, primary, backup)

	resp, err := f.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if resp.Text != "fallback" {
		t.Fatalf("first call: resp.Text = %q, want %q", resp.Text, "fallback")
	}

	resp, err = f.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if resp.Text != "recovered" {
		t.Fatalf("second call should start from the front, got %q", resp.Text)
	}
	if backup.CallCount() != 1 {
		t.Fatalf("backup called %d times, want 1", backup.CallCount())
	}
}

func TestFailoverPoolExhausted(t *testing.T) {
	last := errors.New("last failure")
	a := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	b := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: last}})
	f := newTestFailover(t, nil, a, b)

	_, err := f.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var exhausted *ErrPoolExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %T", err)
	}
	if exhausted.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", exhausted.Attempts)
	}
	if !errors.Is(err, last) {
		t.Errorf("pool error should wrap the last credential failure")
	}
}

func TestFailoverStopsOnParentCancellation(t *testing.T) {
	// A dead parent context is not a credential failure; the remaining
	// pool must not be burned through.
	a := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	b := NewMockProvider(MockResponse{Text: "unreached"})
	f := newTestFailover(t, nil, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want context.Canceled", err)
	}
	if b.CallCount() != 0 {
		t.Fatalf("second credential called %d times after cancellation, want 0", b.CallCount())
	}
}

func TestNewFailoverProviderEmptyPool(t *testing.T) {
	_, err := NewFailoverProvider(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty pool")
	}
}

func TestNewFailoverProviderUnknownProvider(t *testing.T) {
	_, err := NewFailoverProvider(context.Background(), []Credential{
		{Label: "bad-1", Provider: "dialup", APIKey: "k"},
	})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "bad-1") {
		t.Errorf("error should name the credential label, got %q", err)
	}
	if strings.Contains(err.Error(), "k\"") {
		t.Errorf("error must not echo the API key, got %q", err)
	}
}
