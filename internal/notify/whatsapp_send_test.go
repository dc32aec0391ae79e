package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

func TestWhatsAppSender_Send(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewWhatsAppSender("tok", "12345", "v22.0", logging.Default()).WithBaseURL(srv.URL)
	if err := sender.Send(context.Background(), "919800000001", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if captured["messaging_product"] != "whatsapp" || captured["to"] != "919800000001" {
		t.Fatalf("unexpected payload: %#v", captured)
	}
	text, _ := captured["text"].(map[string]interface{})
	if text["body"] != "hello" {
		t.Fatalf("unexpected text payload: %#v", captured["text"])
	}
}

func TestWhatsAppSender_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewWhatsAppSender("tok", "12345", "", logging.Default()).WithBaseURL(srv.URL)
	if err := sender.Send(context.Background(), "919800000001", "hello"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestWhatsAppSender_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewWhatsAppSender("tok", "12345", "", logging.Default()).WithBaseURL(srv.URL)
	if err := sender.Send(context.Background(), "919800000001", "hello"); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestWhatsAppSender_Validation(t *testing.T) {
	sender := NewWhatsAppSender("", "12345", "", logging.Default())
	if err := sender.Send(context.Background(), "919800000001", "hello"); err == nil {
		t.Fatal("expected error for missing token")
	}

	sender = NewWhatsAppSender("tok", "12345", "", logging.Default())
	if err := sender.Send(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if err := sender.Send(context.Background(), "919800000001", "  "); err == nil {
		t.Fatal("expected error for empty body")
	}
}

type recordingNotifier struct {
	to, body string
	calls    int
}

func (r *recordingNotifier) Send(ctx context.Context, to, body string) error {
	r.to, r.body = to, body
	r.calls++
	return nil
}

func TestAdminNotifier(t *testing.T) {
	rec := &recordingNotifier{}
	admin := NewAdminNotifier(rec, "919900000000")
	if err := admin.Notify(context.Background(), "new lead"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if rec.to != "919900000000" || rec.body != "new lead" {
		t.Fatalf("unexpected call: %#v", rec)
	}
}

func TestAdminNotifier_NoAdminConfigured(t *testing.T) {
	rec := &recordingNotifier{}
	admin := NewAdminNotifier(rec, "")
	if err := admin.Notify(context.Background(), "new lead"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if rec.calls != 0 {
		t.Fatal("expected no send without an admin phone")
	}
}
