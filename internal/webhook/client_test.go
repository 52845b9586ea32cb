package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

func TestClient_NotifyRoundTrip(t *testing.T) {
	var got *sendblue.MessageStatusCallback
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		cb, err := sendblue.ParseStatusCallback(r.Body)
		if err != nil {
			t.Errorf("ParseStatusCallback: %v", err)
		}
		got = cb
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cb := sendblue.MessageStatusCallback{
		MessageHandle: "h-1",
		Status:        sendblue.StatusDelivered,
		Number:        phonenumber.MustParse("+14155552671"),
		DateUpdated:   sendblue.Timestamp{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	if err := NewClient(time.Second, "sandbox").Notify(context.Background(), srv.URL, cb); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got == nil || got.MessageHandle != "h-1" || got.Status != sendblue.StatusDelivered || !got.DateUpdated.Equal(cb.DateUpdated.Time) {
		t.Fatalf("unexpected callback received: %+v", got)
	}
}

func TestClient_NotifyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(time.Second, "").Notify(context.Background(), srv.URL, sendblue.MessageStatusCallback{MessageHandle: "h"})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected non-2xx error, got %v", err)
	}
}

func TestClient_NotifyTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewClient(20*time.Millisecond, "").Notify(context.Background(), srv.URL, sendblue.MessageStatusCallback{MessageHandle: "h"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
