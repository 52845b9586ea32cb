package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("ok"))
}

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth("key", "secret")(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		key    string
		secret string
		want   int
	}{
		{name: "valid", key: "key", secret: "secret", want: http.StatusTeapot},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong secret", key: "key", secret: "nope", want: http.StatusUnauthorized},
		{name: "wrong key", key: "other", secret: "secret", want: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts/messages", nil)
			if tc.key != "" {
				req.Header.Set(HeaderAPIKey, tc.key)
			}
			if tc.secret != "" {
				req.Header.Set(HeaderAPISecret, tc.secret)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusUnauthorized {
				var body map[string]any
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["status"] != "ERROR" || body["error_message"] == "" {
					t.Fatalf("unexpected body: %v", body)
				}
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestLogger(logger)(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(http.MethodPost, "/api/send-message", nil)
	req.Header.Set(HeaderAPISecret, "top-secret")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["method"] != "POST" || entry["path"] != "/api/send-message" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusTeapot) || entry["bytes"] != float64(2) || entry["level"] != "warn" {
		t.Fatalf("unexpected status fields: %v", entry)
	}
	if strings.Contains(buf.String(), "top-secret") {
		t.Fatalf("credentials leaked into access log")
	}
}

func TestChain_OrderAndNil(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(okHandler), mark("outer"), nil, mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "outer,inner" {
		t.Fatalf("order = %v", order)
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("exploded")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts/messages", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error_code"] != float64(5000) {
		t.Fatalf("unexpected body: %v", body)
	}
	if !strings.Contains(buf.String(), "exploded") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}
