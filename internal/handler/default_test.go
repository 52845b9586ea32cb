package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NewtTheWolf/sendblue/internal/response"
)

func TestHomeHandler_Health(t *testing.T) {
	tests := []struct {
		name      string
		scheduler runningReporter
		want      string
	}{
		{name: "no scheduler", want: "disabled"},
		{name: "stopped", scheduler: &fakeScheduler{}, want: "stopped"},
		{name: "running", scheduler: &fakeScheduler{running: true}, want: "running"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHomeHandler("sendblue", tc.scheduler)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			var body response.HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.Success || body.Data.Status != "ok" || body.Data.Scheduler != tc.want {
				t.Fatalf("unexpected health body: %+v", body)
			}
		})
	}
}
