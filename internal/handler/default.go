package handler

import (
	"net/http"

	"github.com/NewtTheWolf/sendblue/internal/response"
)

// runningReporter is the slice of the scheduler the health check needs.
type runningReporter interface {
	IsRunning() bool
}

// HomeHandler serves the root and health endpoints.
type HomeHandler struct {
	name      string
	scheduler runningReporter
}

// NewHomeHandler returns a HomeHandler for the named deployment. scheduler
// may be nil.
func NewHomeHandler(name string, scheduler runningReporter) *HomeHandler {
	return &HomeHandler{name: name, scheduler: scheduler}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Names the sandbox and points at the API docs.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, response.WelcomePayload{
		Message: h.name + " sandbox, docs at /swagger/index.html",
	})
}

// Health godoc
// @Summary     Health check
// @Description Reports that the sandbox is serving and whether statuses are advancing.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{Status: "ok", Scheduler: "disabled"}
	if h.scheduler != nil {
		payload.Scheduler = "stopped"
		if h.scheduler.IsRunning() {
			payload.Scheduler = "running"
		}
	}
	response.RespondJSON(w, http.StatusOK, payload)
}
