package handler

import (
	"encoding/json"
	"net/http"

	"github.com/NewtTheWolf/sendblue/internal/request"
	"github.com/NewtTheWolf/sendblue/internal/response"
	"github.com/NewtTheWolf/sendblue/internal/scheduler"
)

// SchedulerHandler controls the background status progression.
type SchedulerHandler struct {
	schSvc scheduler.SchedulerService
}

// NewSchedulerHandler constructs a new SchedulerHandler.
func NewSchedulerHandler(schSvc scheduler.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{schSvc: schSvc}
}

// StartStopScheduler godoc
// @Summary     Control scheduler
// @Description Starts or stops the background scheduler based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /scheduler [post]
func (h *SchedulerHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "start":
		if err := h.schSvc.Start(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		payload := response.SchedulerControlPayload{
			Message: "scheduler started",
			Running: true,
		}
		response.RespondJSON(w, http.StatusOK, payload)
		return

	case "stop":
		if err := h.schSvc.Stop(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		payload := response.SchedulerControlPayload{
			Message: "scheduler stopped",
			Running: false,
		}
		response.RespondJSON(w, http.StatusOK, payload)
		return

	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
		return
	}
}

// Status godoc
// @Summary     Scheduler status
// @Description Reports whether the scheduler is advancing message statuses.
// @Tags        scheduler
// @Produce     json
// @Success     200 {object} response.SchedulerControlResponse
// @Router      /scheduler [get]
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	running := h.schSvc.IsRunning()
	msg := "scheduler stopped"
	if running {
		msg = "scheduler running"
	}
	response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
		Message: msg,
		Running: running,
	})
}
