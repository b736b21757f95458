package handlers

import (
	"net/http"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/services"
)

type TimerHandler struct {
	timerService services.TimerService
}

func NewTimerHandler(timerService services.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

// Get returns the current timer snapshot. GET /timer
func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.timerService.Get(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": snap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Act applies a start/stop/reset transition. POST /timer (staff)
func (h *TimerHandler) Act(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Action   string `json:"action"`
		Duration int    `json:"duration"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var snap *models.TimerSnapshot
	var err error
	switch input.Action {
	case "start":
		snap, err = h.timerService.Start(r.Context(), input.Duration)
	case "stop":
		snap, err = h.timerService.Stop(r.Context())
	case "reset":
		snap, err = h.timerService.Reset(r.Context())
	default:
		err = services.ErrTimerActionUnknown
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"data":    snap,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
