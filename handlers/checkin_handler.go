package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ippeitanaka/orienteering-sub000/middleware"
	"github.com/ippeitanaka/orienteering-sub000/services"
)

type CheckinHandler struct {
	checkinService services.CheckinService
}

func NewCheckinHandler(checkinService services.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// Attempt registers a visit for the authenticated team. POST /checkin
// A duplicate visit is HTTP 200 with success=false, not an error.
func (h *CheckinHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "team authentication required")
		return
	}

	var input struct {
		CheckpointID int `json:"checkpoint_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.CheckpointID <= 0 {
		badRequestResponse(w, r, errors.New("checkpoint_id is required"))
		return
	}

	result, err := h.checkinService.Attempt(r.Context(), teamID, input.CheckpointID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": result.Accepted,
	}
	if result.Accepted {
		response["message"] = "チェックインしました"
		response["checkin"] = result.Checkin
		response["points"] = result.Points
	} else {
		response["message"] = result.Reason
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTeam returns a team's checkin history. GET /checkins?team_id=N
func (h *CheckinHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(r.URL.Query().Get("team_id"))
	if err != nil || teamID <= 0 {
		badRequestResponse(w, r, errors.New("team_id query parameter is required"))
		return
	}

	checkins, err := h.checkinService.ListByTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": checkins}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Revoke removes a mistaken checkin and debits its points. DELETE /checkins/{id}
func (h *CheckinHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		badRequestResponse(w, r, errors.New("invalid checkin id"))
		return
	}

	if err := h.checkinService.Revoke(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "チェックインを取り消しました",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
