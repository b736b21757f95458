package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ippeitanaka/orienteering-sub000/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func teamIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid team id")
	}
	return id, nil
}

// List returns all teams ranked by score. GET /teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	// Team codes are login credentials; strip them from the public list.
	for i := range teams {
		teams[i].TeamCode = ""
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get returns a single team. GET /teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	team.TeamCode = ""
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create registers a new team. POST /teams (staff)
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update edits a team. PUT /teams/{id} (staff)
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete removes a team. DELETE /teams/{id} (staff)
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPoints applies a signed staff score adjustment.
// POST /teams/{id}/add-points (staff)
func (h *TeamHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	id, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Points *int `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Points == nil {
		mapServiceErrorToHTTP(w, r, services.ErrPointsDeltaRequired)
		return
	}

	total, err := h.teamService.AddPoints(r.Context(), id, *input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":     true,
		"message":     "ポイントを更新しました",
		"total_score": total,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
