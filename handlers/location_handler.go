package handlers

import (
	"net/http"

	"github.com/ippeitanaka/orienteering-sub000/middleware"
	"github.com/ippeitanaka/orienteering-sub000/services"
)

type LocationHandler struct {
	locationService services.LocationService
}

func NewLocationHandler(locationService services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Report stores the authenticated team's position. POST /team-location
func (h *LocationHandler) Report(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "team authentication required")
		return
	}

	var input struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.locationService.Report(r.Context(), teamID, input.Latitude, input.Longitude); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Current returns the latest position per team. GET /team-locations
func (h *LocationHandler) Current(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.Current(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": locations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset wipes all location data for a new round. DELETE /team-locations (staff)
func (h *LocationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.locationService.Reset(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "位置情報をリセットしました",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
