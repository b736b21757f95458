package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ippeitanaka/orienteering-sub000/services"
)

type CheckpointHandler struct {
	checkpointService services.CheckpointService
	qrCodeService     services.QRCodeService
}

func NewCheckpointHandler(checkpointService services.CheckpointService, qrCodeService services.QRCodeService) *CheckpointHandler {
	return &CheckpointHandler{
		checkpointService: checkpointService,
		qrCodeService:     qrCodeService,
	}
}

func checkpointIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid checkpoint id")
	}
	return id, nil
}

// List returns all checkpoints. GET /checkpoints
func (h *CheckpointHandler) List(w http.ResponseWriter, r *http.Request) {
	checkpoints, err := h.checkpointService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": checkpoints}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get returns one checkpoint. GET /checkpoints/{id}
func (h *CheckpointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := checkpointIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cp, err := h.checkpointService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"checkpoint": cp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Nearest returns the checkpoint closest to a position.
// GET /checkpoints/nearest?latitude=&longitude=
func (h *CheckpointHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if latErr != nil || lngErr != nil {
		badRequestResponse(w, r, errors.New("latitude and longitude query parameters are required"))
		return
	}

	nearest, err := h.checkpointService.Nearest(r.Context(), lat, lng)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"nearest": nearest}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create adds a checkpoint. POST /checkpoints (staff)
func (h *CheckpointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CheckpointInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cp, err := h.checkpointService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"checkpoint": cp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update edits a checkpoint. PUT /checkpoints/{id} (staff)
func (h *CheckpointHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := checkpointIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CheckpointInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cp, err := h.checkpointService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"checkpoint": cp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete removes a checkpoint. DELETE /checkpoints/{id} (staff)
func (h *CheckpointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := checkpointIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.checkpointService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const defaultQRSize = 256

// QRCode streams the checkpoint's QR code PNG.
// GET /checkpoints/{id}/qrcode?size= (staff)
func (h *CheckpointHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, err := checkpointIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	size := defaultQRSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid size parameter"))
			return
		}
	}

	png, err := h.qrCodeService.CheckpointPNG(r.Context(), id, size)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishQRCode uploads the poster PNG to object storage.
// POST /checkpoints/{id}/qrcode/publish (staff)
func (h *CheckpointHandler) PublishQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := checkpointIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	size := defaultQRSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid size parameter"))
			return
		}
	}

	url, err := h.qrCodeService.PublishCheckpointPNG(r.Context(), id, size)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"url":     url,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
