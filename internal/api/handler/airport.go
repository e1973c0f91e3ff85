package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmeyaMprojects/pilot-brief/internal/airport"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
)

// AirportDirectory reads airports.
type AirportDirectory interface {
	Get(ctx context.Context, code string) (*airport.Airport, error)
}

// AirportHandler handles airport lookups.
type AirportHandler struct {
	directory AirportDirectory
}

// NewAirportHandler creates a new AirportHandler.
func NewAirportHandler(directory AirportDirectory) *AirportHandler {
	return &AirportHandler{directory: directory}
}

// GetAirport handles GET /v1/airports/{code}.
func (h *AirportHandler) GetAirport(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	a, err := h.directory.Get(r.Context(), code)
	switch {
	case errors.Is(err, airport.ErrInvalidCode):
		response.BadRequest(w, r, "invalid airport code", []models.FieldError{
			{Field: "code", Message: "must be a 3 or 4 character identifier"},
		})
		return
	case errors.Is(err, airport.ErrAirportNotFound):
		response.NotFound(w, r, "airport not found")
		return
	case err != nil:
		response.InternalError(w, r, "failed to load airport")
		return
	}

	response.JSON(w, r, http.StatusOK, toAirport(a))
}
