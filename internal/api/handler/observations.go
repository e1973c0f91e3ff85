package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
	"github.com/AmeyaMprojects/pilot-brief/internal/route"
)

// ObservationCache drops cached observations. No codes means all of them.
type ObservationCache interface {
	Invalidate(ctx context.Context, codes ...string) error
}

// ObservationsHandler handles observation cache administration.
type ObservationsHandler struct {
	cache  ObservationCache
	logger zerolog.Logger
}

// NewObservationsHandler creates a new ObservationsHandler.
func NewObservationsHandler(cache ObservationCache, logger zerolog.Logger) *ObservationsHandler {
	return &ObservationsHandler{cache: cache, logger: logger}
}

// Invalidate handles POST /v1/admin/observations/invalidate.
func (h *ObservationsHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var input models.InvalidateObservationsRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	codes := make([]string, 0, len(input.Codes))
	for _, c := range input.Codes {
		if n := route.NormalizeCode(c); n != "" {
			codes = append(codes, n)
		}
	}

	operator := middleware.GetOperator(r.Context())
	if err := h.cache.Invalidate(r.Context(), codes...); err != nil {
		h.logger.Error().Err(err).Str("operator", operator).Strs("codes", codes).Msg("observation invalidation failed")
		response.BadGateway(w, r, "failed to invalidate shared observation cache")
		return
	}

	h.logger.Info().Str("operator", operator).Strs("codes", codes).Msg("observations invalidated")
	response.NoContent(w, r)
}
