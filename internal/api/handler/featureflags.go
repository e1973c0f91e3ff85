package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
	"github.com/AmeyaMprojects/pilot-brief/internal/featureflags"
)

// FlagStore reads and updates feature flags.
type FlagStore interface {
	GetAllFlags(ctx context.Context) map[string]*featureflags.Flag
	Apply(ctx context.Context, req featureflags.FlagUpdateRequest) (map[string]*featureflags.Flag, error)
	InvalidateCache()
}

// FeatureFlagsHandler handles feature flag endpoints.
type FeatureFlagsHandler struct {
	flags FlagStore
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(flags FlagStore) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{flags: flags}
}

// ListFeatureFlags handles GET /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) ListFeatureFlags(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, toFlagList(h.flags.GetAllFlags(r.Context())))
}

// UpsertFeatureFlags handles PUT /v1/admin/feature-flags. The update is
// all-or-nothing and the response lists every flag.
func (h *FeatureFlagsHandler) UpsertFeatureFlags(w http.ResponseWriter, r *http.Request) {
	var input featureflags.FlagUpdateRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if operator := middleware.GetOperator(r.Context()); input.Reason == "" && operator != "" {
		input.Reason = "updated by " + operator
	}

	flags, err := h.flags.Apply(r.Context(), input)
	if err != nil {
		if errors.Is(err, featureflags.ErrInvalidUpdate) {
			response.BadRequest(w, r, err.Error(), []models.FieldError{{Field: "updates", Message: err.Error()}})
			return
		}
		response.InternalError(w, r, "failed to update feature flags")
		return
	}

	response.JSON(w, r, http.StatusOK, toFlagList(flags))
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.flags.InvalidateCache()
	response.NoContent(w, r)
}

func toFlagList(flags map[string]*featureflags.Flag) models.FlagList {
	sorted := featureflags.Sorted(flags)
	out := models.FlagList{Items: make([]models.Flag, 0, len(sorted.Items))}
	for _, f := range sorted.Items {
		item := models.Flag{Key: f.Key, Value: f.Value}
		if !f.UpdatedAt.IsZero() {
			ts := models.Timestamp(f.UpdatedAt)
			item.UpdatedAt = &ts
		}
		out.Items = append(out.Items, item)
	}
	return out
}
