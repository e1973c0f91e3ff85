package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/handler"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/featureflags"
)

func newFlagService() *featureflags.Service {
	return featureflags.NewService(featureflags.ServiceConfig{Logger: zerolog.Nop()})
}

func TestListFeatureFlags(t *testing.T) {
	h := handler.NewFeatureFlagsHandler(newFlagService())

	rec := serve(t, http.MethodGet, "/v1/admin/feature-flags", "/v1/admin/feature-flags", "", h.ListFeatureFlags)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[models.FlagList](t, rec)
	require.Len(t, list.Items, 3)
	assert.Equal(t, featureflags.FlagCompactOnly, list.Items[0].Key)
	for _, f := range list.Items {
		assert.Equal(t, false, f.Value)
		assert.Nil(t, f.UpdatedAt)
	}
}

func TestUpsertFeatureFlags(t *testing.T) {
	svc := newFlagService()
	h := handler.NewFeatureFlagsHandler(svc)

	rec := serve(t, http.MethodPut, "/v1/admin/feature-flags", "/v1/admin/feature-flags",
		`{"updates":[{"key":"disable_ai_summary","value":true}],"reason":"provider outage"}`, h.UpsertFeatureFlags)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[models.FlagList](t, rec)
	var updated *models.Flag
	for i := range list.Items {
		if list.Items[i].Key == featureflags.FlagDisableAISummary {
			updated = &list.Items[i]
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, true, updated.Value)
	assert.NotNil(t, updated.UpdatedAt)
	assert.True(t, svc.IsAISummaryDisabled(context.Background()))
}

func TestUpsertFeatureFlags_Invalid(t *testing.T) {
	svc := newFlagService()
	h := handler.NewFeatureFlagsHandler(svc)

	for _, body := range []string{
		`{"updates":[]}`,
		`{"updates":[{"key":"unknown_flag","value":true}]}`,
		`{"updates":[{"key":"compact_only","value":"yes"}]}`,
		`{"updates":[{"key":"compact_only","value":true},{"key":"disable_ai_summary","value":1}]}`,
	} {
		rec := serve(t, http.MethodPut, "/v1/admin/feature-flags", "/v1/admin/feature-flags", body, h.UpsertFeatureFlags)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.False(t, svc.IsCompactOnly(context.Background()), "rejected updates must not be applied")
}

func TestInvalidateFlagCache(t *testing.T) {
	h := handler.NewFeatureFlagsHandler(newFlagService())

	rec := serve(t, http.MethodPost, "/v1/admin/feature-flags/invalidate", "/v1/admin/feature-flags/invalidate", "", h.InvalidateCache)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
