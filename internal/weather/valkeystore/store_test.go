package valkeystore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/valkeystore"
)

func TestKey(t *testing.T) {
	s := valkeystore.NewWithClient(nil, "")
	assert.Equal(t, "pilotbrief:obs:KSFO", s.Key("KSFO"))

	s = valkeystore.NewWithClient(nil, "test:")
	assert.Equal(t, "test:KLAX", s.Key("KLAX"))
}

func TestDelete_NoCodes(t *testing.T) {
	s := valkeystore.NewWithClient(nil, "")
	assert.NoError(t, s.Delete(context.Background()))
}

// Runs against a live server when VALKEY_ADDR is set.
func TestStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		t.Skip("VALKEY_ADDR required")
	}

	s, err := valkeystore.New(addr, "pilotbrief:test:"+time.Now().Format("150405.000")+":")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	_, err = s.Get(ctx, "KSFO")
	require.ErrorIs(t, err, weather.ErrCacheMiss)

	rec := weather.ObservationRecord{
		Code:      "KSFO",
		Status:    weather.StatusSuccess,
		RawText:   "KSFO 121756Z 28012KT 10SM FEW020 18/12 A3002",
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Set(ctx, rec, time.Minute))

	got, err := s.Get(ctx, "KSFO")
	require.NoError(t, err)
	assert.Equal(t, rec.RawText, got.RawText)
	assert.True(t, rec.FetchedAt.Equal(got.FetchedAt))

	require.NoError(t, s.Delete(ctx, "KSFO"))
	_, err = s.Get(ctx, "KSFO")
	assert.ErrorIs(t, err, weather.ErrCacheMiss)
}
