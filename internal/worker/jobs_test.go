package worker_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/worker"
)

func newDispatcher(refresher *fakeRefresher) *worker.Dispatcher {
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO", "KLAX", "KDEN"}},
		Logger:    zerolog.Nop(),
		Refresher: refresher,
	})
	return worker.NewDispatcher(job, zerolog.Nop())
}

func TestDispatch_ObservationRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	d := newDispatcher(refresher)

	jobType, err := d.Dispatch(context.Background(), []byte(`{"job_type":"observation_refresh"}`))
	require.NoError(t, err)
	assert.Equal(t, worker.JobObservationRefresh, jobType)
	require.Len(t, refresher.batches, 1)
	assert.Equal(t, []string{"KSFO", "KLAX", "KDEN"}, refresher.batches[0])
}

func TestDispatch_ObservationRefreshWithCodes(t *testing.T) {
	refresher := &fakeRefresher{}
	d := newDispatcher(refresher)

	_, err := d.Dispatch(context.Background(), []byte(`{"job_type":"observation_refresh","codes":["kbos"]}`))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"KBOS"}}, refresher.batches)
}

func TestDispatch_ObservationRefreshMostlyFailed(t *testing.T) {
	d := newDispatcher(&fakeRefresher{missing: map[string]bool{"KSFO": true, "KLAX": true}})

	_, err := d.Dispatch(context.Background(), []byte(`{"job_type":"observation_refresh"}`))
	assert.ErrorContains(t, err, "too many refresh failures")
}

func TestDispatch_HealthCheck(t *testing.T) {
	refresher := &fakeRefresher{}
	d := newDispatcher(refresher)

	jobType, err := d.Dispatch(context.Background(), []byte(`{"job_type":"health_check"}`))
	require.NoError(t, err)
	assert.Equal(t, worker.JobHealthCheck, jobType)
	assert.Equal(t, [][]string{{"KSFO"}}, refresher.batches)
}

func TestDispatch_Errors(t *testing.T) {
	d := newDispatcher(&fakeRefresher{})

	_, err := d.Dispatch(context.Background(), []byte(`not json`))
	assert.ErrorContains(t, err, "parsing job message")

	_, err = d.Dispatch(context.Background(), []byte(`{"job_type":"alert_evaluation"}`))
	assert.ErrorIs(t, err, worker.ErrUnknownJob)
}

func TestSettle(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	d := newDispatcher(&fakeRefresher{failing: map[string]bool{"KSFO": true}})

	assert.True(t, worker.Settle(context.Background(), d, logger, "m1", []byte(`{"job_type":"alert_evaluation"}`)), "unknown jobs are acked")
	assert.False(t, worker.Settle(context.Background(), d, logger, "m2", []byte(`{"job_type":"health_check"}`)), "failed jobs are nacked")
	assert.False(t, worker.Settle(context.Background(), d, logger, "m3", []byte(`{`)), "malformed messages are nacked")

	assert.Contains(t, buf.String(), `"message_id":"m2"`)
	assert.Contains(t, buf.String(), "job failed")
}
