package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Job types carried in message payloads.
const (
	JobObservationRefresh = "observation_refresh"
	JobHealthCheck        = "health_check"
)

// ErrUnknownJob is returned for job types this worker does not handle.
// Such messages are acknowledged so they are not redelivered.
var ErrUnknownJob = errors.New("unknown job type")

// JobMessage is the payload of a job message.
type JobMessage struct {
	JobType string `json:"job_type"`

	// Codes overrides the hub list for observation_refresh.
	Codes []string `json:"codes,omitempty"`
}

// Dispatcher decodes job messages and runs them.
type Dispatcher struct {
	refresh *RefreshJob
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher for refresh jobs.
func NewDispatcher(refresh *RefreshJob, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{refresh: refresh, logger: logger}
}

// Dispatch runs the job encoded in data.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) (string, error) {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("parsing job message: %w", err)
	}

	switch msg.JobType {
	case JobObservationRefresh:
		return msg.JobType, d.observationRefresh(ctx, msg)
	case JobHealthCheck:
		return msg.JobType, d.refresh.HealthCheck(ctx)
	default:
		return msg.JobType, fmt.Errorf("%w: %q", ErrUnknownJob, msg.JobType)
	}
}

func (d *Dispatcher) observationRefresh(ctx context.Context, msg JobMessage) error {
	var result *RefreshResult
	if len(msg.Codes) > 0 {
		result = d.refresh.RunCodes(ctx, msg.Codes)
	} else {
		result = d.refresh.Run(ctx)
	}

	if !result.Healthy() {
		return fmt.Errorf("too many refresh failures: %d/%d unavailable", result.Unavailable, result.TotalCodes)
	}
	return nil
}
