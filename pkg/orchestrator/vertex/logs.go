// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vertex

import (
	"context"
	"fmt"
	"time"

	aiplatform "google.golang.org/api/aiplatform/v1"

	"vertex-toolkit/pkg/logging"
	"vertex-toolkit/pkg/shell"
)

// Job states in which logs exist or will never exist. Pending/queued states
// are not log-ready yet.
var logReadyStates = map[string]bool{
	"JOB_STATE_RUNNING":    true,
	"JOB_STATE_SUCCEEDED":  true,
	"JOB_STATE_FAILED":     true,
	"JOB_STATE_CANCELLING": true,
	"JOB_STATE_CANCELLED":  true,
	"JOB_STATE_EXPIRED":    true,
}

// LogStreamer polls a submitted job until it is log-ready and then attaches
// to its log stream via `gcloud ai custom-jobs stream-logs`, blocking until
// the stream ends or the operator interrupts.
type LogStreamer struct {
	Service *aiplatform.Service

	// PollInterval and ReadyTimeout bound the readiness poll. Zero values
	// fall back to the defaults.
	PollInterval time.Duration
	ReadyTimeout time.Duration
}

const (
	defaultPollInterval = 10 * time.Second
	defaultReadyTimeout = 15 * time.Minute
)

// StreamLogs waits for log readiness, then streams. There is no
// reconnect-on-drop: a closed stream ends the call.
func (l *LogStreamer) StreamLogs(ctx context.Context, projectID, region, jobNumber string) error {
	if err := l.waitUntilLogReady(ctx, projectID, region, jobNumber); err != nil {
		return err
	}
	return shell.StreamCommand(ctx, "gcloud", "ai", "custom-jobs", "stream-logs", jobNumber,
		"--region="+region, "--project="+projectID)
}

// waitUntilLogReady polls the job state instead of sleeping a fixed
// duration, so streaming attaches as soon as the job starts producing logs.
func (l *LogStreamer) waitUntilLogReady(ctx context.Context, projectID, region, jobNumber string) error {
	interval := l.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := l.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}

	name := JobPath(projectID, region, jobNumber)
	deadline := time.Now().Add(timeout)

	for {
		state, err := l.jobState(ctx, name)
		if err != nil {
			return err
		}
		if IsLogReady(state) {
			logging.Info("Job %s is in state %s, attaching to log stream.", jobNumber, state)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("job %s did not become log-ready within %s (last state %s)", jobNumber, timeout, state)
		}
		logging.Info("Job %s is in state %s, waiting for it to start...", jobNumber, state)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (l *LogStreamer) jobState(ctx context.Context, name string) (string, error) {
	job, err := l.Service.Projects.Locations.CustomJobs.Get(name).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get state of job %s: %w", name, err)
	}
	return job.State, nil
}

// IsLogReady reports whether a job state has (or will never have) logs.
func IsLogReady(state string) bool {
	return logReadyStates[state]
}
