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

// Package orchestrator drives a single launch end to end:
// resolve -> render -> submit -> stream. Each remote collaborator is an
// interface so tests can substitute fakes.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"vertex-toolkit/pkg/config"
	"vertex-toolkit/pkg/descriptor"
	"vertex-toolkit/pkg/logging"
)

// JobRequest holds everything needed for one launch. It is fully resolved
// and validated before Run is called.
type JobRequest struct {
	Settings config.Settings
	Profile  config.Profile

	// DescriptorPath is where the rendered job document is written.
	DescriptorPath string

	// DryRun stops after rendering the descriptor; nothing is submitted.
	DryRun bool

	// FollowLogs attaches to the job's log stream after submission.
	FollowLogs bool
}

// SubmittedJob describes a job accepted by the remote service.
type SubmittedJob struct {
	// ResourceName is the fully-qualified identifier,
	// e.g. projects/p/locations/us-central1/customJobs/1234567890.
	ResourceName string
	// JobNumber is the trailing path segment of ResourceName.
	JobNumber string
}

// ProjectConfigurer sets the active cloud project for subsequent calls.
type ProjectConfigurer interface {
	SetProject(projectID string) error
}

// BucketEnsurer checks that the output bucket exists, creating it if needed.
type BucketEnsurer interface {
	EnsureBucket(ctx context.Context, projectID, region, bucket string) error
}

// JobSubmitter submits a rendered job document and returns its resource name.
type JobSubmitter interface {
	SubmitJob(ctx context.Context, projectID, region string, job descriptor.CustomJob) (string, error)
}

// LogStreamer waits for the job to become log-ready and then attaches to its
// log stream, blocking until the stream ends or ctx is cancelled.
type LogStreamer interface {
	StreamLogs(ctx context.Context, projectID, region, jobNumber string) error
}

// Orchestrator wires the launch pipeline to its external collaborators.
type Orchestrator struct {
	Fs       afero.Fs
	Projects ProjectConfigurer
	Buckets  BucketEnsurer
	Jobs     JobSubmitter
	Logs     LogStreamer
}

// Run executes the launch pipeline. The first failing step aborts the run;
// there is no rollback, so a bucket or job created before the failure is
// left in place. An operator interrupt while streaming logs is normal
// termination, not a failure.
func (o *Orchestrator) Run(ctx context.Context, req JobRequest) (*SubmittedJob, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	job := descriptor.Build(req.Settings, req.Profile)
	if err := descriptor.Write(o.Fs, req.DescriptorPath, job); err != nil {
		return nil, err
	}
	logging.Info("Job descriptor written to %s", req.DescriptorPath)

	if req.DryRun {
		logging.Info("Dry run requested, stopping before submission.")
		return nil, nil
	}

	if err := o.Projects.SetProject(req.Settings.ProjectID); err != nil {
		return nil, fmt.Errorf("failed to set active project %s: %w", req.Settings.ProjectID, err)
	}

	if err := o.Buckets.EnsureBucket(ctx, req.Settings.ProjectID, req.Settings.Region, req.Settings.Bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket gs://%s: %w", req.Settings.Bucket, err)
	}

	resourceName, err := o.Jobs.SubmitJob(ctx, req.Settings.ProjectID, req.Settings.Region, job)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	submitted := &SubmittedJob{
		ResourceName: resourceName,
		JobNumber:    JobNumber(resourceName),
	}
	logging.Info("Submitted custom job %s (job number %s)", submitted.ResourceName, submitted.JobNumber)

	if !req.FollowLogs {
		return submitted, nil
	}

	logging.Info("Following logs for job %s...", submitted.JobNumber)
	if err := o.Logs.StreamLogs(ctx, req.Settings.ProjectID, req.Settings.Region, submitted.JobNumber); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Info("Log stream interrupted by operator.")
			return submitted, nil
		}
		return submitted, fmt.Errorf("log streaming failed: %w", err)
	}

	return submitted, nil
}

// JobNumber extracts the short job number from a fully-qualified resource
// name: the trailing path segment.
func JobNumber(resourceName string) string {
	if idx := strings.LastIndex(resourceName, "/"); idx >= 0 {
		return resourceName[idx+1:]
	}
	return resourceName
}

// ConsoleURLs returns the Cloud Console pages for monitoring a job and
// querying its logs.
func ConsoleURLs(projectID, region, jobNumber string) (monitorURL, logsURL string) {
	monitorURL = fmt.Sprintf(
		"https://console.cloud.google.com/vertex-ai/training/%s/locations/%s?project=%s",
		jobNumber, region, projectID)
	logsURL = fmt.Sprintf(
		"https://console.cloud.google.com/logs/query;query=resource.type%%3D%%22aiplatform.googleapis.com%%2FCustomJob%%22%%20AND%%20resource.labels.custom_job_id%%3D%%22%s%%22?project=%s&region=%s",
		jobNumber, projectID, region)
	return monitorURL, logsURL
}
