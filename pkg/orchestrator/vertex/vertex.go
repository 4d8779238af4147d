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

// Package vertex implements the orchestrator's external interfaces against
// Vertex AI, Cloud Storage, and the gcloud CLI.
package vertex

import (
	"context"
	"fmt"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/pkg/errors"
	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"vertex-toolkit/pkg/descriptor"
	"vertex-toolkit/pkg/logging"
	"vertex-toolkit/pkg/shell"
)

const (
	submitAttempts = 4
	submitDelay    = 2 * time.Second
)

// NewJobService returns an aiplatform client pinned to the regional endpoint.
// Custom jobs must be created through the endpoint of their own region.
func NewJobService(ctx context.Context, region string) (*aiplatform.Service, error) {
	endpoint := fmt.Sprintf("https://%s-aiplatform.googleapis.com/", region)
	svc, err := aiplatform.NewService(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create Vertex AI client for %s", region)
	}
	return svc, nil
}

// parentPath builds the location path custom jobs are created under.
func parentPath(projectID, region string) string {
	return fmt.Sprintf("projects/%s/locations/%s", projectID, region)
}

// JobPath builds the fully-qualified resource name of a custom job.
func JobPath(projectID, region, jobNumber string) string {
	return fmt.Sprintf("%s/customJobs/%s", parentPath(projectID, region), jobNumber)
}

// Submitter submits custom jobs to Vertex AI. Transient failures (rate
// limits, server errors) are retried a bounded number of times; everything
// else surfaces verbatim on the first attempt.
type Submitter struct {
	Service *aiplatform.Service
}

// SubmitJob creates the custom job and returns its resource name.
func (s *Submitter) SubmitJob(ctx context.Context, projectID, region string, job descriptor.CustomJob) (string, error) {
	apiJob := toAPIJob(job)
	parent := parentPath(projectID, region)

	var created *aiplatform.GoogleCloudAiplatformV1CustomJob
	err := retry.Do(
		func() error {
			var doErr error
			created, doErr = s.Service.Projects.Locations.CustomJobs.Create(parent, apiJob).Context(ctx).Do()
			return doErr
		},
		retry.Context(ctx),
		retry.Attempts(submitAttempts),
		retry.Delay(submitDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.Info("Transient error submitting job (attempt %d/%d): %v", n+1, submitAttempts, err)
		}),
	)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create custom job in %s", parent)
	}
	return created.Name, nil
}

// toAPIJob maps the rendered descriptor onto the aiplatform request types.
func toAPIJob(job descriptor.CustomJob) *aiplatform.GoogleCloudAiplatformV1CustomJob {
	pools := make([]*aiplatform.GoogleCloudAiplatformV1WorkerPoolSpec, 0, len(job.JobSpec.WorkerPoolSpecs))
	for _, pool := range job.JobSpec.WorkerPoolSpecs {
		env := make([]*aiplatform.GoogleCloudAiplatformV1EnvVar, 0, len(pool.ContainerSpec.Env))
		for _, e := range pool.ContainerSpec.Env {
			env = append(env, &aiplatform.GoogleCloudAiplatformV1EnvVar{Name: e.Name, Value: e.Value})
		}
		pools = append(pools, &aiplatform.GoogleCloudAiplatformV1WorkerPoolSpec{
			MachineSpec: &aiplatform.GoogleCloudAiplatformV1MachineSpec{
				MachineType:      pool.MachineSpec.MachineType,
				AcceleratorType:  pool.MachineSpec.AcceleratorType,
				AcceleratorCount: pool.MachineSpec.AcceleratorCount,
			},
			ReplicaCount: pool.ReplicaCount,
			ContainerSpec: &aiplatform.GoogleCloudAiplatformV1ContainerSpec{
				ImageUri: pool.ContainerSpec.ImageURI,
				Args:     pool.ContainerSpec.Args,
				Env:      env,
			},
		})
	}

	return &aiplatform.GoogleCloudAiplatformV1CustomJob{
		DisplayName: job.DisplayName,
		JobSpec: &aiplatform.GoogleCloudAiplatformV1CustomJobSpec{
			WorkerPoolSpecs: pools,
			Scheduling: &aiplatform.GoogleCloudAiplatformV1Scheduling{
				Strategy: job.JobSpec.Scheduling.Strategy,
			},
			BaseOutputDirectory: &aiplatform.GoogleCloudAiplatformV1GcsDestination{
				OutputUriPrefix: job.JobSpec.BaseOutputDirectory.OutputURIPrefix,
			},
		},
	}
}

// IsTransient reports whether an API error is worth retrying: rate limits
// and server-side failures. Auth, permission, quota, and validation errors
// are permanent from the client's point of view.
func IsTransient(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 429 || apiErr.Code >= 500
}

// GcloudProjectConfigurer sets the active project through the gcloud CLI,
// matching what operators do by hand.
type GcloudProjectConfigurer struct{}

// SetProject runs `gcloud config set project`.
func (GcloudProjectConfigurer) SetProject(projectID string) error {
	res := shell.ExecuteCommand("gcloud", "config", "set", "project", projectID)
	if res.ExitCode != 0 {
		return fmt.Errorf("gcloud config set project failed with exit code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	logging.Info("Active gcloud project set to %s", projectID)
	return nil
}
