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

	"github.com/pkg/errors"
	aiplatform "google.golang.org/api/aiplatform/v1"
)

// JobStatus is a point-in-time view of a submitted job.
type JobStatus struct {
	ResourceName string
	DisplayName  string
	State        string
	CreateTime   string
	EndTime      string
}

// GetJobStatus fetches the current state of a custom job by its job number.
func GetJobStatus(ctx context.Context, svc *aiplatform.Service, projectID, region, jobNumber string) (*JobStatus, error) {
	name := JobPath(projectID, region, jobNumber)
	job, err := svc.Projects.Locations.CustomJobs.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get custom job %s", name)
	}
	return &JobStatus{
		ResourceName: job.Name,
		DisplayName:  job.DisplayName,
		State:        job.State,
		CreateTime:   job.CreateTime,
		EndTime:      job.EndTime,
	}, nil
}

// CancelJob requests cancellation of a running custom job. Cancellation is
// asynchronous; the job moves through JOB_STATE_CANCELLING before reaching
// JOB_STATE_CANCELLED.
func CancelJob(ctx context.Context, svc *aiplatform.Service, projectID, region, jobNumber string) error {
	name := JobPath(projectID, region, jobNumber)
	req := &aiplatform.GoogleCloudAiplatformV1CancelCustomJobRequest{}
	if _, err := svc.Projects.Locations.CustomJobs.Cancel(name, req).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "failed to cancel custom job %s", name)
	}
	return nil
}
