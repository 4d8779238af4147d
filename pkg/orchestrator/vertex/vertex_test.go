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
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"vertex-toolkit/pkg/descriptor"
)

func TestJobPath(t *testing.T) {
	got := JobPath("demo", "us-central1", "1234567890")
	want := "projects/demo/locations/us-central1/customJobs/1234567890"
	if got != want {
		t.Errorf("JobPath = %q, want %q", got, want)
	}
}

func TestToAPIJob(t *testing.T) {
	job := descriptor.CustomJob{
		DisplayName: "demo-exp",
		JobSpec: descriptor.JobSpec{
			WorkerPoolSpecs: []descriptor.WorkerPoolSpec{
				{
					MachineSpec: descriptor.MachineSpec{
						MachineType:      "a3-highgpu-8g",
						AcceleratorType:  "NVIDIA_H100_80GB",
						AcceleratorCount: 8,
					},
					ReplicaCount: 1,
					ContainerSpec: descriptor.ContainerSpec{
						ImageURI: "demo-image:latest",
						Args:     []string{"--epochs", "10"},
						Env:      []descriptor.EnvVar{{Name: "NCCL_DEBUG", Value: "INFO"}},
					},
				},
			},
			Scheduling:          descriptor.Scheduling{Strategy: "AUTOMATIC"},
			BaseOutputDirectory: descriptor.BaseOutputDirectory{OutputURIPrefix: "gs://demo-bucket/demo-exp/vertex_ai_output"},
		},
	}

	apiJob := toAPIJob(job)

	if apiJob.DisplayName != "demo-exp" {
		t.Errorf("DisplayName = %q, want demo-exp", apiJob.DisplayName)
	}
	if len(apiJob.JobSpec.WorkerPoolSpecs) != 1 {
		t.Fatalf("WorkerPoolSpecs length = %d, want 1", len(apiJob.JobSpec.WorkerPoolSpecs))
	}
	pool := apiJob.JobSpec.WorkerPoolSpecs[0]
	if pool.MachineSpec.MachineType != "a3-highgpu-8g" {
		t.Errorf("MachineType = %q", pool.MachineSpec.MachineType)
	}
	if pool.MachineSpec.AcceleratorCount != 8 {
		t.Errorf("AcceleratorCount = %d, want 8", pool.MachineSpec.AcceleratorCount)
	}
	if pool.ReplicaCount != 1 {
		t.Errorf("ReplicaCount = %d, want 1", pool.ReplicaCount)
	}
	if pool.ContainerSpec.ImageUri != "demo-image:latest" {
		t.Errorf("ImageUri = %q", pool.ContainerSpec.ImageUri)
	}
	if len(pool.ContainerSpec.Env) != 1 || pool.ContainerSpec.Env[0].Name != "NCCL_DEBUG" {
		t.Errorf("Env = %+v, want NCCL_DEBUG entry", pool.ContainerSpec.Env)
	}
	if apiJob.JobSpec.Scheduling.Strategy != "AUTOMATIC" {
		t.Errorf("Strategy = %q, want AUTOMATIC", apiJob.JobSpec.Scheduling.Strategy)
	}
	if apiJob.JobSpec.BaseOutputDirectory.OutputUriPrefix != "gs://demo-bucket/demo-exp/vertex_ai_output" {
		t.Errorf("OutputUriPrefix = %q", apiJob.JobSpec.BaseOutputDirectory.OutputUriPrefix)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"unavailable", &googleapi.Error{Code: 503}, true},
		{"permission denied", &googleapi.Error{Code: 403}, false},
		{"invalid argument", &googleapi.Error{Code: 400}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"wrapped transient", fmt.Errorf("submit: %w", &googleapi.Error{Code: 502}), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsLogReady(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"JOB_STATE_QUEUED", false},
		{"JOB_STATE_PENDING", false},
		{"JOB_STATE_RUNNING", true},
		{"JOB_STATE_SUCCEEDED", true},
		{"JOB_STATE_FAILED", true},
		{"JOB_STATE_CANCELLED", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := IsLogReady(tt.state); got != tt.want {
				t.Errorf("IsLogReady(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}
