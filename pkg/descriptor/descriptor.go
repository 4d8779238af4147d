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

// Package descriptor builds and serializes the Vertex AI custom-job
// document. Field names and nesting are fixed by the Vertex AI API and
// validated strictly on the server side; nothing here is negotiable.
package descriptor

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"vertex-toolkit/pkg/config"
)

// EnvVar is a single container environment variable.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MachineSpec describes the compute shape of a worker pool.
type MachineSpec struct {
	MachineType      string `json:"machineType"`
	AcceleratorType  string `json:"acceleratorType"`
	AcceleratorCount int64  `json:"acceleratorCount"`
}

// ContainerSpec describes the container to run on each replica.
type ContainerSpec struct {
	ImageURI string   `json:"imageUri"`
	Args     []string `json:"args"`
	Env      []EnvVar `json:"env"`
}

// WorkerPoolSpec is one pool of identical replicas.
type WorkerPoolSpec struct {
	MachineSpec   MachineSpec   `json:"machineSpec"`
	ReplicaCount  int64         `json:"replicaCount"`
	ContainerSpec ContainerSpec `json:"containerSpec"`
}

// Scheduling carries the placement strategy for the job's replicas.
type Scheduling struct {
	Strategy string `json:"strategy"`
}

// BaseOutputDirectory is the GCS prefix the job writes its artifacts under.
type BaseOutputDirectory struct {
	OutputURIPrefix string `json:"outputUriPrefix"`
}

// JobSpec is the body of a custom job.
type JobSpec struct {
	WorkerPoolSpecs     []WorkerPoolSpec    `json:"workerPoolSpecs"`
	Scheduling          Scheduling          `json:"scheduling"`
	BaseOutputDirectory BaseOutputDirectory `json:"baseOutputDirectory"`
}

// CustomJob is the full job-submission document.
type CustomJob struct {
	DisplayName string  `json:"displayName"`
	JobSpec     JobSpec `json:"jobSpec"`
}

// OutputURIPrefix returns the GCS prefix job output is written under.
func OutputURIPrefix(bucket, experimentName string) string {
	return fmt.Sprintf("gs://%s/%s/vertex_ai_output", bucket, experimentName)
}

// Build assembles the job document from validated settings and the resolved
// accelerator profile. Environment variables are emitted sorted by name so
// rendering is a pure function of its inputs.
func Build(s config.Settings, profile config.Profile) CustomJob {
	env := make([]EnvVar, 0, len(s.Env))
	for name, value := range s.Env {
		env = append(env, EnvVar{Name: name, Value: value})
	}
	sort.Slice(env, func(i, j int) bool { return env[i].Name < env[j].Name })

	args := s.Args
	if args == nil {
		args = []string{}
	}

	return CustomJob{
		DisplayName: s.ExperimentName,
		JobSpec: JobSpec{
			WorkerPoolSpecs: []WorkerPoolSpec{
				{
					MachineSpec: MachineSpec{
						MachineType:      profile.MachineType,
						AcceleratorType:  profile.AcceleratorType,
						AcceleratorCount: profile.AcceleratorCount,
					},
					ReplicaCount: 1,
					ContainerSpec: ContainerSpec{
						ImageURI: s.ImageURI,
						Args:     args,
						Env:      env,
					},
				},
			},
			Scheduling:          Scheduling{Strategy: string(profile.Strategy)},
			BaseOutputDirectory: BaseOutputDirectory{OutputURIPrefix: OutputURIPrefix(s.Bucket, s.ExperimentName)},
		},
	}
}

// Render serializes the document. Equal documents render to identical bytes.
func (j CustomJob) Render() ([]byte, error) {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize job descriptor: %w", err)
	}
	return append(data, '\n'), nil
}

// Write renders the document to path on the given filesystem.
func Write(fs afero.Fs, path string, j CustomJob) error {
	data, err := j.Render()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job descriptor to %s: %w", path, err)
	}
	return nil
}
