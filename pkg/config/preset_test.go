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

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const presetYAML = `project: demo
region: us-west1
bucket: demo-bucket
accelerator: h100
image: demo-image:latest
args:
  - --epochs
  - "10"
env:
  NCCL_DEBUG: INFO
  OMP_NUM_THREADS: "96"
`

func TestLoadPreset(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "h100.yaml", []byte(presetYAML), 0644); err != nil {
		t.Fatalf("failed to write preset fixture: %v", err)
	}

	got, err := LoadPreset(fs, "h100.yaml")
	if err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}

	want := Preset{
		Project:     "demo",
		Region:      "us-west1",
		Bucket:      "demo-bucket",
		Accelerator: "h100",
		Image:       "demo-image:latest",
		Args:        []string{"--epochs", "10"},
		Env:         map[string]string{"NCCL_DEBUG": "INFO", "OMP_NUM_THREADS": "96"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPreset mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	if _, err := LoadPreset(fs, "missing.yaml"); err == nil {
		t.Error("LoadPreset(missing.yaml) succeeded, want error")
	}

	if err := afero.WriteFile(fs, "bad.yaml", []byte("unknownField: true"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := LoadPreset(fs, "bad.yaml"); err == nil {
		t.Error("LoadPreset(bad.yaml) succeeded, want error for unknown field")
	}
}

func TestApplyPreset(t *testing.T) {
	preset := Preset{
		Project:     "preset-project",
		Region:      "us-west1",
		Bucket:      "preset-bucket",
		Accelerator: "h100",
		Image:       "preset-image:latest",
		Args:        []string{"--from-preset"},
		Env:         map[string]string{"A": "preset", "B": "preset"},
	}

	t.Run("fills empty fields", func(t *testing.T) {
		var s Settings
		if err := s.Apply(preset); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if s.ProjectID != "preset-project" || s.Bucket != "preset-bucket" || s.ImageURI != "preset-image:latest" {
			t.Errorf("Apply did not fill empty fields: %+v", s)
		}
		if s.Family != FamilyH100 {
			t.Errorf("Family = %v, want %v", s.Family, FamilyH100)
		}
		if diff := cmp.Diff([]string{"--from-preset"}, s.Args); diff != "" {
			t.Errorf("Args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flags win over preset", func(t *testing.T) {
		s := Settings{
			ProjectID: "flag-project",
			Family:    FamilyA100,
			Args:      []string{"--from-flag"},
			Env:       map[string]string{"A": "flag"},
		}
		if err := s.Apply(preset); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if s.ProjectID != "flag-project" {
			t.Errorf("ProjectID = %q, want flag value", s.ProjectID)
		}
		if s.Family != FamilyA100 {
			t.Errorf("Family = %v, want flag value", s.Family)
		}
		if diff := cmp.Diff([]string{"--from-flag"}, s.Args); diff != "" {
			t.Errorf("Args mismatch (-want +got):\n%s", diff)
		}
		want := map[string]string{"A": "flag", "B": "preset"}
		if diff := cmp.Diff(want, s.Env); diff != "" {
			t.Errorf("Env mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("preset region beats the built-in default", func(t *testing.T) {
		// The region flag carries no default of its own; the built-in
		// default is applied only after the preset, so a preset's region
		// must survive the merge.
		var s Settings
		if err := s.Apply(preset); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		s.ApplyDefaults()
		if s.Region != "us-west1" {
			t.Errorf("Region = %q, want preset value us-west1", s.Region)
		}
	})

	t.Run("explicit region beats the preset", func(t *testing.T) {
		s := Settings{Region: "europe-west4"}
		if err := s.Apply(preset); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		s.ApplyDefaults()
		if s.Region != "europe-west4" {
			t.Errorf("Region = %q, want flag value europe-west4", s.Region)
		}
	})

	t.Run("default region fills when nothing is set", func(t *testing.T) {
		var s Settings
		s.ApplyDefaults()
		if s.Region != DefaultRegion {
			t.Errorf("Region = %q, want %q", s.Region, DefaultRegion)
		}
	})

	t.Run("bad accelerator in preset", func(t *testing.T) {
		var s Settings
		if err := s.Apply(Preset{Accelerator: "tpu"}); err == nil {
			t.Error("Apply succeeded with unsupported accelerator, want error")
		}
	})
}
