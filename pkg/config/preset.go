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
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Preset is an optional YAML file carrying defaults for a launch, so teams
// can check in per-workload files instead of repeating flags. Flags always
// win over preset values.
type Preset struct {
	Project        string            `yaml:"project"`
	Region         string            `yaml:"region"`
	Bucket         string            `yaml:"bucket"`
	ExperimentName string            `yaml:"experimentName"`
	Accelerator    string            `yaml:"accelerator"`
	Image          string            `yaml:"image"`
	Args           []string          `yaml:"args"`
	Env            map[string]string `yaml:"env"`
}

// LoadPreset reads and parses a preset file.
func LoadPreset(fs afero.Fs, path string) (Preset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read preset file %s: %w", path, err)
	}
	var p Preset
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Preset{}, configErrorf("failed to parse preset file %s: %v", path, err)
	}
	return p, nil
}

// Apply fills empty settings fields from the preset. Env entries are merged
// with any already-set variable taking precedence over the preset's.
func (s *Settings) Apply(p Preset) error {
	if s.ProjectID == "" {
		s.ProjectID = p.Project
	}
	if s.Region == "" {
		s.Region = p.Region
	}
	if s.Bucket == "" {
		s.Bucket = p.Bucket
	}
	if s.ExperimentName == "" {
		s.ExperimentName = p.ExperimentName
	}
	if s.ImageURI == "" {
		s.ImageURI = p.Image
	}
	if s.Family == "" && p.Accelerator != "" {
		f, err := ParseFamily(p.Accelerator)
		if err != nil {
			return err
		}
		s.Family = f
	}
	if len(s.Args) == 0 {
		s.Args = append([]string(nil), p.Args...)
	}
	for name, value := range p.Env {
		if s.Env == nil {
			s.Env = map[string]string{}
		}
		if _, ok := s.Env[name]; !ok {
			s.Env[name] = value
		}
	}
	return nil
}
