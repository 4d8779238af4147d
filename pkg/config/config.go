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

// Package config resolves the accelerator profile and validates all
// user-supplied settings before any remote call is made.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Family identifies the class of hardware accelerator requested for a job.
type Family string

const (
	FamilyA100 Family = "A100"
	FamilyH100 Family = "H100"
)

// Strategy is the Vertex AI scheduling strategy for a worker pool.
type Strategy string

const (
	StrategyStandard  Strategy = "STANDARD"
	StrategyAutomatic Strategy = "AUTOMATIC"
)

// Profile is the machine shape derived from an accelerator family.
// The scheduling strategy is functionally dependent on the family:
// A3 (H100) machines require AUTOMATIC, everything else uses STANDARD.
type Profile struct {
	Family           Family
	MachineType      string
	AcceleratorType  string
	AcceleratorCount int64
	Strategy         Strategy
	Regions          []string
}

// profiles is the exhaustive family-to-shape table. New accelerator
// families are added here without touching any call site.
var profiles = map[Family]Profile{
	FamilyA100: {
		Family:           FamilyA100,
		MachineType:      "a2-ultragpu-1g",
		AcceleratorType:  "NVIDIA_A100_80GB",
		AcceleratorCount: 1,
		Strategy:         StrategyStandard,
		Regions:          []string{"us-central1", "us-east4", "europe-west4", "asia-southeast1"},
	},
	FamilyH100: {
		Family:           FamilyH100,
		MachineType:      "a3-highgpu-8g",
		AcceleratorType:  "NVIDIA_H100_80GB",
		AcceleratorCount: 8,
		Strategy:         StrategyAutomatic,
		Regions:          []string{"us-central1", "us-west1", "us-east4", "europe-west4", "asia-southeast1"},
	},
}

// ConfigurationError reports invalid local configuration. It is always
// raised before any remote call is attempted.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseFamily parses a user-supplied accelerator selector ("a100", "H100", ...).
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := profiles[f]; !ok {
		return "", configErrorf("unsupported accelerator family %q (supported: %s)", s, strings.Join(familyNames(), ", "))
	}
	return f, nil
}

// Resolve returns the profile for a family.
func Resolve(f Family) (Profile, error) {
	p, ok := profiles[f]
	if !ok {
		return Profile{}, configErrorf("unsupported accelerator family %q (supported: %s)", f, strings.Join(familyNames(), ", "))
	}
	return p, nil
}

// Families lists the supported accelerator families in stable order.
func Families() []Family {
	names := familyNames()
	out := make([]Family, len(names))
	for i, n := range names {
		out[i] = Family(n)
	}
	return out
}

func familyNames() []string {
	names := make([]string, 0, len(profiles))
	for f := range profiles {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// DefaultRegion is used when neither a flag nor a preset names a region.
const DefaultRegion = "us-central1"

// Settings holds every user-editable value for a launch.
type Settings struct {
	ProjectID      string
	Region         string
	Bucket         string
	ExperimentName string
	Family         Family
	ImageURI       string
	Args           []string
	Env            map[string]string
}

// ApplyDefaults fills built-in defaults for fields still unset after flags
// and presets have been merged.
func (s *Settings) ApplyDefaults() {
	if strings.TrimSpace(s.Region) == "" {
		s.Region = DefaultRegion
	}
}

// placeholders are template values users forget to replace; they are
// rejected before any remote call.
var placeholders = map[string]bool{
	"your-project-id":  true,
	"your-project":     true,
	"your-bucket":      true,
	"your-bucket-name": true,
	"your-image":       true,
	"changeme":         true,
	"todo":             true,
}

func checkRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return configErrorf("%s must be set", field)
	}
	if placeholders[strings.ToLower(strings.TrimSpace(value))] {
		return configErrorf("%s is still set to the placeholder value %q", field, value)
	}
	return nil
}

// Validate checks the settings locally: required values present, no
// placeholder values, and the region offers the chosen accelerator family.
func (s Settings) Validate() error {
	if err := checkRequired("project", s.ProjectID); err != nil {
		return err
	}
	if err := checkRequired("bucket", s.Bucket); err != nil {
		return err
	}
	if err := checkRequired("image", s.ImageURI); err != nil {
		return err
	}
	if err := checkRequired("region", s.Region); err != nil {
		return err
	}
	profile, err := Resolve(s.Family)
	if err != nil {
		return err
	}
	if !regionSupported(profile, s.Region) {
		return configErrorf("region %q does not offer %s machines (%s); supported regions: %s",
			s.Region, profile.Family, profile.MachineType, strings.Join(profile.Regions, ", "))
	}
	for name := range s.Env {
		if strings.TrimSpace(name) == "" {
			return configErrorf("environment variable names must not be empty")
		}
	}
	return nil
}

func regionSupported(p Profile, region string) bool {
	for _, r := range p.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// experimentTimestampFormat gives minute granularity, which is enough to
// keep output prefixes of successive runs from colliding in practice.
const experimentTimestampFormat = "20060102-1504"

// ExperimentName derives the run's experiment name from a base name and a
// timestamp. The timestamp is a parameter so rendering stays reproducible
// in tests.
func ExperimentName(base string, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "vertex-job"
	}
	return fmt.Sprintf("%s-%s", base, now.Format(experimentTimestampFormat))
}
