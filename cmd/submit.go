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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vertex-toolkit/pkg/config"
	"vertex-toolkit/pkg/logging"
	"vertex-toolkit/pkg/orchestrator"
	"vertex-toolkit/pkg/orchestrator/vertex"
)

var (
	projectID      string
	region         string
	bucket         string
	accelerator    string
	imageURI       string
	experimentName string
	containerArgs  []string
	containerEnv   []string
	descriptorOut  string
	presetPath     string
	dryRun         bool
	noFollowLogs   bool
)

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud Project ID. Required (flag or preset).")
	submitCmd.Flags().StringVar(&region, "region", "", "Region for the Vertex AI job. Must offer the chosen accelerator. Defaults to "+config.DefaultRegion+".")
	submitCmd.Flags().StringVarP(&bucket, "bucket", "b", "", "GCS bucket name for job output. Created if missing. Required (flag or preset).")
	submitCmd.Flags().StringVarP(&accelerator, "accelerator", "a", "", "Accelerator family: 'a100' or 'h100'. Required (flag or preset).")
	submitCmd.Flags().StringVarP(&imageURI, "image", "i", "", "Full URI of the container image to run. Required (flag or preset).")
	submitCmd.Flags().StringVarP(&experimentName, "experiment-name", "n", "", "Base name for the run; a minute-granularity timestamp is appended.")
	submitCmd.Flags().StringArrayVar(&containerArgs, "arg", nil, "Argument passed to the container entrypoint. Repeatable, order preserved.")
	submitCmd.Flags().StringArrayVarP(&containerEnv, "env", "e", nil, "Container environment variable as KEY=VALUE. Repeatable.")
	submitCmd.Flags().StringVarP(&descriptorOut, "descriptor-out", "o", "custom_job.json", "Path the rendered job document is written to.")
	submitCmd.Flags().StringVar(&presetPath, "preset", "", "YAML preset file supplying defaults for the flags above.")
	submitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render and write the job document without submitting.")
	submitCmd.Flags().BoolVar(&noFollowLogs, "no-follow-logs", false, "Exit after submission instead of streaming logs.")
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submits a custom job to Vertex AI and follows its logs.",
	Long: `The 'submit' command deploys a container image as a Vertex AI custom job.
The machine type, accelerator type and count, and scheduling strategy are
derived from the accelerator family; A3 (H100) machines always use the
AUTOMATIC scheduling strategy.

After submission it waits for the job to start and attaches to its log
stream until the job completes or the process is interrupted.`,
	RunE:         runSubmitCmd,
	SilenceUsage: true,
}

func runSubmitCmd(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	settings := config.Settings{
		ProjectID:      projectID,
		Region:         region,
		Bucket:         bucket,
		ExperimentName: experimentName,
		ImageURI:       imageURI,
		Args:           containerArgs,
	}

	env, err := parseEnv(containerEnv)
	if err != nil {
		return err
	}
	settings.Env = env

	if accelerator != "" {
		family, err := config.ParseFamily(accelerator)
		if err != nil {
			return err
		}
		settings.Family = family
	}

	if presetPath != "" {
		preset, err := config.LoadPreset(fs, presetPath)
		if err != nil {
			return err
		}
		if err := settings.Apply(preset); err != nil {
			return err
		}
	}

	// Defaults are applied after the preset so an explicit flag beats the
	// preset, but the preset beats the built-in default.
	settings.ApplyDefaults()

	profile, err := config.Resolve(settings.Family)
	if err != nil {
		return err
	}
	settings.ExperimentName = config.ExperimentName(settings.ExperimentName, time.Now())

	if err := settings.Validate(); err != nil {
		return err
	}

	logging.Info("Launching %s on %s (%dx %s, %s scheduling) in %s",
		settings.ExperimentName, profile.MachineType, profile.AcceleratorCount,
		profile.AcceleratorType, profile.Strategy, settings.Region)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := orchestrator.Orchestrator{Fs: fs}
	if !dryRun {
		jobService, err := vertex.NewJobService(ctx, settings.Region)
		if err != nil {
			return err
		}
		buckets, err := vertex.NewBucketEnsurer(ctx)
		if err != nil {
			return err
		}
		orch.Projects = vertex.GcloudProjectConfigurer{}
		orch.Buckets = buckets
		orch.Jobs = &vertex.Submitter{Service: jobService}
		orch.Logs = &vertex.LogStreamer{Service: jobService}
	}

	req := orchestrator.JobRequest{
		Settings:       settings,
		Profile:        profile,
		DescriptorPath: descriptorOut,
		DryRun:         dryRun,
		FollowLogs:     !noFollowLogs,
	}

	submitted, err := orch.Run(ctx, req)
	if err != nil {
		return err
	}
	if submitted != nil {
		printSubmitted(settings, submitted)
	}
	return nil
}

func printSubmitted(settings config.Settings, job *orchestrator.SubmittedJob) {
	monitorURL, logsURL := orchestrator.ConsoleURLs(settings.ProjectID, settings.Region, job.JobNumber)
	fmt.Println()
	fmt.Printf("%s %s\n", color.GreenString("Submitted job:"), job.ResourceName)
	fmt.Printf("%s %s\n", color.GreenString("Job number:  "), job.JobNumber)
	fmt.Printf("%s %s\n", color.CyanString("Monitor:     "), monitorURL)
	fmt.Printf("%s %s\n", color.CyanString("Logs:        "), logsURL)
}

// parseEnv turns repeated KEY=VALUE flags into a map. The last value wins
// for a repeated key.
func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --env value %q, expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
