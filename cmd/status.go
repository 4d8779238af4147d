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
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vertex-toolkit/pkg/orchestrator/vertex"
)

var (
	statusProject string
	statusRegion  string
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusProject, "project", "p", "", "Google Cloud Project ID. Required.")
	statusCmd.Flags().StringVar(&statusRegion, "region", "us-central1", "Region the job was submitted to.")

	_ = statusCmd.MarkFlagRequired("project")
}

var statusCmd = &cobra.Command{
	Use:   "status <job-number>",
	Short: "Shows the current state of a submitted custom job.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := vertex.NewJobService(ctx, statusRegion)
		if err != nil {
			return err
		}

		status, err := vertex.GetJobStatus(ctx, svc, statusProject, statusRegion, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.GreenString("Job:    "), status.ResourceName)
		fmt.Printf("%s %s\n", color.GreenString("Name:   "), status.DisplayName)
		fmt.Printf("%s %s\n", color.GreenString("State:  "), status.State)
		fmt.Printf("%s %s\n", color.GreenString("Created:"), status.CreateTime)
		if status.EndTime != "" {
			fmt.Printf("%s %s\n", color.GreenString("Ended:  "), status.EndTime)
		}
		return nil
	},
	SilenceUsage: true,
}
