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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vertex-toolkit/pkg/logging"
	"vertex-toolkit/pkg/orchestrator/vertex"
)

var (
	cancelProject string
	cancelRegion  string
)

func init() {
	rootCmd.AddCommand(cancelCmd)

	cancelCmd.Flags().StringVarP(&cancelProject, "project", "p", "", "Google Cloud Project ID. Required.")
	cancelCmd.Flags().StringVar(&cancelRegion, "region", "us-central1", "Region the job was submitted to.")

	_ = cancelCmd.MarkFlagRequired("project")
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <job-number>",
	Short: "Cancels a running custom job.",
	Long: `Requests cancellation of a running custom job. Cancellation is
asynchronous on the service side; use 'vertexctl status' to watch the job
move to JOB_STATE_CANCELLED.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := vertex.NewJobService(ctx, cancelRegion)
		if err != nil {
			return err
		}

		if err := vertex.CancelJob(ctx, svc, cancelProject, cancelRegion, args[0]); err != nil {
			return err
		}
		logging.Info("Cancellation requested for job %s.", args[0])
		return nil
	},
	SilenceUsage: true,
}
