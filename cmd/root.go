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
	"os"

	"github.com/spf13/cobra"

	"vertex-toolkit/pkg/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vertexctl",
	Short: "vertexctl deploys containerized GPU workloads as Vertex AI custom jobs.",
	Long: `vertexctl resolves an accelerator profile (machine type, GPU type and
count, scheduling strategy), renders the custom-job document, ensures the
output bucket exists, submits the job to Vertex AI, and follows its logs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// Execute runs the root command and exits non-zero on the first failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
