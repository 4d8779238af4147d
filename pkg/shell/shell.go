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

// Package shell runs external commands (gcloud and friends) and reports
// their output and exit codes.
package shell

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

// Result captures the outcome of an executed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecuteCommand runs a command to completion and captures its output.
// When called with a single string, the string is split on whitespace,
// so both ExecuteCommand("gcloud config get-value project") and
// ExecuteCommand("gcloud", "config", "get-value", "project") work.
func ExecuteCommand(command string, args ...string) Result {
	if len(args) == 0 {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return Result{Stderr: "empty command", ExitCode: 1}
		}
		command = fields[0]
		args = fields[1:]
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			// Command did not start (not found, permission denied, ...).
			exitCode = 127
			if stderr.Len() == 0 {
				stderr.WriteString(err.Error())
			}
		}
	}

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// StreamCommand runs a command with stdout/stderr attached to the current
// process, blocking until the command exits or ctx is cancelled. Cancellation
// (e.g. the operator pressing Ctrl-C) is reported as ctx.Err(), not as a
// command failure.
func StreamCommand(ctx context.Context, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
