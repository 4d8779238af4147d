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

package shell

import (
	"strings"
	"testing"
)

func TestExecuteCommandSplitsSingleString(t *testing.T) {
	res := ExecuteCommand("echo hello world")
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if got := strings.TrimSpace(res.Stdout); got != "hello world" {
		t.Errorf("Stdout = %q, want %q", got, "hello world")
	}
}

func TestExecuteCommandWithArgs(t *testing.T) {
	res := ExecuteCommand("echo", "hello")
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if got := strings.TrimSpace(res.Stdout); got != "hello" {
		t.Errorf("Stdout = %q, want %q", got, "hello")
	}
}

func TestExecuteCommandFailures(t *testing.T) {
	if res := ExecuteCommand(""); res.ExitCode == 0 {
		t.Error("empty command should fail")
	}
	if res := ExecuteCommand("definitely-not-a-real-binary-xyz"); res.ExitCode == 0 {
		t.Error("missing binary should fail")
	}
	if res := ExecuteCommand("false"); res.ExitCode == 0 {
		t.Error("false should report a non-zero exit code")
	}
}
