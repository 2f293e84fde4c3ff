// Package prover packages a theorem, proof, and imports into a Lean source
// artifact and checks it with the external lean binary in an isolated child
// process.
//
// When the binary is missing the package degrades to a keyword heuristic.
// That heuristic is NOT a soundness guarantee: it only rejects placeholder
// proofs and accepts anything with recognized tactic content, so its
// verdicts are marked Heuristic and must not be read as "theorem verified".
package prover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/valpere/dovid/internal/sanitizer"
)

// ErrTimeout marks a verification run killed by its deadline.
var ErrTimeout = errors.New("verification timed out")

// Timeouts for a bare lean invocation and for one going through the lake
// build wrapper, which has to elaborate the project first.
const (
	bareTimeout = 10 * time.Second
	lakeTimeout = 30 * time.Second
)

// ValidationResult is the verdict for one proof attempt. It is produced
// once and never mutated.
type ValidationResult struct {
	Success   bool   `json:"success"`
	RawOutput string `json:"raw_output"`
	RawError  string `json:"raw_error"`
	// Heuristic is true when the verdict came from the keyword fallback
	// rather than the checker; such a pass is not authoritative.
	Heuristic bool `json:"heuristic"`
}

// Invoker runs proof artifacts through the lean binary.
type Invoker struct {
	leanPath string
	workDir  string
}

// New creates an Invoker. leanPath defaults to "lean" on PATH; workDir
// defaults to the system temp directory and is also where lake project
// detection starts.
func New(leanPath, workDir string) *Invoker {
	if leanPath == "" {
		leanPath = "lean"
	}
	return &Invoker{leanPath: leanPath, workDir: workDir}
}

// Verify builds a temporary source artifact from the statement, proof and
// imports and checks it. Exit code zero is success; nonzero is failure with
// RawError holding stderr. A missing binary falls back to the heuristic
// validation; a timeout is a failure with a timeout sentinel in RawError.
// The artifact is always removed, success or failure.
func (v *Invoker) Verify(ctx context.Context, statement, proof string, imports []string) (*ValidationResult, error) {
	artifact := BuildArtifact(statement, proof, imports)

	if _, err := exec.LookPath(v.leanPath); err != nil {
		slog.Warn("lean binary not found, using heuristic validation; verdict is not authoritative",
			"lean", v.leanPath)
		return basicProofValidation(statement, proof), nil
	}

	f, err := os.CreateTemp(v.workDir, "dovid-*.lean")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(artifact); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close artifact: %w", err)
	}

	name, args, timeout := v.command(path)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("invoking checker", "cmd", name, "args", args, "timeout", timeout)

	var stdout, stderr strings.Builder
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	result := &ValidationResult{
		RawOutput: stdout.String(),
		RawError:  stderr.String(),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.RawError = fmt.Sprintf("%v after %s", ErrTimeout, timeout)
	case runErr == nil:
		result.Success = true
	default:
		if result.RawError == "" {
			result.RawError = runErr.Error()
		}
	}
	return result, nil
}

// command picks the invocation: bare lean, or `lake env lean` with a longer
// timeout when a lake project descriptor exists in an ancestor directory.
func (v *Invoker) command(artifactPath string) (string, []string, time.Duration) {
	if root := findLakeRoot(v.workDir); root != "" {
		return "lake", []string{"env", v.leanPath, artifactPath}, lakeTimeout
	}
	return v.leanPath, []string{artifactPath}, bareTimeout
}

// findLakeRoot walks up from dir looking for a lake build descriptor.
func findLakeRoot(dir string) string {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return ""
		}
	}
	for {
		for _, name := range []string{"lakefile.lean", "lakefile.toml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// basicProofValidation is the heuristic used when the checking tool is
// unavailable. A placeholder sentinel anywhere fails; otherwise any
// recognized tactic keyword passes, non-authoritatively.
func basicProofValidation(statement, proof string) *ValidationResult {
	// Judge the artifact as the checker would see it: the proof replaces
	// any placeholder in the declaration before the sentinel scan.
	combined := combine(statement, proof)
	if sanitizer.ContainsSentinel(combined) {
		return &ValidationResult{
			Heuristic: true,
			RawError:  fmt.Sprintf("heuristic validation: proof contains %q placeholder", sanitizer.Sentinel),
		}
	}
	if sanitizer.HasTacticKeyword(proof) {
		return &ValidationResult{
			Success:   true,
			Heuristic: true,
			RawOutput: "heuristic validation: recognized tactic keywords present (checker unavailable)",
		}
	}
	return &ValidationResult{
		Heuristic: true,
		RawError:  "heuristic validation: no recognized tactic keywords",
	}
}
