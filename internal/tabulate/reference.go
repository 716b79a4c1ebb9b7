package tabulate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// ReferenceRunner shells out to an external reference implementation of
// the dynamic interpreter (§7: differential testing against a second,
// independently-built engine is the point of the whole fuzz harness),
// the same external-process pattern internal/smt.ExternalSolver uses for
// the SMT backend. A nil *ReferenceRunner disables cross-checking
// entirely; tabulate then reports only this port's own verdicts.
type ReferenceRunner struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// NewReferenceRunner returns a runner invoking path with serialized
// pattern text on stdin, defaulting to a 3s per-call deadline (§7).
func NewReferenceRunner(path string, args ...string) *ReferenceRunner {
	return &ReferenceRunner{Path: path, Args: args, Timeout: 3 * time.Second}
}

// ReferenceResult is the reference engine's verdict on one pattern,
// reduced to the same ok/abort shape as DynamicVerdict so the tabulator
// can diff the two directly.
type ReferenceResult struct {
	OK     bool
	Detail string
}

// Check runs the reference binary against src (the pattern's generic
// syntax text, per §6). A non-zero exit or a timed-out call is a verdict
// (OK false, with Detail saying which); only a failure to run the binary
// at all is returned as an infrastructure error.
func (r *ReferenceRunner) Check(ctx context.Context, src string) (ReferenceResult, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.Path, r.Args...)
	cmd.Stdin = bytes.NewReader([]byte(src))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return ReferenceResult{OK: false, Detail: fmt.Sprintf("reference engine timed out after %s", timeout)}, nil
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return ReferenceResult{OK: false, Detail: stderr.String()}, nil
		}
		return ReferenceResult{}, fmt.Errorf("reference engine: %w", err)
	}
	return ReferenceResult{OK: true, Detail: stdout.String()}, nil
}
