package engines

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes backend binaries. It exists so tests can replace the
// subprocess layer without touching the real gtts-cli or espeak-ng.
type Runner interface {
	// LookPath resolves a binary name the way exec.LookPath does.
	LookPath(file string) (string, error)

	// Run executes name with args, feeding stdin, and returns captured output.
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs real subprocesses.
type ExecRunner struct {
	// GracePeriod is how long a process gets after os.Interrupt before it is killed.
	GracePeriod time.Duration
}

// LookPath implements Runner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) ([]byte, []byte, error) {
	grace := r.GracePeriod
	if grace <= 0 {
		grace = 100 * time.Millisecond
	}

	cmd := exec.Command(name, args...)

	// Pre-configure stdin so the child never blocks waiting on a terminal.
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		return stdout.Bytes(), stderr.Bytes(), err

	case <-ctx.Done():
		// Try graceful shutdown first
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
			<-done
		}
		return stdout.Bytes(), stderr.Bytes(), ctx.Err()
	}
}

var _ Runner = ExecRunner{}
