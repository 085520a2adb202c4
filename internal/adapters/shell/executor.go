// Package shell provides the process executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

const pathVariable = "PATH"

// Executor implements ports.Executor using os/exec.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates an Executor that forwards the standard streams of the current process.
func NewExecutor() *Executor {
	return NewExecutorWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewExecutorWithIO creates an Executor with explicit standard streams.
func NewExecutorWithIO(stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run starts the process with the environment of the current process merged with proc.Env,
// waits for it and returns its exit code.
func (e *Executor) Run(ctx context.Context, proc domain.Process) (int, error) {
	env := resolveEnvironment(os.Environ(), proc.Env)

	// Resolve the executable path using the new environment's PATH
	executable := proc.Path
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, proc.Args...) //nolint:gosec // launcher path is verified by the caller
	cmd.Dir = proc.Dir
	cmd.Env = env
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	return -1, zerr.With(zerr.Wrap(err, domain.ErrProcessStartFailed.Error()), "path", proc.Path)
}

// resolveEnvironment merges overrides into the system environment. PATH overrides are
// prepended to the system PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	keys := make([]string, 0, len(sysEnv))
	envMap := make(map[string]string, len(sysEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			keys = append(keys, k)
		}
		envMap[k] = v
	}

	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			keys = append(keys, k)
		}
		if k == pathVariable && envMap[k] != "" {
			v = v + string(os.PathListSeparator) + envMap[k]
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, pathVariable+"="); ok {
			path = v
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
