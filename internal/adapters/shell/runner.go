// Package shell runs oracle commands inside the consuming project.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.ProcessRunner.
//
// Commands run attached to a pseudo-terminal so tools such as cargo keep their
// usual diagnostics. When no terminal can be allocated the runner falls back
// to a shared pipe for stdout and stderr.
type Runner struct {
	// Dir is the working directory of spawned commands. Empty means the
	// current directory.
	Dir string

	// DisablePTY forces the pipe fallback.
	DisablePTY bool
}

// NewRunner creates a Runner for the project in dir.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir}
}

// Run executes argv and waits for it to exit.
func (r *Runner) Run(ctx context.Context, argv, env []string, output io.Writer) (ports.ProcessResult, error) {
	if len(argv) == 0 {
		return ports.ProcessResult{}, zerr.New("empty command")
	}

	cmdEnv := append(os.Environ(), env...)

	executable := argv[0]
	if !filepath.IsAbs(executable) && strings.ContainsRune(executable, filepath.Separator) {
		executable = filepath.Join(r.dir(), executable)
	} else if !filepath.IsAbs(executable) {
		lp, err := lookPath(executable, cmdEnv)
		if err != nil {
			return ports.ProcessResult{ExitCode: -1}, zerr.With(zerr.Wrap(err, "executable not found"), "command", argv[0])
		}
		executable = lp
	}

	captured := &syncBuffer{}
	var sink io.Writer = captured
	if output != nil {
		sink = io.MultiWriter(captured, output)
	}

	proc, err := r.start(ctx, executable, argv, cmdEnv, sink)
	if err != nil {
		return ports.ProcessResult{ExitCode: -1}, err
	}

	waitErr := proc.wait()
	result := ports.ProcessResult{Output: normalize(captured.Bytes())}

	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		result.ExitCode = -1
		return result, zerr.Wrap(waitErr, "failed to wait for command")
	}

	result.ExitCode = exitErr.ExitCode()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	return result, nil
}

func (r *Runner) dir() string {
	if r.Dir != "" {
		return r.Dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (r *Runner) command(ctx context.Context, executable string, argv, env []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = argv[0]
	cmd.Dir = r.Dir
	cmd.Env = env
	return cmd
}

func (r *Runner) start(ctx context.Context, executable string, argv, env []string, sink io.Writer) (*process, error) {
	if !r.DisablePTY {
		cmd := r.command(ctx, executable, argv, env)
		ptmx, err := pty.Start(cmd)
		if err == nil {
			ioDone := make(chan struct{})
			go func() {
				defer close(ioDone)
				defer func() { _ = ptmx.Close() }()
				// Reading the master fails with EIO once the child exits.
				_, _ = io.Copy(sink, ptmx)
			}()
			return &process{cmd: cmd, ioDone: ioDone}, nil
		}
		if !errors.Is(err, pty.ErrUnsupported) && !isPTYAllocationError(err) {
			return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "command", argv[0])
		}
	}

	cmd := r.command(ctx, executable, argv, env)
	cmd.Stdout = sink
	cmd.Stderr = sink
	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "command", argv[0])
	}

	done := make(chan struct{})
	close(done)
	return &process{cmd: cmd, ioDone: done}, nil
}

type process struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *process) wait() error {
	err := p.cmd.Wait()
	<-p.ioDone
	return err
}

// isPTYAllocationError reports whether err came from opening /dev/ptmx rather
// than from starting the command.
func isPTYAllocationError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return strings.HasPrefix(pathErr.Path, "/dev/pt")
	}
	return false
}

// normalize turns the terminal's CRLF line endings back into LF.
func normalize(out []byte) []byte {
	return bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// lookPath searches the PATH of env, not of the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
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
