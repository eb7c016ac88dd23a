package ports

import (
	"context"
	"io"
)

// ProcessResult is what a finished process reports back.
type ProcessResult struct {
	ExitCode int

	// Output is the combined stdout and stderr of the process.
	Output []byte
}

// ProcessRunner runs external commands in the consuming project.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run executes argv with env appended to the caller's environment.
	// Output is streamed to output (if non-nil) while it is also captured.
	//
	// A non-zero exit is reported through ProcessResult, not as an error.
	// The error is non-nil only when the process could not be started.
	Run(ctx context.Context, argv []string, env []string, output io.Writer) (ProcessResult, error)
}
