// Package oracle decides whether the consuming project works with a dependency
// pinned to a single version.
package oracle

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/zerr"
)

// Exit codes sh uses when the command could not be found or executed.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Oracle implements ports.Oracle by pinning the manifest and running a command.
type Oracle struct {
	manifest ports.Manifest
	runner   ports.ProcessRunner
	tracer   ports.Tracer

	checkCommand string
	conflicts    []*regexp.Regexp

	// mu serializes probes: the manifest and lock file are one shared resource.
	mu sync.Mutex
}

// New creates an Oracle. Conflict patterns are compiled as regular expressions.
func New(
	manifest ports.Manifest,
	runner ports.ProcessRunner,
	tracer ports.Tracer,
	cfg domain.OracleConfig,
) (*Oracle, error) {
	checkCommand := cfg.Command
	if strings.TrimSpace(checkCommand) == "" {
		checkCommand = domain.DefaultCheckCommand
	}

	conflicts := make([]*regexp.Regexp, 0, len(cfg.ConflictPatterns))
	for _, p := range cfg.ConflictPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidConflictPattern.Error()), "pattern", p)
		}
		conflicts = append(conflicts, re)
	}

	return &Oracle{
		manifest:     manifest,
		runner:       runner,
		tracer:       tracer,
		checkCommand: checkCommand,
		conflicts:    conflicts,
	}, nil
}

// Probe pins spec to version, runs command and restores the pin.
//
// An empty command runs the type-check command directly; any other command
// is run through "sh -c".
func (o *Oracle) Probe(
	ctx context.Context,
	spec domain.DependencySpec,
	version domain.Version,
	command string,
) (domain.ProbeOutcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, span := o.tracer.Start(ctx, spec.Name+" "+version.String())
	defer span.End()
	span.SetAttribute("dependency", spec.Name)
	span.SetAttribute("version", version.String())

	started := time.Now()
	outcome := domain.ProbeOutcome{Dependency: spec.Name, Version: version}

	if err := o.manifest.Pin(spec.Name, version); err != nil {
		if errors.Is(err, domain.ErrGraphConflict) {
			outcome.Status = domain.StatusError
			outcome.Reason = strings.ReplaceAll(err.Error(), "\n", ": ")
			outcome.Duration = time.Since(started)
			span.RecordError(outcome.Err())
			return outcome, nil
		}
		span.RecordError(err)
		return outcome, zerr.With(err, "dependency", spec.Name)
	}

	result, runErr := o.run(ctx, command, span)

	if err := o.manifest.Unpin(spec.Name); err != nil {
		span.RecordError(err)
		return outcome, zerr.With(err, "dependency", spec.Name)
	}

	if runErr != nil {
		span.RecordError(runErr)
		return outcome, runErr
	}

	outcome.Status, outcome.Reason = o.classify(result)
	outcome.Duration = time.Since(started)
	span.SetAttribute("status", outcome.Status.String())
	if err := outcome.Err(); err != nil {
		span.RecordError(err)
	}

	return outcome, nil
}

func (o *Oracle) run(ctx context.Context, command string, span ports.Span) (ports.ProcessResult, error) {
	argv, viaShell := o.argv(command)

	result, err := o.runner.Run(ctx, argv, nil, span)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, errors.Join(
			domain.ErrOracleSpawnFailed,
			zerr.With(err, "command", strings.Join(argv, " ")),
		)
	}

	if viaShell && (result.ExitCode == exitNotExecutable || result.ExitCode == exitNotFound) {
		return result, errors.Join(
			domain.ErrOracleSpawnFailed,
			zerr.With(zerr.With(zerr.New(lastLine(result.Output)), "command", command), "exit_code", result.ExitCode),
		)
	}

	return result, nil
}

func (o *Oracle) argv(command string) ([]string, bool) {
	if command == "" {
		return strings.Fields(o.checkCommand), false
	}
	return []string{"sh", "-c", command}, true
}

func (o *Oracle) classify(result ports.ProcessResult) (domain.Status, string) {
	if result.ExitCode == 0 {
		return domain.StatusOK, ""
	}

	output := ansiEscape.ReplaceAllString(string(result.Output), "")
	for _, line := range strings.Split(output, "\n") {
		for _, re := range o.conflicts {
			if re.MatchString(line) {
				return domain.StatusError, strings.TrimSpace(line)
			}
		}
	}

	return domain.StatusFailed, ""
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimRight(string(out), "\r\n"), "\n")
	line := strings.TrimSpace(strings.TrimSuffix(lines[len(lines)-1], "\r"))
	if line == "" {
		return "command could not be executed"
	}
	return line
}
