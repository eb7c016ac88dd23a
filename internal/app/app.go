// Package app implements the application layer for bounds.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/bounds/internal/engine/minimizer"
	"go.trai.ch/bounds/internal/engine/sweep"
	"go.trai.ch/bounds/internal/ui/report"
	"go.trai.ch/zerr"
)

// prefetchLimit caps concurrent registry requests while loading version lists.
const prefetchLimit = 4

// RegistryFactory builds a registry client once the configuration is known.
type RegistryFactory interface {
	New(cfg domain.RegistryConfig) ports.Registry
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	manifest     ports.Manifest
	guard        ports.ManifestGuard
	runner       ports.ProcessRunner
	logger       ports.Logger
	registries   RegistryFactory

	stdout io.Writer
	stderr io.Writer
	dir    string

	registry ports.Registry
	renderer ports.Renderer
	tracer   ports.Tracer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	manifest ports.Manifest,
	guard ports.ManifestGuard,
	runner ports.ProcessRunner,
	log ports.Logger,
	registries RegistryFactory,
) *App {
	return &App{
		configLoader: loader,
		manifest:     manifest,
		guard:        guard,
		runner:       runner,
		logger:       log,
		registries:   registries,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput sets the streams for the report and for probe progress.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDir sets the directory bounds.yaml is searched from. Defaults to the working directory.
func (a *App) WithDir(dir string) *App {
	a.dir = dir
	return a
}

// WithRegistry replaces the registry built from the configuration.
// This is primarily used for testing.
func (a *App) WithRegistry(r ports.Registry) *App {
	a.registry = r
	return a
}

// WithRenderer replaces the linear progress renderer.
func (a *App) WithRenderer(r ports.Renderer) *App {
	a.renderer = r
	return a
}

// WithTracer replaces the tracer that forwards probes to the renderer.
func (a *App) WithTracer(t ports.Tracer) *App {
	a.tracer = t
	return a
}

// Options are shared by every command.
type Options struct {
	// ConfigPath points at bounds.yaml. Empty means search upwards from the working directory.
	ConfigPath string
	// JSONLogs switches logging to JSON and disables progress rendering.
	JSONLogs bool
	// Verbose streams oracle output and enables debug logs.
	Verbose bool
}

// TestOptions configuration for the Test method.
type TestOptions struct {
	Options

	// Dep restricts the run to one dependency.
	Dep string
	// Command replaces the configured oracle command; it runs through "sh -c".
	Command string
	// Minor also probes the first release of every minor series.
	Minor bool
	// Patch probes every version. It implies Minor.
	Patch bool
	// PrintSkipped lists the versions that were not probed.
	PrintSkipped bool
}

// MinimizeOptions configuration for the Minimize method.
type MinimizeOptions struct {
	Options

	// Dep restricts the run to one dependency.
	Dep string
	// SkipSanity suppresses the minor-release sweep over the minimized bound.
	SkipSanity bool
	// Write persists the minimized lower bound after the manifest is restored.
	Write bool
}

// Test probes the declared range of every dependency and prints the report.
// A run with failing versions returns an error matching domain.ErrBoundsFailed.
func (a *App) Test(ctx context.Context, opts TestOptions) (rep *domain.RunReport, err error) {
	cfg, err := a.setup(opts.Options)
	if err != nil {
		return nil, err
	}

	if err := a.guard.Acquire(); err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, a.guard.Release())
	}()

	universes, err := a.loadUniverses(ctx, cfg, opts.Dep)
	if err != nil {
		return nil, err
	}

	s, err := a.startSession(ctx, cfg, opts.Options)
	if err != nil {
		return nil, err
	}
	defer s.close(ctx)

	command := opts.Command
	if command == "" {
		command = cfg.Oracle.TestCommand
	}

	sweeper := sweep.New(s.oracle, s.tracer)
	sweepOpts := sweep.Options{
		Command: command,
		Minor:   opts.Minor || opts.Patch,
		Patch:   opts.Patch,
	}

	groups := make([]domain.DependencyOutcomes, 0, len(universes))
	for _, u := range universes {
		if u.err != nil {
			groups = append(groups, domain.DependencyOutcomes{Spec: u.spec, Err: u.err})
			continue
		}

		group, err := sweeper.TestAll(ctx, u.universe, sweepOpts)
		if err != nil {
			return nil, zerr.With(err, "dependency", u.spec.Name)
		}
		groups = append(groups, group)
	}

	s.flush()
	for _, g := range groups {
		a.warnErrors(g.Outcomes)
	}

	result := domain.Finalize(groups)
	printer := report.NewPrinter(a.stdout)
	for _, g := range result.Dependencies {
		printer.PrintDependency(g, opts.PrintSkipped)
	}
	printer.PrintSummary(result)

	if !result.OverallPass {
		return &result, errors.Join(domain.ErrBoundsFailed, zerr.New(result.Summary()))
	}
	return &result, nil
}

// Minimize searches for the lowest working version of every dependency,
// checks the result with a sanity sweep and optionally writes it back.
func (a *App) Minimize(ctx context.Context, opts MinimizeOptions) (bounds map[string]domain.BoundResult, err error) {
	cfg, err := a.setup(opts.Options)
	if err != nil {
		return nil, err
	}

	if err := a.guard.Acquire(); err != nil {
		return nil, err
	}
	released := false
	defer func() {
		if !released {
			err = errors.Join(err, a.guard.Release())
		}
	}()

	universes, err := a.loadUniverses(ctx, cfg, opts.Dep)
	if err != nil {
		return nil, err
	}

	s, err := a.startSession(ctx, cfg, opts.Options)
	if err != nil {
		return nil, err
	}
	defer s.close(ctx)

	search := minimizer.New(s.oracle, s.tracer)
	sweeper := sweep.New(s.oracle, s.tracer)
	printer := report.NewPrinter(a.stdout)

	bounds = make(map[string]domain.BoundResult, len(universes))
	order := make([]domain.DependencySpec, 0, len(universes))
	for _, u := range universes {
		if u.err != nil {
			s.flush()
			printer.PrintDependency(domain.DependencyOutcomes{Spec: u.spec, Err: u.err}, false)
			continue
		}

		result, err := search.Minimize(ctx, u.spec, u.universe.FloorCandidates())
		if err != nil {
			return nil, zerr.With(err, "dependency", u.spec.Name)
		}

		if floor, ok := result.Floor(); ok && !opts.SkipSanity {
			sanity, err := sweeper.Sanity(ctx, u.spec, u.universe.Published(), floor, result.Ceiling())
			if err != nil {
				return nil, zerr.With(err, "dependency", u.spec.Name)
			}
			result.Sanity = sanity
			result.SanityChecked = true
		}

		s.flush()
		a.warnErrors(result.Probes())
		printer.PrintBound(result)

		bounds[u.spec.Name] = result
		order = append(order, u.spec)
	}

	if !opts.Write {
		return bounds, nil
	}

	// The bound is written to the restored manifest, not the pinned one.
	released = true
	if err := a.guard.Release(); err != nil {
		return bounds, err
	}

	for _, spec := range order {
		if err := a.writeBound(spec, bounds[spec.Name]); err != nil {
			return bounds, err
		}
	}
	return bounds, nil
}

// warnErrors logs why each ERROR outcome could not be exercised.
// The report itself only carries the status.
func (a *App) warnErrors(outcomes []domain.ProbeOutcome) {
	for _, o := range outcomes {
		if o.Status == domain.StatusError && o.Reason != "" {
			a.logger.Warn(fmt.Sprintf("%s %s: %s", o.Dependency, o.Version, o.Reason))
		}
	}
}

func (a *App) writeBound(spec domain.DependencySpec, result domain.BoundResult) error {
	floor, ok := result.Floor()
	if !ok {
		a.logger.Warn(fmt.Sprintf("not writing %s: no epoch could be minimized", spec.Name))
		return nil
	}
	if result.Unsafe() {
		a.logger.Warn(fmt.Sprintf("not writing %s: bound %s failed the sanity check", spec.Name, result.Range()))
		return nil
	}

	req := spec.Requirement.WithFloor(floor)
	if req.String() == spec.Requirement.String() {
		return nil
	}

	if err := a.manifest.WriteBound(spec.Name, req); err != nil {
		return zerr.With(err, "dependency", spec.Name)
	}
	a.logger.Info(fmt.Sprintf("wrote %s = %q", spec.Name, req.String()))
	return nil
}

// setup applies the logging options and loads the configuration.
func (a *App) setup(opts Options) (*domain.Config, error) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(opts.JSONLogs)
	}
	if l, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		l.SetVerbose(opts.Verbose)
	}

	dir := a.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}

	cfg, err := a.configLoader.Load(dir, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}
