package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bounds/internal/adapters/telemetry"
	"go.trai.ch/bounds/internal/app"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	loader   *mocks.MockConfigLoader
	manifest *mocks.MockManifest
	guard    *mocks.MockManifestGuard
	logger   *mocks.MockLogger
	registry *mocks.MockRegistry
}

func newProvider(t *testing.T) (*appMocks, ComponentProvider, func(*app.App)) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	m := &appMocks{
		loader:   mocks.NewMockConfigLoader(ctrl),
		manifest: mocks.NewMockManifest(ctrl),
		guard:    mocks.NewMockManifestGuard(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		registry: mocks.NewMockRegistry(ctrl),
	}

	application := app.New(m.loader, m.manifest, m.guard, mocks.NewMockProcessRunner(ctrl), m.logger, nil)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: m.logger}, func() {}, nil
	}
	configure := func(a *app.App) {
		a.WithOutput(io.Discard, io.Discard).
			WithDir(t.TempDir()).
			WithRegistry(m.registry).
			WithTracer(telemetry.NewNoOpTracer())
	}
	return m, provider, configure
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	_, provider, _ := newProvider(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_CargoSubcommand verifies that the argument cargo inserts is dropped.
func TestRun_CargoSubcommand(t *testing.T) {
	_, provider, _ := newProvider(t)

	exitCode := run(context.Background(), []string{"bounds", "version"}, new(bytes.Buffer), provider)

	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	m, provider, configure := newProvider(t)

	m.loader.EXPECT().Load(gomock.Any(), "").Return(domain.DefaultConfig(), nil)
	m.guard.EXPECT().Acquire().Return(domain.ErrManifestLocked)
	m.logger.EXPECT().Error(domain.ErrManifestLocked)

	exitCode := run(context.Background(), []string{"test"}, new(bytes.Buffer), provider, configure)

	assert.Equal(t, 1, exitCode)
}

// TestRun_FailingBounds verifies that failing bounds exit with 1 without logging an error.
func TestRun_FailingBounds(t *testing.T) {
	m, provider, configure := newProvider(t)

	m.loader.EXPECT().Load(gomock.Any(), "").Return(domain.DefaultConfig(), nil)
	m.guard.EXPECT().Acquire().Return(nil)
	m.guard.EXPECT().Release().Return(nil)
	m.manifest.EXPECT().ReadDependencies().Return([]domain.DependencySpec{
		{Name: "rand", Requirement: domain.MustParseRequirement("=0.8.5")},
	}, nil)
	m.registry.EXPECT().ListVersions(gomock.Any(), "rand").Return([]domain.Version{domain.MustParseVersion("0.8.5")}, nil)
	m.manifest.EXPECT().Pin("rand", domain.MustParseVersion("0.8.5")).Return(domain.ErrGraphConflict)
	m.logger.EXPECT().Warn("rand 0.8.5: dependency graph refused the pinned version")

	exitCode := run(context.Background(), []string{"test"}, new(bytes.Buffer), provider, configure)

	assert.Equal(t, 1, exitCode)
}
