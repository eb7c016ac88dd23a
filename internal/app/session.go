package app

import (
	"context"

	"go.trai.ch/bounds/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/bounds/internal/engine/oracle"
)

// session holds the components built for one run from the loaded configuration.
type session struct {
	renderer ports.Renderer
	tracer   ports.Tracer
	oracle   *oracle.Oracle
}

// startSession builds the renderer, the tracer and the oracle.
// With JSON logs no progress is rendered.
func (a *App) startSession(ctx context.Context, cfg *domain.Config, opts Options) (*session, error) {
	s := &session{renderer: a.renderer, tracer: a.tracer}

	if s.tracer == nil {
		if opts.JSONLogs {
			s.tracer = telemetry.NewNoOpTracer()
		} else {
			if s.renderer == nil {
				s.renderer = linear.NewRenderer(a.stderr, opts.Verbose)
			}
			s.tracer = telemetry.Setup(s.renderer)
		}
	}

	if s.renderer != nil {
		if err := s.renderer.Start(ctx); err != nil {
			return nil, err
		}
	}

	o, err := oracle.New(a.manifest, a.runner, s.tracer, cfg.Oracle)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.oracle = o
	return s, nil
}

// flush writes pending progress output before a report is printed.
func (s *session) flush() {
	if s.renderer != nil {
		_ = s.renderer.Stop()
	}
}

func (s *session) close(ctx context.Context) {
	if s.renderer != nil {
		_ = s.renderer.Stop()
		_ = s.renderer.Wait()
	}
	_ = s.tracer.Shutdown(ctx)
}
