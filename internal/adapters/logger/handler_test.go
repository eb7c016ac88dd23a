package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bounds/internal/adapters/logger"
)

func TestPrettyHandler(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *slog.Logger)
		want string
	}{
		{
			name: "info",
			log:  func(l *slog.Logger) { l.Info("resolving versions") },
			want: "resolving versions\n",
		},
		{
			name: "warn",
			log:  func(l *slog.Logger) { l.Warn("cache stale") },
			want: "! cache stale\n",
		},
		{
			name: "error",
			log:  func(l *slog.Logger) { l.Error("probe failed") },
			want: "✗ probe failed\n",
		},
		{
			name: "debug filtered",
			log:  func(l *slog.Logger) { l.Debug("noise") },
			want: "",
		},
		{
			name: "record attrs",
			log:  func(l *slog.Logger) { l.Info("probe", "dependency", "rand", "attempt", 2) },
			want: "probe dependency=rand attempt=2\n",
		},
		{
			name: "handler attrs and group",
			log: func(l *slog.Logger) {
				l.With("crate", "itoa").WithGroup("registry").Info("fetched", "versions", 12)
			},
			want: "fetched crate=itoa registry.versions=12\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			tt.log(slog.New(logger.NewPrettyHandler(buf, nil)))

			assert.Equal(t, tt.want, buf.String())
		})
	}
}
