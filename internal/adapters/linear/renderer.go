// Package linear provides a synchronous, line-buffered progress renderer.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/bounds/internal/ui/output"
	"go.trai.ch/bounds/internal/ui/style"
)

// Renderer implements ports.Renderer as chronological probe lines on stderr.
// Oracle output is only printed in verbose mode, prefixed with the probe name.
type Renderer struct {
	out     io.Writer
	output  *termenv.Output
	verbose bool

	mu      sync.Mutex
	probes  map[string]*probeState
	buffers map[string]*bytes.Buffer
}

type probeState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to out (stderr when nil).
func NewRenderer(out io.Writer, verbose bool) *Renderer {
	if out == nil {
		out = os.Stderr
	}

	return &Renderer{
		out:     out,
		output:  output.NewWithProfile(out, output.ColorProfileANSI),
		verbose: verbose,
		probes:  make(map[string]*probeState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the versions about to be probed for a dependency.
func (r *Renderer) OnPlanEmit(dependency string, versions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(versions) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s probing %d version(s): %s\n",
		r.output.String(dependency).Bold(), len(versions), strings.Join(versions, ", "))
}

// OnProbeStart prints a probe start message.
func (r *Renderer) OnProbeStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.probes[spanID] = &probeState{name: name, startTime: startTime}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintf(r.out, "%s Checking...\n", r.prefix(name))
}

// OnProbeLog buffers oracle output and prints complete lines in verbose mode.
func (r *Renderer) OnProbeLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}

	probe, ok := r.probes[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				rest := new(bytes.Buffer)
				rest.Write(line)
				r.buffers[spanID] = rest
			}
			break
		}
		r.printLineLocked(probe.name, line)
	}
}

// OnProbeComplete flushes the remaining output and prints the probe result.
func (r *Renderer) OnProbeComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	probe, ok := r.probes[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(probe.startTime).Round(time.Millisecond)
	prefix := r.prefix(probe.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed)
		_, _ = fmt.Fprintf(r.out, "%s %s %v after %v\n", prefix, symbol, err, duration)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen)
		_, _ = fmt.Fprintf(r.out, "%s %s OK in %v\n", prefix, symbol, duration)
	}

	delete(r.probes, spanID)
	delete(r.buffers, spanID)
}

func (r *Renderer) prefix(name string) termenv.Style {
	return r.output.String("[" + name + "]").Faint()
}

// flushBufferLocked prints any partial line left for a probe.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	probe, ok := r.probes[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(probe.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the probe name prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.prefix(name), line)
}
