// Package report prints compatibility reports in the line format users and
// scripts depend on.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/ui/output"
	"go.trai.ch/bounds/internal/ui/style"
)

// Printer writes reports to an output stream.
type Printer struct {
	out *termenv.Output
}

// NewPrinter creates a Printer for w. Colors are used only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: output.NewFor(w)}
}

// PrintDependency writes one dependency's test results:
//
//	<dependency> - <declared range>
//	  <version> <OK|FAILED|ERROR>
//
// One line per version, ascending. The reason behind an ERROR goes to the log.
// Skipped versions are interleaved when printSkipped is set.
func (p *Printer) PrintDependency(group domain.DependencyOutcomes, printSkipped bool) {
	p.header(group.Spec)

	if group.Err != nil {
		p.note(p.color(unavailable(group), style.Red))
		return
	}

	type line struct {
		version domain.Version
		outcome *domain.ProbeOutcome
	}
	lines := make([]line, 0, len(group.Outcomes)+len(group.Skipped))
	for i := range group.Outcomes {
		lines = append(lines, line{version: group.Outcomes[i].Version, outcome: &group.Outcomes[i]})
	}
	if printSkipped {
		for _, v := range group.Skipped {
			lines = append(lines, line{version: v})
		}
	}
	slices.SortStableFunc(lines, func(a, b line) int { return a.version.Compare(b.version) })

	for _, l := range lines {
		if l.outcome == nil {
			p.println("  " + p.out.String(l.version.String()).Faint().String())
			continue
		}
		p.outcome("  ", *l.outcome)
	}
}

// PrintSummary writes the verdict line of a failing run. A passing run prints nothing.
func (p *Printer) PrintSummary(r domain.RunReport) {
	if r.OverallPass {
		return
	}
	p.println(fmt.Sprintf(
		"%s deps have failing versions in their bounds. (%s versions failed in total)",
		p.color(fmt.Sprint(r.FailedDependencies), style.Red),
		p.color(fmt.Sprint(r.FailedVersions), style.Yellow),
	))
}

// PrintBound writes the outcome of minimizing one dependency.
func (p *Printer) PrintBound(r domain.BoundResult) {
	p.header(r.Spec)

	var searched []domain.ProbeOutcome
	for _, b := range r.Buckets {
		searched = append(searched, b.Probes...)
	}
	for _, o := range domain.SortOutcomes(searched) {
		p.outcome("  ", o)
	}

	for _, b := range r.Unresolvable() {
		p.note(p.color(fmt.Sprintf("epoch %s is unresolvable: %s does not pass", b.Epoch, b.Ceiling), style.Yellow))
	}

	rng := r.Range()
	if rng.IsZero() {
		p.note(p.color("no epoch could be minimized", style.Red))
		return
	}
	p.note(p.color(rng.String(), style.Green))

	if !r.SanityChecked {
		return
	}

	p.note("sanity check:")
	for _, o := range domain.SortOutcomes(r.Sanity) {
		p.outcome("    ", o)
	}

	if n := r.SanityFailures(); n > 0 {
		p.note(p.color(fmt.Sprintf("%s bound %s is unsafe: %d minor versions failed", style.Cross, rng, n), style.Red))
		return
	}
	p.note(p.color(fmt.Sprintf("%s bound %s verified", style.Check, rng), style.Green))
}

func (p *Printer) header(spec domain.DependencySpec) {
	p.println(fmt.Sprintf("%s - %s",
		p.color(spec.Name, style.Blue),
		p.color(spec.Requirement.String(), style.Yellow),
	))
}

func (p *Printer) outcome(indent string, o domain.ProbeOutcome) {
	var tag string
	switch o.Status {
	case domain.StatusOK:
		tag = p.color(o.Status.String(), style.Green)
	case domain.StatusFailed:
		tag = p.color(o.Status.String(), style.Red)
	default:
		tag = p.color(o.Status.String(), style.Yellow)
	}

	p.println(indent + p.color(o.Version.String(), style.Blue) + " " + tag)
}

// unavailable explains why a dependency has no versions to probe.
func unavailable(group domain.DependencyOutcomes) string {
	switch {
	case errors.Is(group.Err, domain.ErrCrateNotFound):
		return fmt.Sprintf("crate %s not found in registry", group.Spec.CrateName())
	case errors.Is(group.Err, domain.ErrEmptyUniverse):
		return "no published version matches the declared range"
	default:
		return group.Err.Error()
	}
}

func (p *Printer) note(s string) {
	p.println("  " + s)
}

func (p *Printer) color(s string, c lipgloss.Color) string {
	return p.out.String(s).Foreground(p.out.Color(string(c))).String()
}

func (p *Printer) println(s string) {
	_, _ = p.out.WriteString(s + "\n")
}
