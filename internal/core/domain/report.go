package domain

import "fmt"

// DependencyOutcomes groups the probes made for one dependency during a test run.
type DependencyOutcomes struct {
	Spec     DependencySpec
	Outcomes []ProbeOutcome

	// Skipped lists in-range versions that were not probed.
	Skipped []Version

	// Err is set when the dependency could not be tested at all (e.g. ErrEmptyUniverse).
	Err error
}

// Failures counts outcomes that are FAILED or ERROR.
func (d DependencyOutcomes) Failures() int {
	n := 0
	for _, o := range d.Outcomes {
		if o.Status.Failing() {
			n++
		}
	}
	return n
}

// RunReport aggregates a whole test run.
type RunReport struct {
	Dependencies []DependencyOutcomes

	FailedVersions     int
	FailedDependencies int
	OverallPass        bool
}

// Finalize sorts each dependency's outcomes by version and computes the verdict.
// Dependency order is preserved.
func Finalize(groups []DependencyOutcomes) RunReport {
	report := RunReport{Dependencies: make([]DependencyOutcomes, 0, len(groups))}

	for _, g := range groups {
		g.Outcomes = SortOutcomes(g.Outcomes)
		g.Skipped = SortVersions(g.Skipped)

		if n := g.Failures(); n > 0 {
			report.FailedVersions += n
			report.FailedDependencies++
		}
		report.Dependencies = append(report.Dependencies, g)
	}

	report.OverallPass = report.FailedVersions == 0
	return report
}

// Summary is the line printed when the run does not pass.
func (r RunReport) Summary() string {
	return fmt.Sprintf(
		"%d deps have failing versions in their bounds. (%d versions failed in total)",
		r.FailedDependencies, r.FailedVersions,
	)
}
