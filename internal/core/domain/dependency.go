package domain

import "slices"

// DependencySpec is one entry of the consuming project's [dependencies] table.
// It is built once from the manifest and never mutated afterwards.
type DependencySpec struct {
	// Name is the key in [dependencies], unique within a run.
	Name string

	// Requirement is the declared version range (e.g. "^0.22.10").
	Requirement Requirement

	// Features lists the features enabled on the dependency, if any.
	Features []string

	// Package is the crate name when the entry renames it via `package = "..."`.
	Package string
}

// CrateName returns the name the crate is published under.
func (d DependencySpec) CrateName() string {
	if d.Package != "" {
		return d.Package
	}
	return d.Name
}

// Equal reports whether two specs declare the same dependency in the same way.
func (d DependencySpec) Equal(o DependencySpec) bool {
	return d.Name == o.Name &&
		d.Package == o.Package &&
		d.Requirement.String() == o.Requirement.String() &&
		slices.Equal(d.Features, o.Features)
}
