// Package cli implements the command-line interface for the exporter.
//
// The cli package provides the Cobra-based CLI that ties the other packages
// together: it resolves configuration from flags, environment and an optional
// YAML file, scrapes the concert calendar, applies the optional kraj filter and
// writes the resulting iCalendar file.
package cli
