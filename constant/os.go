// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Canonical runtime.GOOS identifiers for platform-dependent behavior.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)
