// Package version reports the build version used as the default service
// version in config and telemetry resources.
package version
