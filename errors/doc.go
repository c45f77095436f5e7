// Package errors provides the unified error taxonomy for transflow.
// It implements structured error types with machine-readable codes and
// separates argument validation problems, raised before any step runs,
// from runtime failures raised by the steps themselves.
package errors
