// Package step defines the unit a pipeline composes.
//
// An Operation declares how many arguments it takes and is called with
// exactly that many. Func adapts plain Go functions, Curry binds leading
// arguments ahead of time, and Notifier wraps an Operation so that every
// call broadcasts "<name>_success" or "<name>_failure" to its listeners.
//
// Failures raised by step logic are *Error values with OriginDomain. Any
// other error, including a recovered panic, is normalised by AsError to an
// *Error with OriginUnexpected.
package step
