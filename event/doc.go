// Package event delivers step outcome notifications to listeners.
//
// A Publisher broadcasts an Event named "<step>_success" or "<step>_failure"
// to every subscribed Listener, synchronously and in subscription order.
// Success events carry the step result as their only argument. Failure
// events carry the original call arguments followed by the failure cause.
package event
