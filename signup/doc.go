// Package signup wires a user registration flow out of transflow steps:
// preprocess raw input into a Record, validate it and persist it into a
// Store. It is the reference wiring of handlers through a di container and
// a declarative pipeline definition.
package signup
