package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/transflow/errors"
)

// Resolve resolves a component with type safety, returns error on failure.
//
// Example:
//
//	op, err := di.Resolve[step.Operation](c, "validate_input")
//	if err != nil {
//	    return fmt.Errorf("failed to get validator: %w", err)
//	}
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.New(errors.ErrCodeTypeMismatch,
			fmt.Sprintf("component %s is %T, expected %s", key, instance, reflect.TypeOf((*T)(nil)).Elem())).
			WithDetail("key", key)
	}
	return result, nil
}

// MustResolve resolves a component with type safety, panics on error.
func MustResolve[T any](c Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", key, err))
	}
	return v
}

// TryResolve resolves a component, returns zero value and false if it is
// missing or of another type.
func TryResolve[T any](c Container, key string) (T, bool) {
	v, err := Resolve[T](c, key)
	return v, err == nil
}
