package result

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tagged is the untyped view of a Result.
type Tagged interface {
	IsOk() bool
	Any() any
	Err() error
}

// Result is either Ok with a value or Err with an error.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	value     T
	err       error
	ok        bool
}

// Ok wraps v in a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{id: uuid.New(), createdAt: time.Now().UTC(), value: v, ok: true}
}

// Err wraps err in a failed Result. A nil err still yields an Err result.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = fmt.Errorf("result: nil error")
	}
	return Result[T]{id: uuid.New(), createdAt: time.Now().UTC(), err: err}
}

// Errorf is Err with a formatted error.
func Errorf[T any](format string, args ...any) Result[T] {
	return Err[T](fmt.Errorf(format, args...))
}

func (r Result[T]) IsOk() bool  { return r.ok }
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the Ok value, or the zero value for an Err result.
func (r Result[T]) Value() T { return r.value }

// ValueOr returns the Ok value, or fallback for an Err result.
func (r Result[T]) ValueOr(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}

func (r Result[T]) Err() error { return r.err }

// Any returns the Ok value as any, or nil for an Err result.
func (r Result[T]) Any() any {
	if !r.ok {
		return nil
	}
	return r.value
}

func (r Result[T]) ID() uuid.UUID        { return r.id }
func (r Result[T]) CreatedAt() time.Time { return r.createdAt }

func (r Result[T]) String() string {
	if r.ok {
		return fmt.Sprintf("Ok(%v)", r.value)
	}
	return fmt.Sprintf("Err(%v)", r.err)
}

// Map applies f to an Ok value. Err results pass through unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return passErr[T, U](r)
	}
	return Ok(f(r.value))
}

// Bind applies a Result-returning f to an Ok value. Err results pass
// through unchanged.
func Bind[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if !r.ok {
		return passErr[T, U](r)
	}
	return f(r.value)
}

// Match folds r into a single value.
func Match[T, U any](r Result[T], onOk func(T) U, onErr func(error) U) U {
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.err)
}

// Fmap lifts f so that it maps over Results, leaving Err results untouched.
func Fmap[T, U any](f func(T) U) func(Result[T]) Result[U] {
	return func(r Result[T]) Result[U] { return Map(r, f) }
}

// Try converts a conventional (value, error) return into a Result.
func Try[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// passErr re-types an Err result, keeping its identity.
func passErr[T, U any](r Result[T]) Result[U] {
	return Result[U]{id: r.id, createdAt: r.createdAt, err: r.err}
}
