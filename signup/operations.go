package signup

import (
	"slices"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/result"
	"github.com/kbukum/transflow/step"
	"github.com/kbukum/transflow/validation"
)

// Handler keys used by Register.
const (
	HandlerPreprocess      = "preprocess_input"
	HandlerValidate        = "validate_input"
	HandlerValidateAllowed = "validate_allowed"
	HandlerPersist         = "persist_input"
	HandlerValidateResult  = "validate_result"
	HandlerPersistResult   = "persist_result"
)

// Preprocess turns raw input with "name" and "email" keys into a Record.
// Missing or non-string values become empty fields.
func Preprocess() step.Operation {
	return step.Unary(HandlerPreprocess, func(in map[string]any) (Record, error) {
		name, _ := in["name"].(string)
		email, _ := in["email"].(string)
		return Record{Name: name, Email: email}, nil
	})
}

// Validate fails with a domain error when r is incomplete.
func Validate() step.Operation {
	return step.Unary(HandlerValidate, func(r Record) (Record, error) {
		if err := check(r); err != nil {
			return Record{}, err
		}
		return r, nil
	})
}

// ValidateAllowed takes the allowed emails as its first argument, so a
// pipeline call supplies them as an override for the step.
func ValidateAllowed() step.Operation {
	return step.Binary(HandlerValidateAllowed, func(allowed []string, r Record) (Record, error) {
		if !slices.Contains(allowed, r.Email) {
			return Record{}, step.Fail("email unknown")
		}
		return r, nil
	})
}

// Persist appends r to store.
func Persist(store *Store) step.Operation {
	return step.Unary(HandlerPersist, func(r Record) (Record, error) {
		return store.Append(r), nil
	})
}

// ValidateResult is the two-track form of Validate: an incomplete record
// yields an Err result instead of a failure.
func ValidateResult() step.Operation {
	return step.Unary(HandlerValidateResult, func(r Record) (result.Result[Record], error) {
		if err := check(r); err != nil {
			return result.Err[Record](err), nil
		}
		return result.Ok(r), nil
	})
}

// PersistResult stores the record of an Ok result and passes Err through.
func PersistResult(store *Store) step.Operation {
	persist := result.Fmap(store.Append)
	return step.Unary(HandlerPersistResult, func(r result.Result[Record]) (result.Result[Record], error) {
		return persist(r), nil
	})
}

func check(r Record) *step.Error {
	err := validation.Validate(r)
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return step.Wrap(appErr, "%s", appErr.Message)
	}
	return step.FailWith(err)
}
