// Package validation checks step inputs and pipeline definitions.
//
// Struct tag validation uses go-playground/validator and reports failures
// as *errors.AppError with per-field details:
//
//	type Record struct {
//	    Name  string `validate:"required"`
//	    Email string `validate:"required,email"`
//	}
//	err := validation.Validate(rec)
//
// Validator collects per-element checks that tags cannot express:
//
//	v := validation.New()
//	v.Matches("steps[0].name", name, identifier)
//	err := v.Validate()
package validation
