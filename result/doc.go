// Package result provides a two-track value: every Result is either Ok,
// carrying a value, or Err, carrying an error.
//
// Steps registered in two-track mode return a Result instead of raising, and
// downstream steps map over it:
//
//	r := result.Ok(record)
//	r = result.Bind(r, validate)
//	result.Match(r, onOk, onErr)
//
// Tagged is the untyped view the pipeline inspects, since step operations
// exchange values as any.
package result
