package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("handler", "persist_input")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["resource"] != "handler" {
		t.Errorf("expected resource=handler, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "persist_input" {
		t.Errorf("expected id=persist_input, got %v", err.Details["id"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("handler", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_UnknownStep(t *testing.T) {
	err := UnknownStep("oops")
	if err.Code != ErrCodeUnknownStep {
		t.Errorf("expected UNKNOWN_STEP, got %s", err.Code)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("expected message to name the step, got %q", err.Error())
	}
	if err.Details["step"] != "oops" {
		t.Errorf("expected step=oops, got %v", err.Details["step"])
	}
}

func TestAppError_NotCurryable(t *testing.T) {
	err := NotCurryable("sum", -1)
	if !strings.Contains(err.Error(), "arity is < 0") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Details["arity"] != -1 {
		t.Errorf("expected arity=-1, got %v", err.Details["arity"])
	}
}

func TestAppError_ArityMismatch(t *testing.T) {
	err := ArityMismatch("validate", 2, 1)
	if err.Code != ErrCodeArityMismatch {
		t.Errorf("expected ARITY_MISMATCH, got %s", err.Code)
	}
	if err.Details["want"] != 2 || err.Details["got"] != 1 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAppError_TypeMismatch(t *testing.T) {
	err := TypeMismatch(0, 1, "x")
	if !strings.Contains(err.Message, "expected int, got string") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("store unavailable")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidArgument("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := MissingField("email").WithDetails(map[string]any{"step": "validate"})
	if err.Details["field"] != "email" {
		t.Errorf("expected field=email, got %v", err.Details["field"])
	}
	if err.Details["step"] != "validate" {
		t.Errorf("expected step=validate, got %v", err.Details["step"])
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := InvalidArgument("x")
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected k=v, got %v", err.Details["k"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad")
	if err.Error() != "INVALID_INPUT: bad" {
		t.Errorf("unexpected format %q", err.Error())
	}

	withCause := New(ErrCodeInternal, "boom").WithCause(fmt.Errorf("disk"))
	if withCause.Error() != "INTERNAL_ERROR: boom (cause: disk)" {
		t.Errorf("unexpected format %q", withCause.Error())
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"InvalidArgument", InvalidArgument("x"), ErrCodeInvalidArgument},
		{"DuplicateStep", DuplicateStep("one"), ErrCodeDuplicateStep},
		{"UnknownStep", UnknownStep("one"), ErrCodeUnknownStep},
		{"NotCurryable", NotCurryable("one", -1), ErrCodeNotCurryable},
		{"NotPublishing", NotPublishing("one"), ErrCodeNotPublishing},
		{"ArityMismatch", ArityMismatch("one", 1, 2), ErrCodeArityMismatch},
		{"TypeMismatch", TypeMismatch(0, "", 1), ErrCodeTypeMismatch},
		{"AlreadyExists", AlreadyExists("handler"), ErrCodeAlreadyExists},
		{"InvalidInput", InvalidInput("f", "r"), ErrCodeInvalidInput},
		{"Validation", Validation("m"), ErrCodeInvalidInput},
		{"MissingField", MissingField("f"), ErrCodeMissingField},
		{"InvalidFormat", InvalidFormat("f", "email"), ErrCodeInvalidFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestErrorCode_IsArgumentCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeInvalidArgument, true},
		{ErrCodeDuplicateStep, true},
		{ErrCodeUnknownStep, true},
		{ErrCodeNotCurryable, true},
		{ErrCodeNotPublishing, true},
		{ErrCodeArityMismatch, false},
		{ErrCodeTypeMismatch, false},
		{ErrCodeInvalidInput, false},
		{ErrCodeInternal, false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			if got := IsArgumentCode(tc.code); got != tc.want {
				t.Errorf("IsArgumentCode(%q) = %v, want %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestAppError_IsAppError_Success(t *testing.T) {
	if !IsAppError(NotFound("x", "")) {
		t.Error("expected IsAppError to return true")
	}
	if !IsAppError(fmt.Errorf("wrapped: %w", NotFound("x", ""))) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Internal(nil))
	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	_, ok = AsAppError(fmt.Errorf("not an app error"))
	if ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrap_AppErrorPassthrough(t *testing.T) {
	orig := NotFound("item", "1")
	if got := Wrap(orig); got != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}
}

func TestWrap_PlainError(t *testing.T) {
	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestCodeOf_And_HasCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", UnknownStep("oops"))
	if CodeOf(err) != ErrCodeUnknownStep {
		t.Errorf("expected UNKNOWN_STEP, got %q", CodeOf(err))
	}
	if !HasCode(err, ErrCodeUnknownStep) {
		t.Error("expected HasCode to match")
	}
	if HasCode(nil, ErrCodeUnknownStep) {
		t.Error("expected HasCode(nil) to be false")
	}
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("expected empty code for plain error")
	}
}

func TestIsArgumentError(t *testing.T) {
	if !IsArgumentError(DuplicateStep("a")) {
		t.Error("expected duplicate step to be an argument error")
	}
	if IsArgumentError(ArityMismatch("a", 1, 2)) {
		t.Error("expected arity mismatch not to be an argument error")
	}
	if IsArgumentError(fmt.Errorf("plain")) {
		t.Error("expected plain error not to be an argument error")
	}
}
