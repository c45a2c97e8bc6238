package scserr

import "testing"

func TestExitCodes(t *testing.T) {
	cases := map[Kind]int{
		ModeError:          1,
		IoError:            2,
		BadFormat:          2,
		SentinelInInput:    2,
		AlphabetOverflow:   2,
		IndexMismatch:      2,
		InvariantViolation: 3,
	}
	for k, want := range cases {
		if got := k.ExitCode(); got != want {
			t.Fatalf("%s: expected exit code %d, got %d", k, want, got)
		}
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := New(IoError, "underlying")
	err := Wrap(BadFormat, "reading input", cause)
	if err.Unwrap() != cause {
		t.Fatalf("expected Unwrap to return the wrapped cause")
	}
}

func TestRecoverInvariant(t *testing.T) {
	var reported *Error
	func() {
		defer RecoverInvariant(func(e *Error) { reported = e })
		Invariant("bad state: %d", 42)
	}()
	if reported == nil {
		t.Fatalf("expected RecoverInvariant to report the panic")
	}
	if reported.Kind != InvariantViolation {
		t.Fatalf("expected InvariantViolation kind, got %s", reported.Kind)
	}
}

func TestRecoverInvariantIgnoresOtherPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a non-invariant panic to still propagate")
		}
	}()
	defer RecoverInvariant(func(e *Error) {
		t.Fatalf("should not report a non-scserr panic")
	})
	panic("unrelated failure")
}
