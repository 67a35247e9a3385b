package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil must map to ok")
	}
	if Of(Timeout) != Timeout {
		t.Fatal("bare code not preserved")
	}
	e := New(InexactDivider, "pll", "vco/48MHz is not integral")
	if Of(e) != InexactDivider {
		t.Fatalf("Of(E) = %q", Of(e))
	}
	if Of(errors.New("boom")) != Error {
		t.Fatal("foreign error must map to generic code")
	}
}

func TestEFormatting(t *testing.T) {
	cause := errors.New("cause")
	e := &E{C: OutOfRange, Op: "pll", Msg: "N=200", Err: cause}
	if e.Error() != "pll: out_of_range: N=200" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap lost the cause")
	}
}
