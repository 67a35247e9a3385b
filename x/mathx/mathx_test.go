package mathx

import "testing"

func TestBetween(t *testing.T) {
	if !Between(uint32(0x400), 0x400, 0x7FF) || !Between(uint32(0x7FF), 0x400, 0x7FF) {
		t.Fatal("bounds are inclusive")
	}
	if Between(uint32(0x800), 0x400, 0x7FF) || Between(uint32(0x3FF), 0x400, 0x7FF) {
		t.Fatal("outside the range")
	}
	if Between(3, 5, 1) {
		t.Fatal("empty range contains nothing")
	}
}

func TestClamp(t *testing.T) {
	for _, c := range []struct{ v, lo, hi, want uint32 }{
		{22, 1, 16, 16},
		{0, 1, 16, 1},
		{2, 1, 16, 2},
		{5, 10, 0, 10},
	} {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	for _, c := range []struct{ a, b, want uint32 }{
		{170_000_000, 8_000_000, 22},
		{16_000_000, 8_000_000, 2},
		{1, 1, 1},
		{7, 0, 0},
	} {
		if got := CeilDiv(c.a, c.b); got != c.want {
			t.Fatalf("CeilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestExactDiv(t *testing.T) {
	if q, ok := ExactDiv(uint32(300_000_000), 4_000_000); !ok || q != 75 {
		t.Fatalf("ExactDiv = %d,%v", q, ok)
	}
	if _, ok := ExactDiv(uint32(300_000_000), 48_000_000); ok {
		t.Fatal("6.25 reported exact")
	}
	if _, ok := ExactDiv(uint32(1), 0); ok {
		t.Fatal("division by zero reported exact")
	}
}
