package clock

// Waiter blocks until ready reports true. Implementations must not return
// while ready is false; a clock that never comes up is not a state the boot
// path can continue from.
type Waiter interface {
	Until(ready func() bool)
}

// Spin polls forever. This is the boot-path waiter: it runs once per power
// cycle with interrupts masked.
type Spin struct{}

func (Spin) Until(ready func() bool) {
	for !ready() {
	}
}

// Budget polls at most Limit times. On exhaustion it calls Stalled, which
// must not return (tests pass t.Fatal-style hooks); with no hook it panics.
// Polls counts every evaluation of ready across calls.
type Budget struct {
	Limit   int
	Stalled func()
	Polls   int
}

// ErrStalled is the panic value used when Budget has no Stalled hook.
type ErrStalled struct{}

func (ErrStalled) Error() string { return "clock: ready flag never asserted" }

func (b *Budget) Until(ready func() bool) {
	for n := 0; ; n++ {
		b.Polls++
		if ready() {
			return
		}
		if n+1 >= b.Limit {
			break
		}
	}
	if b.Stalled != nil {
		b.Stalled()
	}
	panic(ErrStalled{})
}

// Poll evaluates ready up to limit times and reports whether it became true.
// Drivers that run after boot use it where a stuck flag is an error they can
// report.
func Poll(ready func() bool, limit int) bool {
	for i := 0; i < limit; i++ {
		if ready() {
			return true
		}
	}
	return false
}
