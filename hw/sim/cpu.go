package sim

// Reset is the panic value raised by CPU.SystemReset.
type Reset struct{}

// Jump is the panic value raised by CPU.Jump.
type Jump struct {
	SP, PC uint32
}

// CPU implements hw.CPU. Its events are appended to the trace of the
// register file it was created with.
type CPU struct {
	regs       *Registers
	IRQMasked  bool
	Resets     int
	LastJump   Jump
	JumpCalled bool
}

func NewCPU(regs *Registers) *CPU { return &CPU{regs: regs} }

func (c *CPU) DisableInterrupts() {
	c.IRQMasked = true
	c.regs.event(Access{Op: OpIRQOff})
}

func (c *CPU) SystemReset() {
	c.Resets++
	c.regs.event(Access{Op: OpReset})
	panic(Reset{})
}

func (c *CPU) Jump(sp, pc uint32) {
	c.LastJump = Jump{SP: sp, PC: pc}
	c.JumpCalled = true
	c.regs.event(Access{Op: OpJump, Addr: sp, Val: pc})
	panic(c.LastJump)
}

// Run calls fn and returns the terminal action that ended it: Reset, Jump,
// or nil when fn returned normally. Other panics propagate.
func Run(fn func()) (terminal any) {
	defer func() {
		if p := recover(); p != nil {
			switch p.(type) {
			case Reset, Jump:
				terminal = p
			default:
				panic(p)
			}
		}
	}()
	fn()
	return nil
}
