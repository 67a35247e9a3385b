package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"g4boot/boot"
	"g4boot/clock"
	"g4boot/errcode"
	"g4boot/hw"
	"g4boot/hw/sim"
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/conv"
)

// pollLimit stands in for the unbounded hardware waits.
const pollLimit = 1000

var (
	bootCmd = &cobra.Command{
		Use:   "boot",
		Short: "Power on the simulated chip and run startup to the scheduler",
		RunE:  runBoot,
	}

	requestHardware bool
	withKatapult    bool

	requestCmd = &cobra.Command{
		Use:   "request",
		Short: "Ask the running firmware to reboot into a bootloader",
		RunE:  runRequest,
	}

	wipeCmd = &cobra.Command{
		Use:   "wipe",
		Short: "Clear retained RAM and backup registers (power loss)",
		RunE:  runWipe,
	}
)

func init() {
	for _, c := range []*cobra.Command{bootCmd, requestCmd, wipeCmd} {
		c.Flags().StringVarP(&retainedPath, "retained", "r", "g4sim.ram", "file backing retained RAM")
	}
	requestCmd.Flags().BoolVar(&requestHardware, "hardware", false, "use the backup-register key instead of the RAM flag")
	requestCmd.Flags().BoolVar(&withKatapult, "katapult", false, "install a Katapult image below the application first")
}

func runBoot(cmd *cobra.Command, _ []string) error {
	b, err := pickBoard()
	if err != nil {
		return err
	}
	c, err := openChip(b)
	if err != nil {
		return err
	}
	defer c.Close()

	w := cmd.OutOrStdout()
	if key := c.regs.Peek(g4.TAMP_BKP4R); key == boot.BootKey {
		fmt.Fprintln(w, "Info: backup register holds the HID bootloader key")
	}

	s := boot.NewStartup(c.regs, c.cpu, b, func() {
		fmt.Fprintln(w, "Info: scheduler entered")
	})
	s.Wait = &clock.Budget{Limit: pollLimit}
	s.OnState = func(st clock.State) {
		fmt.Fprintln(w, "Info: clock", st)
	}

	fmt.Fprintln(w, "Info: power on", b.Name)
	term, err := runStartup(s)
	if err != nil {
		return err
	}
	switch t := term.(type) {
	case sim.Jump:
		fmt.Fprintf(w, "Info: jumped to ROM bootloader sp=%s pc=%s\n", conv.Hex32(t.SP), conv.Hex32(t.PC))
	case sim.Reset:
		fmt.Fprintln(w, "Info: reset")
	case nil:
		fmt.Fprintf(w, "Info: running at %d Hz, PLLCFGR=%s\n",
			b.Clock.TargetHz, conv.Hex32(c.regs.Peek(g4.RCC_PLLCFGR)))
	}
	return nil
}

// runStartup runs s to its terminal action. A clock that never comes up is
// reported as an error instead of hanging the tool.
func runStartup(s *boot.Startup) (term any, err error) {
	defer func() {
		if p := recover(); p != nil {
			stall, ok := p.(clock.ErrStalled)
			if !ok {
				panic(p)
			}
			at := "stale clock reset"
			if t := s.Tree(); t != nil {
				at = t.State().String()
			}
			err = &errcode.E{C: errcode.Timeout, Op: "boot", Msg: at, Err: stall}
		}
	}()
	return sim.Run(s.Run), nil
}

func runRequest(cmd *cobra.Command, _ []string) error {
	b, err := pickBoard()
	if err != nil {
		return err
	}
	c, err := openChip(b)
	if err != nil {
		return err
	}
	defer c.Close()

	w := cmd.OutOrStdout()
	if withKatapult {
		c.installKatapult(b.Memory)
	}
	gate := clock.NewGate(c.regs)
	h := boot.NewHandoff(c.regs, c.cpu, gate, b.Memory, boot.NewFlashBootloader(c.regs, c.cpu, b.Memory))

	req := h.Request
	if requestHardware {
		req = h.RequestHardware
	}
	if _, ok := sim.Run(req).(sim.Reset); !ok {
		return errcode.New(errcode.Error, "request", "returned without a reset")
	}

	switch {
	case requestHardware:
		fmt.Fprintf(w, "Info: BKP4R=%s, reset\n", conv.Hex32(c.regs.Peek(g4.TAMP_BKP4R)))
	case h.Pending():
		fmt.Fprintf(w, "Info: boot flag set at %s, reset\n", conv.Hex32(b.Memory.BootFlagAddr()))
	default:
		sp := c.regs.Peek(b.Memory.FlashBoot)
		fmt.Fprintf(w, "Info: katapult request %#x at %s, reset\n", hw.Load64(c.regs, sp), conv.Hex32(sp))
	}
	return nil
}

func runWipe(cmd *cobra.Command, _ []string) error {
	b, err := pickBoard()
	if err != nil {
		return err
	}
	c, err := openChip(b)
	if err != nil {
		return err
	}
	defer c.Close()
	c.ram.Wipe()
	c.bkp.Wipe()
	fmt.Fprintln(cmd.OutOrStdout(), "Info: retained state cleared")
	return nil
}
