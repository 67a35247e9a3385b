package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"g4boot/board"
	"g4boot/clock"
	"g4boot/errcode"
	"g4boot/x/conv"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the PLL plan and flash timing for each board",
	RunE: func(cmd *cobra.Command, args []string) error {
		boards, err := loadBoards()
		if err != nil {
			return err
		}
		if boardName != "" {
			b, err := pickBoard()
			if err != nil {
				return err
			}
			boards = []board.Board{b}
		}
		bad := 0
		for _, b := range boards {
			if !printPlan(cmd.OutOrStdout(), b) {
				bad++
			}
		}
		if bad > 0 {
			return errcode.New(errcode.InvalidParams, "plan", fmt.Sprint(bad, " board(s) failed validation"))
		}
		return nil
	},
}

func printPlan(w io.Writer, b board.Board) bool {
	c := b.Clock
	fmt.Fprintf(w, "%s: %s %d Hz -> %d Hz\n", b.Name, c.Source, c.RefHz(), c.TargetHz)
	if err := b.Validate(); err != nil {
		fmt.Fprintf(w, "  invalid: %v\n", err)
		return false
	}
	p := clock.Derive(c)
	fmt.Fprintf(w, "  M=%d N=%d R=%d Q=%d  vco=%d sys=%d\n", p.M, p.N, p.R, p.Q, p.VCOHz(), p.SysHz())
	if c.USB {
		if c.USBClock == clock.USBFromPLLQ {
			fmt.Fprintf(w, "  usb: pllq %d Hz\n", p.USBTapHz())
		} else {
			fmt.Fprintf(w, "  usb: hsi48 + crs\n")
		}
	}
	regulator := "normal"
	if c.TargetHz > clock.BoostHz {
		regulator = "boost"
	}
	fmt.Fprintf(w, "  PLLCFGR=%s flash_ws=%d regulator=%s boot_flag=%s\n",
		conv.Hex32(p.PLLCFGR(c.Source)), clock.FlashWaitStates(c.TargetHz), regulator, conv.Hex32(b.Memory.BootFlagAddr()))
	return true
}
