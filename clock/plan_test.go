package clock

import (
	"testing"

	"g4boot/errcode"
	g4 "g4boot/hw/stm32g4"
)

func TestDeriveHitsTargetExactly(t *testing.T) {
	for _, c := range []Config{
		{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 170_000_000},
		{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 150_000_000},
		{Source: SourceHSE, ReferenceHz: 24_000_000, TargetHz: 150_000_000},
		{Source: SourceHSE, ReferenceHz: 12_000_000, TargetHz: 64_000_000},
		{Source: SourceHSI, TargetHz: 150_000_000},
		{Source: SourceHSI, TargetHz: 48_000_000},
	} {
		if err := c.Validate(); err != nil {
			t.Fatalf("%+v: %v", c, err)
		}
		p := Derive(c)
		if c.RefHz()/p.M != StepHz || c.RefHz()%p.M != 0 {
			t.Fatalf("%+v: ref/M = %d", c, c.RefHz()/p.M)
		}
		if StepHz*p.N/p.R != c.TargetHz {
			t.Fatalf("%+v: step*N/R = %d", c, StepHz*p.N/p.R)
		}
		if p.SysHz() != c.TargetHz || p.R != 2 {
			t.Fatalf("%+v: plan %+v", c, p)
		}
	}
}

func TestDeriveUSBTap(t *testing.T) {
	for _, f := range []uint32{48_000_000, 96_000_000, 144_000_000, 168_000_000} {
		c := Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: f, USB: true, USBClock: USBFromPLLQ}
		if f == 168_000_000 {
			// 336 MHz VCO / 7 is not a legal Q divider.
			if errcode.Of(c.Validate()) != errcode.InexactDivider {
				t.Fatalf("%d: expected inexact divider", f)
			}
			continue
		}
		if err := c.Validate(); err != nil {
			t.Fatalf("%d: %v", f, err)
		}
		p := Derive(c)
		if StepHz*p.N/p.Q != USBHz || p.USBTapHz() != USBHz {
			t.Fatalf("%d: USB tap = %d", f, p.USBTapHz())
		}
	}
}

func TestPLLCFGREncoding(t *testing.T) {
	c := Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 170_000_000}
	got := Derive(c).PLLCFGR(c.Source)
	// PLLSRC=HSE, M=2 (field 1), N=85, R=2 (field 0), Q=7 rounds to field 2.
	const want = g4.RCC_PLLCFGR_PLLSRC_HSE | 1<<4 | 85<<8 | 2<<21
	if got != want {
		t.Fatalf("PLLCFGR = %#x, want %#x", got, want)
	}

	c = Config{Source: SourceHSI, TargetHz: 144_000_000}
	got = Derive(c).PLLCFGR(c.Source)
	if got&g4.RCC_PLLCFGR_PLLSRC_Msk != g4.RCC_PLLCFGR_PLLSRC_HSI {
		t.Fatalf("PLLSRC = %#x", got&g4.RCC_PLLCFGR_PLLSRC_Msk)
	}
	if m := (got&g4.RCC_PLLCFGR_PLLM_Msk)>>g4.RCC_PLLCFGR_PLLM_Pos + 1; m != 4 {
		t.Fatalf("M = %d", m)
	}
	if q := (got&g4.RCC_PLLCFGR_PLLQ_Msk)>>g4.RCC_PLLCFGR_PLLQ_Pos; q != 2 {
		t.Fatalf("Q field = %d, want 2 (divide by 6)", q)
	}
}

func TestFlashWaitStates(t *testing.T) {
	for _, c := range []struct{ hz, ws uint32 }{
		{16_000_000, 0},
		{30_000_000, 0},
		{30_000_001, 1},
		{60_000_000, 1},
		{90_000_000, 2},
		{120_000_000, 3},
		{150_000_000, 4},
		{150_000_001, 5},
		{170_000_000, 5},
	} {
		if got := FlashWaitStates(c.hz); got != c.ws {
			t.Fatalf("FlashWaitStates(%d) = %d, want %d", c.hz, got, c.ws)
		}
	}
	prev := uint32(0)
	for hz := uint32(1_000_000); hz <= 200_000_000; hz += 500_000 {
		ws := FlashWaitStates(hz)
		if ws < prev {
			t.Fatalf("wait states decreased at %d", hz)
		}
		prev = ws
	}
}

func TestValidateRejects(t *testing.T) {
	for _, c := range []struct {
		cfg  Config
		want errcode.Code
	}{
		{Config{Source: SourceHSI}, errcode.InvalidParams},
		{Config{Source: SourceHSE, TargetHz: 150_000_000}, errcode.InvalidParams},
		{Config{Source: SourceHSE, ReferenceHz: 7_000_000, TargetHz: 150_000_000}, errcode.InexactDivider},
		{Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 171_000_000}, errcode.OutOfRange},
		{Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 151_000_000}, errcode.InexactDivider},
		{Config{Source: SourceHSE, ReferenceHz: 8_000_000, TargetHz: 32_000_000}, errcode.OutOfRange},
		{Config{Source: SourceHSE, ReferenceHz: 80_000_000, TargetHz: 150_000_000}, errcode.OutOfRange},
		{Config{Source: SourceHSI, TargetHz: 120_000_000, USB: true, USBClock: USBFromPLLQ}, errcode.InexactDivider},
	} {
		if got := errcode.Of(c.cfg.Validate()); got != c.want {
			t.Fatalf("%+v: got %q, want %q", c.cfg, got, c.want)
		}
	}
	// The recovery oscillator path has no PLL constraint.
	ok := Config{Source: SourceHSI, TargetHz: 150_000_000, USB: true}
	if err := ok.Validate(); err != nil {
		t.Fatalf("hsi48 path rejected: %v", err)
	}
}
