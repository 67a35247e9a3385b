package board

import (
	"g4boot/clock"
	g4 "g4boot/hw/stm32g4"
)

const flashStart = 0x08000000

var (
	NucleoG431RB = Board{
		Name: "nucleo_g431rb",
		Clock: clock.Config{
			Source:      clock.SourceHSE,
			ReferenceHz: 24_000_000,
			TargetHz:    170_000_000,
			USB:         true,
		},
		Memory: Memory{RAMStart: 0x20000000, RAMSize: 32 << 10, FlashBoot: flashStart, FlashApp: flashStart},
		LED:    "PA5",
		I2C:    &I2C{Base: g4.I2C1, SCL: "PB8", SDA: "PB9", AltFunc: 4, Hz: 400_000},
	}

	NucleoG474RE = Board{
		Name: "nucleo_g474re",
		Clock: clock.Config{
			Source:      clock.SourceHSE,
			ReferenceHz: 24_000_000,
			TargetHz:    170_000_000,
			USB:         true,
		},
		Memory: Memory{RAMStart: 0x20000000, RAMSize: 128 << 10, FlashBoot: flashStart, FlashApp: flashStart},
		LED:    "PA5",
		I2C:    &I2C{Base: g4.I2C1, SCL: "PB8", SDA: "PB9", AltFunc: 4, Hz: 400_000},
	}

	// WeAct G474CE core board, shipped with an 8 KiB Katapult bootloader.
	WeActG474 = Board{
		Name: "weact_g474",
		Clock: clock.Config{
			Source:      clock.SourceHSE,
			ReferenceHz: 8_000_000,
			TargetHz:    168_000_000,
			USB:         true,
			USBClock:    clock.USBFromHSI48,
		},
		Memory: Memory{RAMStart: 0x20000000, RAMSize: 128 << 10, FlashBoot: flashStart, FlashApp: flashStart + 8<<10},
		LED:    "PC6",
	}
)

// Known lists the built-in boards.
var Known = []Board{NucleoG431RB, NucleoG474RE, WeActG474}
