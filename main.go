//go:build tinygo && stm32g4

package main

import (
	"time"

	"g4boot/board"
	"g4boot/boot"
	"g4boot/clock"
	"g4boot/drivers/gpio"
	"g4boot/drivers/i2c"
	"g4boot/hw/mmio"
	"g4boot/x/conv"
)

// The stm32g4 target's runtime must leave RCC, FLASH and PWR at their reset
// values and keep the top 4 KiB of RAM out of .data/.bss, or a pending ROM
// bootloader request is seen too late or wiped before Run checks it.
func main() {
	b := board.Selected
	var s *boot.Startup
	s = boot.NewStartup(mmio.Registers{}, mmio.CPU{}, b, func() { run(s, b) })
	s.Run()
}

// run is the scheduler: bring up the board's pins and bus, then blink.
func run(s *boot.Startup, b board.Board) {
	println("boot", b.Name)
	regs := mmio.Registers{}
	pins := gpio.New(regs, s.Gate())

	var led *gpio.Output
	if b.LED != "" {
		if p, err := gpio.ParsePin(b.LED); err == nil {
			o := pins.NewOutput(p, false)
			led = &o
		}
	}

	if c := b.I2C; c != nil {
		scl, _ := gpio.ParsePin(c.SCL)
		sda, _ := gpio.ParsePin(c.SDA)
		bus := i2c.New(regs, s.Gate(), c.Base)
		err := bus.Configure(pins, i2c.Config{Frequency: c.Hz, SCL: scl, SDA: sda, AltFunc: c.AltFunc}, clock.PeripheralHz(b.Clock, c.Base))
		if err != nil {
			println("Error: i2c:", err.Error())
		} else {
			scan(bus)
		}
	}

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for t := range tick.C {
		if led != nil {
			led.Toggle()
		}
		println(t.Format("15:04:05"), "Heartbeat")
	}
}

func scan(bus *i2c.Bus) {
	for addr := uint16(0x08); addr < 0x78; addr++ {
		if bus.Tx(addr, nil, nil) == nil {
			println("Info: i2c device at", conv.Hex32(uint32(addr)))
		}
	}
}
