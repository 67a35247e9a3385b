// Package board describes the boards the firmware is built for: clock
// configuration, memory layout and a few well-known pins.
//
// The firmware picks its board at build time through tags (see Selected);
// host tools can also load descriptors from YAML.
package board

import (
	"g4boot/clock"
	"g4boot/drivers/gpio"
	"g4boot/errcode"
)

// Memory is the linker-level layout the handoff paths depend on.
type Memory struct {
	RAMStart uint32 `yaml:"ram_start"`
	RAMSize  uint32 `yaml:"ram_size"`
	// FlashBoot is the start of flash, where a flash-resident bootloader
	// lives if there is one. FlashApp is where this image is linked.
	FlashBoot uint32 `yaml:"flash_boot"`
	FlashApp  uint32 `yaml:"flash_app"`
}

// BootFlagAddr is where the ROM-bootloader request survives a warm reset:
// 4 KiB below the top of RAM, above anything the startup code zeroes.
func (m Memory) BootFlagAddr() uint32 { return m.RAMStart + m.RAMSize - 4096 }

// HasFlashBootloader reports whether the image is linked above a
// flash-resident bootloader.
func (m Memory) HasFlashBootloader() bool { return m.FlashApp != m.FlashBoot }

// I2C places an I2C controller on pins.
type I2C struct {
	Base    uint32 `yaml:"base"`
	SCL     string `yaml:"scl"`
	SDA     string `yaml:"sda"`
	AltFunc uint8  `yaml:"alt_func"`
	Hz      uint32 `yaml:"hz"`
}

type Board struct {
	Name   string       `yaml:"name"`
	Clock  clock.Config `yaml:"clock"`
	Memory Memory       `yaml:"memory"`
	// LED is a pin name such as "PA5"; empty means none.
	LED string `yaml:"led"`
	I2C *I2C   `yaml:"i2c,omitempty"`
}

// Validate checks the clock plan, memory layout and pin names.
func (b Board) Validate() error {
	if b.Name == "" {
		return errcode.New(errcode.InvalidParams, "board.Validate", "missing name")
	}
	if err := b.Clock.Validate(); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "board.Validate", Msg: b.Name, Err: err}
	}
	m := b.Memory
	if m.RAMSize < 8192 || m.RAMStart+m.RAMSize < m.RAMStart {
		return errcode.New(errcode.OutOfRange, "board.Validate", b.Name+": ram")
	}
	if m.FlashApp < m.FlashBoot {
		return errcode.New(errcode.OutOfRange, "board.Validate", b.Name+": application below flash start")
	}
	pins := []string{b.LED}
	if b.I2C != nil {
		pins = append(pins, b.I2C.SCL, b.I2C.SDA)
	}
	for i, p := range pins {
		if i == 0 && p == "" {
			continue
		}
		if _, err := gpio.ParsePin(p); err != nil {
			return &errcode.E{C: errcode.UnknownPin, Op: "board.Validate", Msg: b.Name, Err: err}
		}
	}
	return nil
}

// Lookup returns a built-in board by name.
func Lookup(name string) (Board, error) {
	for _, b := range Known {
		if b.Name == name {
			return b, nil
		}
	}
	return Board{}, errcode.New(errcode.UnknownBoard, "board.Lookup", name)
}
