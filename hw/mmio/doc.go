// Package mmio is the on-chip implementation of hw.Registers and hw.CPU.
// It only builds under TinyGo for STM32G4 targets.
package mmio
