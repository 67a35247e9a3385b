package main

import (
	"path/filepath"
	"testing"

	"g4boot/board"
	"g4boot/boot"
	"g4boot/hw"
)

func TestInstallKatapult(t *testing.T) {
	retainedPath = filepath.Join(t.TempDir(), "ram")
	b := board.WeActG474
	c, err := openChip(b)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.installKatapult(b.Memory)

	entry := c.regs.Peek(b.Memory.FlashBoot + 4)
	if got := hw.Load64(c.regs, entry-9); got != boot.KatapultSignature {
		t.Fatalf("signature = %#x, want %#x", got, boot.KatapultSignature)
	}
	if !boot.NewFlashBootloader(c.regs, c.cpu, b.Memory).Present() {
		t.Fatal("installed bootloader not detected")
	}
}
