package main

import (
	"g4boot/board"
	"g4boot/boot"
	"g4boot/hw/sim"
	g4 "g4boot/hw/stm32g4"
)

// backupSize covers TAMP_BKP0R..BKP31R.
const backupSize = 32 * 4

var retainedPath string

// chip is a simulated G4 whose RAM and backup registers live in files, so
// they survive from one g4sim invocation to the next as they would survive
// a warm reset.
type chip struct {
	regs *sim.Registers
	cpu  *sim.CPU
	ram  *sim.Retained
	bkp  *sim.Retained
}

func openChip(b board.Board) (*chip, error) {
	ram, err := sim.OpenRetained(retainedPath, b.Memory.RAMStart, int(b.Memory.RAMSize))
	if err != nil {
		return nil, err
	}
	bkp, err := sim.OpenRetained(retainedPath+".bkp", g4.TAMP_BKP0R, backupSize)
	if err != nil {
		ram.Close()
		return nil, err
	}
	regs := sim.NewG4()
	regs.Attach(ram)
	regs.Attach(bkp)
	return &chip{regs: regs, cpu: sim.NewCPU(regs), ram: ram, bkp: bkp}, nil
}

func (c *chip) Close() error {
	err := c.ram.Close()
	if e := c.bkp.Close(); err == nil {
		err = e
	}
	return err
}

// installKatapult writes a Katapult vector table and signature at the start
// of flash, with the request word just below the top of RAM.
func (c *chip) installKatapult(m board.Memory) {
	sp := m.RAMStart + m.RAMSize - 8
	entry := m.FlashBoot + 0x411
	c.regs.Poke(m.FlashBoot, sp)
	c.regs.Poke(m.FlashBoot+4, entry)
	c.regs.Poke(entry-9, uint32(boot.KatapultSignature&0xFFFFFFFF))
	c.regs.Poke(entry-5, uint32(boot.KatapultSignature>>32))
}
