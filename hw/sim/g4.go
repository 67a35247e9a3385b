package sim

import (
	g4 "g4boot/hw/stm32g4"
)

// ROM table published by the simulated system memory.
const (
	ROMStackPointer = 0x20003A70
	ROMEntry        = 0x1FFF4A8D
)

// NewG4 returns a register file at STM32G4 reset state whose RCC, FLASH and
// CRS registers respond the way the silicon does: oscillator and PLL ready
// flags follow their enable bits, and SWS follows SW. GPIO BSRR writes land
// in ODR, and inputs read back the output latch.
func NewG4() *Registers {
	r := New()

	r.mem[g4.RCC_CR] = g4.RCC_CR_HSION | g4.RCC_CR_HSIRDY
	r.mem[g4.RCC_CFGR] = g4.RCC_CFGR_SW_HSI | g4.RCC_CFGR_SWS_HSI
	r.mem[g4.RCC_PLLCFGR] = g4.RCC_PLLCFGR_Reset
	r.mem[g4.RCC_AHB1ENR] = g4.RCC_AHB1ENR_Reset
	r.mem[g4.RCC_APB1ENR1] = g4.RCC_APB1ENR1_Reset
	r.mem[g4.FLASH_ACR] = g4.FLASH_ACR_Reset
	r.mem[g4.PWR_CR5] = g4.PWR_CR5_Reset
	r.mem[g4.SystemBase] = ROMStackPointer
	r.mem[g4.SystemBase+4] = ROMEntry

	r.hooks[g4.RCC_CR] = func(_, v uint32) uint32 {
		v &^= g4.RCC_CR_HSIRDY | g4.RCC_CR_HSERDY | g4.RCC_CR_PLLRDY
		v |= follow(v, g4.RCC_CR_HSION, g4.RCC_CR_HSIRDY)
		v |= follow(v, g4.RCC_CR_HSEON, g4.RCC_CR_HSERDY)
		v |= follow(v, g4.RCC_CR_PLLON, g4.RCC_CR_PLLRDY)
		return v
	}
	r.hooks[g4.RCC_CFGR] = func(_, v uint32) uint32 {
		sw := v & g4.RCC_CFGR_SW_Msk
		return v&^g4.RCC_CFGR_SWS_Msk | sw<<g4.RCC_CFGR_SWS_Pos
	}
	r.hooks[g4.RCC_CRRCR] = func(_, v uint32) uint32 {
		v &^= g4.RCC_CRRCR_HSI48RDY
		return v | follow(v, g4.RCC_CRRCR_HSI48ON, g4.RCC_CRRCR_HSI48RDY)
	}
	for port := uint32(0); port < g4.GPIOPorts; port++ {
		base := g4.GPIOA + port*g4.BlockStride
		// BSRR is write-only: set bits in the low half, reset bits in the high
		// half, applied to ODR. IDR mirrors ODR.
		r.hooks[base+g4.GPIO_BSRR] = func(_, v uint32) uint32 {
			odr := r.mem[base+g4.GPIO_ODR]&^(v>>16) | v&0xFFFF
			r.mem[base+g4.GPIO_ODR] = odr
			r.mem[base+g4.GPIO_IDR] = odr
			return 0
		}
	}
	return r
}

func follow(v, on, rdy uint32) uint32 {
	if v&on != 0 {
		return rdy
	}
	return 0
}
