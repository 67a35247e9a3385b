// Package stm32g4 is the STM32G4 register map used by the boot core
// (RM0440). Only the registers and fields the core touches are listed.
package stm32g4

// Bus base addresses.
const (
	PeriphBase = 0x40000000
	APB1Base   = PeriphBase
	APB2Base   = PeriphBase + 0x00010000
	AHB1Base   = PeriphBase + 0x00020000
	AHB2Base   = PeriphBase + 0x08000000
	AHB3Base   = 0xA0000000

	// Peripheral block stride on every bus.
	BlockStride = 0x400
)

// Memory.
const (
	FlashBase  = 0x08000000
	SRAMBase   = 0x20000000
	SystemBase = 0x1FFF0000 // system memory (ROM bootloader vector table)
)

// APB1 peripherals.
const (
	TIM2    = APB1Base + 0x0000
	TIM3    = APB1Base + 0x0400
	TIM4    = APB1Base + 0x0800
	TIM5    = APB1Base + 0x0C00
	TIM6    = APB1Base + 0x1000
	TIM7    = APB1Base + 0x1400
	CRS     = APB1Base + 0x2000
	TAMP    = APB1Base + 0x2400
	RTC     = APB1Base + 0x2800
	WWDG    = APB1Base + 0x2C00
	IWDG    = APB1Base + 0x3000
	SPI2    = APB1Base + 0x3800
	SPI3    = APB1Base + 0x3C00
	USART2  = APB1Base + 0x4400
	USART3  = APB1Base + 0x4800
	UART4   = APB1Base + 0x4C00
	UART5   = APB1Base + 0x5000
	I2C1    = APB1Base + 0x5400
	I2C2    = APB1Base + 0x5800
	USB     = APB1Base + 0x5C00
	FDCAN1  = APB1Base + 0x6400
	FDCAN2  = APB1Base + 0x6800
	FDCAN3  = APB1Base + 0x6C00
	PWR     = APB1Base + 0x7000
	I2C3    = APB1Base + 0x7800
	LPTIM1  = APB1Base + 0x7C00
	LPUART1 = APB1Base + 0x8000
	I2C4    = APB1Base + 0x8400
	UCPD1   = APB1Base + 0xA000
)

// APB2 peripherals.
const (
	SYSCFG = APB2Base + 0x0000
	TIM1   = APB2Base + 0x2C00
	SPI1   = APB2Base + 0x3000
	TIM8   = APB2Base + 0x3400
	USART1 = APB2Base + 0x3800
	SPI4   = APB2Base + 0x3C00
	TIM15  = APB2Base + 0x4000
	TIM16  = APB2Base + 0x4400
	TIM17  = APB2Base + 0x4800
	TIM20  = APB2Base + 0x5000
	SAI1   = APB2Base + 0x5400
	HRTIM1 = APB2Base + 0x6800
)

// AHB1 peripherals.
const (
	DMA1    = AHB1Base + 0x0000
	DMA2    = AHB1Base + 0x0400
	DMAMUX1 = AHB1Base + 0x0800
	CORDIC  = AHB1Base + 0x0C00
	RCC     = AHB1Base + 0x1000
	FMAC    = AHB1Base + 0x1400
	FLASH   = AHB1Base + 0x2000
	CRC     = AHB1Base + 0x3000
)

// AHB2 peripherals.
const (
	GPIOA = AHB2Base + 0x0000
	GPIOB = AHB2Base + 0x0400
	GPIOC = AHB2Base + 0x0800
	GPIOD = AHB2Base + 0x0C00
	GPIOE = AHB2Base + 0x1000
	GPIOF = AHB2Base + 0x1400
	GPIOG = AHB2Base + 0x1800

	ADC1         = 0x50000000
	ADC2         = 0x50000100
	ADC12Common  = 0x50000300
	ADC3         = 0x50000400
	ADC4         = 0x50000500
	ADC5         = 0x50000600
	ADC345Common = 0x50000700
	DAC1         = 0x50000800
	DAC2         = 0x50000C00
	DAC3         = 0x50001000
	DAC4         = 0x50001400
	AES          = 0x50060000
	RNG          = 0x50060800
)

// AHB3 peripherals.
const (
	FMC     = AHB3Base + 0x0000
	QUADSPI = AHB3Base + 0x1000
)

// RCC registers.
const (
	RCC_CR        = RCC + 0x00
	RCC_ICSCR     = RCC + 0x04
	RCC_CFGR      = RCC + 0x08
	RCC_PLLCFGR   = RCC + 0x0C
	RCC_AHB1RSTR  = RCC + 0x28
	RCC_AHB2RSTR  = RCC + 0x2C
	RCC_AHB3RSTR  = RCC + 0x30
	RCC_APB1RSTR1 = RCC + 0x38
	RCC_APB1RSTR2 = RCC + 0x3C
	RCC_APB2RSTR  = RCC + 0x40
	RCC_AHB1ENR   = RCC + 0x48
	RCC_AHB2ENR   = RCC + 0x4C
	RCC_AHB3ENR   = RCC + 0x50
	RCC_APB1ENR1  = RCC + 0x58
	RCC_APB1ENR2  = RCC + 0x5C
	RCC_APB2ENR   = RCC + 0x60
	RCC_CCIPR     = RCC + 0x88
	RCC_BDCR      = RCC + 0x90
	RCC_CSR       = RCC + 0x94
	RCC_CRRCR     = RCC + 0x98
)

// RCC_CR bits.
const (
	RCC_CR_HSION  = 1 << 8
	RCC_CR_HSIRDY = 1 << 10
	RCC_CR_HSEON  = 1 << 16
	RCC_CR_HSERDY = 1 << 17
	RCC_CR_HSEBYP = 1 << 18
	RCC_CR_CSSON  = 1 << 19
	RCC_CR_PLLON  = 1 << 24
	RCC_CR_PLLRDY = 1 << 25
)

// RCC_CFGR fields. Prescaler fields left at zero divide by one.
const (
	RCC_CFGR_SW_Pos  = 0
	RCC_CFGR_SW_Msk  = 0x3 << RCC_CFGR_SW_Pos
	RCC_CFGR_SW_HSI  = 0x1 << RCC_CFGR_SW_Pos
	RCC_CFGR_SW_HSE  = 0x2 << RCC_CFGR_SW_Pos
	RCC_CFGR_SW_PLL  = 0x3 << RCC_CFGR_SW_Pos
	RCC_CFGR_SWS_Pos = 2
	RCC_CFGR_SWS_Msk = 0x3 << RCC_CFGR_SWS_Pos
	RCC_CFGR_SWS_HSI = 0x1 << RCC_CFGR_SWS_Pos
	RCC_CFGR_SWS_HSE = 0x2 << RCC_CFGR_SWS_Pos
	RCC_CFGR_SWS_PLL = 0x3 << RCC_CFGR_SWS_Pos

	RCC_CFGR_HPRE_Msk   = 0xF << 4
	RCC_CFGR_HPRE_DIV1  = 0x0 << 4
	RCC_CFGR_HPRE_DIV2  = 0x8 << 4
	RCC_CFGR_PPRE1_DIV1 = 0x0 << 8
	RCC_CFGR_PPRE2_DIV1 = 0x0 << 11
)

// RCC_PLLCFGR fields.
const (
	RCC_PLLCFGR_PLLSRC_Msk = 0x3
	RCC_PLLCFGR_PLLSRC_HSI = 0x2
	RCC_PLLCFGR_PLLSRC_HSE = 0x3
	RCC_PLLCFGR_PLLM_Pos   = 4
	RCC_PLLCFGR_PLLM_Msk   = 0xF << RCC_PLLCFGR_PLLM_Pos
	RCC_PLLCFGR_PLLN_Pos   = 8
	RCC_PLLCFGR_PLLN_Msk   = 0x7F << RCC_PLLCFGR_PLLN_Pos
	RCC_PLLCFGR_PLLPEN     = 1 << 16
	RCC_PLLCFGR_PLLQEN     = 1 << 20
	RCC_PLLCFGR_PLLQ_Pos   = 21
	RCC_PLLCFGR_PLLQ_Msk   = 0x3 << RCC_PLLCFGR_PLLQ_Pos
	RCC_PLLCFGR_PLLREN     = 1 << 24
	RCC_PLLCFGR_PLLR_Pos   = 25
	RCC_PLLCFGR_PLLR_Msk   = 0x3 << RCC_PLLCFGR_PLLR_Pos

	// PLLCFGR reset value (PLLN = 16).
	RCC_PLLCFGR_Reset = 0x00001000
)

// RCC_CCIPR fields.
const (
	RCC_CCIPR_CLK48SEL_Pos   = 26
	RCC_CCIPR_CLK48SEL_Msk   = 0x3 << RCC_CCIPR_CLK48SEL_Pos
	RCC_CCIPR_CLK48SEL_HSI48 = 0x0 << RCC_CCIPR_CLK48SEL_Pos
	RCC_CCIPR_CLK48SEL_PLLQ  = 0x2 << RCC_CCIPR_CLK48SEL_Pos
)

// RCC_CRRCR bits.
const (
	RCC_CRRCR_HSI48ON  = 1 << 0
	RCC_CRRCR_HSI48RDY = 1 << 1
)

// Enable register reset values.
const (
	RCC_AHB1ENR_Reset  = 0x00000100 // FLASHEN
	RCC_AHB2ENR_Reset  = 0x00000000
	RCC_APB1ENR1_Reset = 0x00000400 // RTCAPBEN
	RCC_APB1ENR2_Reset = 0x00000000
	RCC_APB2ENR_Reset  = 0x00000000
)

// Enable bit indexes that do not follow the bus windows.
const (
	RCC_APB1ENR1_RTCAPBEN = 10
	RCC_APB1ENR1_FDCANEN  = 25
	RCC_APB1ENR1_PWREN    = 28
	RCC_AHB1ENR_CORDICEN  = 3
	RCC_AHB1ENR_FMACEN    = 4
	RCC_AHB2ENR_ADC12EN   = 13
	RCC_AHB2ENR_ADC345EN  = 14
	RCC_AHB2ENR_DAC1EN    = 16
	RCC_AHB2ENR_DAC2EN    = 17
	RCC_AHB2ENR_DAC3EN    = 18
	RCC_AHB2ENR_DAC4EN    = 19
	RCC_AHB2ENR_AESEN     = 24
	RCC_AHB2ENR_RNGEN     = 26
	RCC_AHB3ENR_FMCEN     = 0
	RCC_AHB3ENR_QSPIEN    = 8
)

// FLASH registers.
const (
	FLASH_ACR = FLASH + 0x00

	FLASH_ACR_LATENCY_Pos = 0
	FLASH_ACR_LATENCY_Msk = 0xF << FLASH_ACR_LATENCY_Pos
	FLASH_ACR_PRFTEN      = 1 << 8
	FLASH_ACR_ICEN        = 1 << 9
	FLASH_ACR_DCEN        = 1 << 10
	FLASH_ACR_DBG_SWEN    = 1 << 18

	FLASH_ACR_Reset = 0x00040600
)

// PWR registers.
const (
	PWR_CR1 = PWR + 0x00
	PWR_CR3 = PWR + 0x08
	PWR_CR5 = PWR + 0x80

	PWR_CR1_DBP    = 1 << 8
	PWR_CR3_APC    = 1 << 10
	PWR_CR5_R1MODE = 1 << 8 // set: range 1 normal, clear: range 1 boost

	PWR_CR5_Reset = 0x00000100
)

// CRS registers.
const (
	CRS_CR = CRS + 0x00

	CRS_CR_CEN        = 1 << 5
	CRS_CR_AUTOTRIMEN = 1 << 6
)

// TAMP backup registers (retained across reset while VBAT/VDD is present).
const (
	TAMP_BKP0R = TAMP + 0x100
	TAMP_BKP4R = TAMP_BKP0R + 4*4
)

// Cortex-M system control block.
const (
	SCB_AIRCR = 0xE000ED0C

	SCB_AIRCR_VECTKEY     = 0x05FA << 16
	SCB_AIRCR_SYSRESETREQ = 1 << 2
)

// HSIHz is the internal oscillator frequency.
const HSIHz = 16_000_000

// GPIO register offsets from a port base.
const (
	GPIO_MODER   = 0x00
	GPIO_OTYPER  = 0x04
	GPIO_OSPEEDR = 0x08
	GPIO_PUPDR   = 0x0C
	GPIO_IDR     = 0x10
	GPIO_ODR     = 0x14
	GPIO_BSRR    = 0x18
	GPIO_AFRL    = 0x20
	GPIO_AFRH    = 0x24

	GPIOPorts = 7 // A..G
)

// I2C register offsets from a controller base.
const (
	I2C_CR1     = 0x00
	I2C_CR2     = 0x04
	I2C_TIMINGR = 0x10
	I2C_ISR     = 0x18
	I2C_ICR     = 0x1C
	I2C_RXDR    = 0x24
	I2C_TXDR    = 0x28
)

// I2C bits.
const (
	I2C_CR1_PE = 1 << 0

	I2C_CR2_SADD_Msk   = 0x3FF
	I2C_CR2_RD_WRN     = 1 << 10
	I2C_CR2_START      = 1 << 13
	I2C_CR2_STOP       = 1 << 14
	I2C_CR2_NBYTES_Pos = 16
	I2C_CR2_NBYTES_Msk = 0xFF << I2C_CR2_NBYTES_Pos
	I2C_CR2_RELOAD     = 1 << 24
	I2C_CR2_AUTOEND    = 1 << 25

	I2C_ISR_TXE   = 1 << 0
	I2C_ISR_TXIS  = 1 << 1
	I2C_ISR_RXNE  = 1 << 2
	I2C_ISR_NACKF = 1 << 4
	I2C_ISR_STOPF = 1 << 5
	I2C_ISR_TC    = 1 << 6
	I2C_ISR_BUSY  = 1 << 15

	I2C_ICR_NACKCF = 1 << 4
	I2C_ICR_STOPCF = 1 << 5
)
