package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"g4boot/clock"
	"g4boot/errcode"
	g4 "g4boot/hw/stm32g4"
	"g4boot/x/conv"
)

var peripherals = map[string]uint32{
	"tim2": g4.TIM2, "tim3": g4.TIM3, "tim4": g4.TIM4, "tim6": g4.TIM6, "tim7": g4.TIM7,
	"crs": g4.CRS, "tamp": g4.TAMP, "rtc": g4.RTC, "spi2": g4.SPI2, "spi3": g4.SPI3,
	"usart2": g4.USART2, "usart3": g4.USART3, "uart4": g4.UART4, "uart5": g4.UART5,
	"i2c1": g4.I2C1, "i2c2": g4.I2C2, "i2c3": g4.I2C3, "i2c4": g4.I2C4, "usb": g4.USB,
	"fdcan1": g4.FDCAN1, "fdcan2": g4.FDCAN2, "fdcan3": g4.FDCAN3, "pwr": g4.PWR,
	"lpuart1": g4.LPUART1, "ucpd1": g4.UCPD1,
	"syscfg": g4.SYSCFG, "tim1": g4.TIM1, "spi1": g4.SPI1, "tim8": g4.TIM8, "usart1": g4.USART1,
	"tim15": g4.TIM15, "tim16": g4.TIM16, "tim17": g4.TIM17, "hrtim1": g4.HRTIM1,
	"dma1": g4.DMA1, "dma2": g4.DMA2, "dmamux1": g4.DMAMUX1, "cordic": g4.CORDIC,
	"fmac": g4.FMAC, "crc": g4.CRC,
	"gpioa": g4.GPIOA, "gpiob": g4.GPIOB, "gpioc": g4.GPIOC, "gpiod": g4.GPIOD,
	"gpioe": g4.GPIOE, "gpiof": g4.GPIOF, "gpiog": g4.GPIOG,
	"adc1": g4.ADC1, "adc2": g4.ADC2, "adc3": g4.ADC3, "adc4": g4.ADC4, "adc5": g4.ADC5,
	"dac1": g4.DAC1, "dac2": g4.DAC2, "dac3": g4.DAC3, "dac4": g4.DAC4,
	"aes": g4.AES, "rng": g4.RNG, "fmc": g4.FMC, "quadspi": g4.QUADSPI,
}

// parseAddr accepts a peripheral name or a numeric address.
func parseAddr(s string) (uint32, error) {
	if a, ok := peripherals[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "resolve", Msg: s, Err: err}
	}
	return uint32(v), nil
}

var resolveAll bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [ADDR|NAME]...",
	Short: "Show the clock line gating each peripheral",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveAll {
			for name := range peripherals {
				args = append(args, name)
			}
			sort.Strings(args)
		}
		w := cmd.OutOrStdout()
		for _, a := range args {
			addr, err := parseAddr(a)
			if err != nil {
				return err
			}
			l := clock.Resolve(addr)
			fmt.Fprintf(w, "%-10s %s  line=%s", a, conv.Hex32(addr), l)
			if l.Rst != 0 {
				fmt.Fprintf(w, " rst=%s", conv.Hex32(l.Rst))
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVarP(&resolveAll, "all", "a", false, "resolve every named peripheral")
}
