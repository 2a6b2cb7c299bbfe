//go:build stm32f4

package main

import (
	"time"

	"stm32i2c-go/i2c"
	"stm32i2c-go/mmio"
)

func newMem() (mmio.Mem, uintptr) {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")
	return mmio.HW{}, i2c.I2C1Base
}
