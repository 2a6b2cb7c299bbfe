//go:build !stm32f4

package main

import (
	"stm32i2c-go/i2c"
	"stm32i2c-go/i2c/i2csim"
	"stm32i2c-go/mmio"
)

func newMem() (mmio.Mem, uintptr) {
	sim := mmio.NewSim()
	sim.Map(i2c.I2C1Base, i2c.BlockSize, i2csim.New(&i2csim.Slave{Addr: eeprom}))
	return sim, i2c.I2C1Base
}
