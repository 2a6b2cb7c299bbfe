// Command f4-eeprom-demo brings up an I2C controller in standard mode and
// writes/reads one byte of a 24Cxx-style EEPROM at address 0x50.
//
// On an STM32F4 board (build tag stm32f4) it drives the real I2C1 block;
// RCC clock enable and SDA/SCL alternate-function wiring are assumed to be
// done by board init. On the host it runs against the simulated register
// block, which doubles as a selftest of the whole engine.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target feather-stm32f405 ./cmd/f4-eeprom-demo
package main

import (
	"stm32i2c-go/i2c"
	"stm32i2c-go/x/conv"
)

const eeprom = 0x50

func main() {
	mem, base := newMem()
	var buf [8]byte
	println("i2c block @ 0x" + string(conv.U32Hex(buf[:], uint32(base))))

	ctl := i2c.New(mem, base)
	// Bounded waits so a wiring fault reports instead of hanging the board.
	ctl.PollBudget = 500_000

	// APB1 at 42 MHz, standard mode 100 kHz: divisor = 42 MHz / (2 * 100 kHz).
	if err := ctl.Configure(i2c.Config{FreqMHz: 42}); err != nil {
		println("configure:", err.Error())
		return
	}
	if err := ctl.ConfigureClock(i2c.ClockConfig{Mode: i2c.Standard, Div: 210}); err != nil {
		println("configure clock:", err.Error())
		return
	}
	ctl.Enable()

	if err := ctl.WriteRegister(eeprom, 0x00, 0xA5); err != nil {
		println("write:", err.Error())
		return
	}
	v, err := ctl.ReadRegister(eeprom, 0x00)
	if err != nil {
		println("read:", err.Error())
		return
	}
	println("reg 0x00 = 0x" + string(conv.U8Hex(buf[:], v)))
}
