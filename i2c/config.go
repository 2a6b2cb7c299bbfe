package i2c

import (
	"errors"

	"stm32i2c-go/x/mathx"
)

// Errors returned by configuration and the transaction engine.
var (
	ErrFreq    = errors.New("i2c: peripheral clock frequency out of range (2..42 MHz)")
	ErrDivisor = errors.New("i2c: clock divisor out of range for selected speed mode")
	ErrStalled = errors.New("i2c: status flag not asserted within poll budget")
	ErrTxShape = errors.New("i2c: transfer shape not supported by single-byte engine")
)

// SpeedMode selects the CCR F/S bit.
type SpeedMode uint8

const (
	Standard SpeedMode = iota // Sm, up to 100 kHz
	Fast                      // Fm, up to 400 kHz
)

// Duty selects the fast-mode SCL duty cycle. Ignored in standard mode.
type Duty uint8

const (
	Duty2    Duty = iota // t_low/t_high = 2
	Duty16x9             // t_low/t_high = 16/9
)

// Config composes the CR1 and CR2 control registers. Configure performs
// exactly one full write per register; a later call fully replaces the
// earlier one, it never merges with prior register state.
type Config struct {
	PeripheralEnable bool // CR1.PE
	PacketErrCheck   bool // CR1.ENPEC
	GeneralCall      bool // CR1.ENGC
	NoStretch        bool // CR1.NOSTRETCH, disables clock stretching

	// FreqMHz is the APB1 clock feeding the block, in MHz. Must be in
	// 2..42; the clock tree itself is configured elsewhere.
	FreqMHz uint8

	ErrInterrupt    bool // CR2.ITERREN
	EventInterrupt  bool // CR2.ITEVTEN
	BufferInterrupt bool // CR2.ITBUFEN
	DMA             bool // CR2.DMAEN
	DMALast         bool // CR2.LAST
}

// Validate rejects configurations that must never reach the hardware.
func (c Config) Validate() error {
	if !mathx.Between(c.FreqMHz, 2, 42) {
		return ErrFreq
	}
	return nil
}

func (c Config) cr1() uint32 {
	var v uint32
	if c.PeripheralEnable {
		v |= 1 << CR1PE
	}
	if c.PacketErrCheck {
		v |= 1 << CR1ENPEC
	}
	if c.GeneralCall {
		v |= 1 << CR1ENGC
	}
	if c.NoStretch {
		v |= 1 << CR1NOSTRETCH
	}
	return v
}

func (c Config) cr2() uint32 {
	v := uint32(c.FreqMHz) & CR2FREQMask
	if c.ErrInterrupt {
		v |= 1 << CR2ITERREN
	}
	if c.EventInterrupt {
		v |= 1 << CR2ITEVTEN
	}
	if c.BufferInterrupt {
		v |= 1 << CR2ITBUFEN
	}
	if c.DMA {
		v |= 1 << CR2DMAEN
	}
	if c.DMALast {
		v |= 1 << CR2LAST
	}
	return v
}

// ClockConfig composes the CCR clock control register.
type ClockConfig struct {
	Mode SpeedMode
	Duty Duty   // fast mode only
	Div  uint16 // SCL divisor, CCR field
}

// Validate rejects divisors outside the mode's legal range: the field is
// 11 bits wide, standard mode needs at least 4, fast mode at least 1.
func (c ClockConfig) Validate() error {
	lo := uint16(4)
	if c.Mode == Fast {
		lo = 1
	}
	if !mathx.Between(c.Div, lo, uint16(CCRDivMask)) {
		return ErrDivisor
	}
	return nil
}

func (c ClockConfig) ccr() uint32 {
	v := uint32(c.Div) & CCRDivMask
	if c.Mode == Fast {
		v |= 1 << CCRFS
		if c.Duty == Duty16x9 {
			v |= 1 << CCRDuty
		}
	}
	return v
}
