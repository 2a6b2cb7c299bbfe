// Package i2c drives the STM32F4-class I2C controller block through its
// memory-mapped registers: construction-time validated configuration of
// mode, clocking and interrupt/DMA enables, and a blocking transaction
// engine that reads or writes one byte of a slave device register.
//
// The engine is a strict linear sequence of register writes separated by
// busy-waits on status flags. By default every wait is unbounded, exactly
// as the hardware contract has it: a slave that never responds blocks the
// caller forever. Set PollBudget to bound each wait and get ErrStalled
// back instead.
//
// A Controller owns no software state; everything lives in the hardware
// registers. It is not reentrant and must only be driven from a single
// execution context; callers serialise access themselves.
package i2c

import "stm32i2c-go/mmio"

// Controller is one I2C peripheral instance, identified by the base
// address of its register block.
type Controller struct {
	mem  mmio.Mem
	base uintptr

	// PollBudget bounds each status wait to that many polls, after which
	// the running operation returns ErrStalled. Zero keeps the
	// hardware-faithful behaviour: spin until the flag asserts.
	PollBudget uint32
}

// New binds a controller to the register block at base. It does not touch
// the hardware; call Configure, ConfigureClock and Enable before issuing
// transactions.
func New(mem mmio.Mem, base uintptr) *Controller {
	return &Controller{mem: mem, base: base}
}

// Base returns the bound block base address.
func (c *Controller) Base() uintptr { return c.base }

func (c *Controller) reg(off uintptr) mmio.Reg32 {
	return mmio.NewReg32(c.mem, c.base+off)
}

// Configure validates cfg and writes CR2, then CR1, one full-register
// write each. Nothing is written when validation fails.
func (c *Controller) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.reg(RegCR2).Set(cfg.cr2())
	c.reg(RegCR1).Set(cfg.cr1())
	return nil
}

// ConfigureClock validates cfg and writes CCR in one full-register write.
// Nothing is written when validation fails.
func (c *Controller) ConfigureClock(cfg ClockConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.reg(RegCCR).Set(cfg.ccr())
	return nil
}

// Enable sets the peripheral-enable bit through its bit alias. Effect is
// immediate; no status flag is polled.
func (c *Controller) Enable() { c.reg(RegCR1).Bit(CR1PE).Set() }

// Disable clears the peripheral-enable bit through its bit alias.
func (c *Controller) Disable() { c.reg(RegCR1).Bit(CR1PE).Clear() }

// Reset pulses the software-reset bit, the escape hatch for a bus
// interface stuck by a protocol stall. All register configuration is lost;
// Configure and ConfigureClock must be applied again afterwards.
func (c *Controller) Reset() {
	b := c.reg(RegCR1).Bit(CR1SWRST)
	b.Set()
	b.Clear()
}

// waitSet spins until b reads 1.
func (c *Controller) waitSet(b mmio.Bit) error {
	if c.PollBudget == 0 {
		for !b.Get() {
		}
		return nil
	}
	for i := uint32(0); i < c.PollBudget; i++ {
		if b.Get() {
			return nil
		}
	}
	return ErrStalled
}

// waitClear spins until b reads 0.
func (c *Controller) waitClear(b mmio.Bit) error {
	if c.PollBudget == 0 {
		for b.Get() {
		}
		return nil
	}
	for i := uint32(0); i < c.PollBudget; i++ {
		if !b.Get() {
			return nil
		}
	}
	return ErrStalled
}

// startWritePhase runs the leading sequence shared by both transactions:
// start condition, write-direction address phase, register pointer byte.
// On return the transmit register is ready for the next byte.
func (c *Controller) startWritePhase(slave, reg uint8) error {
	sr1 := c.reg(RegSR1)

	c.reg(RegCR1).Bit(CR1START).Set()
	if err := c.waitSet(sr1.Bit(SR1SB)); err != nil {
		return err
	}
	c.reg(RegDR).Set(uint32(addrByte(slave, dirWrite)))
	if err := c.waitSet(sr1.Bit(SR1ADDR)); err != nil {
		return err
	}
	// Reading SR2 clears the ADDR condition.
	c.reg(RegSR2).Get()
	c.reg(RegDR).Set(uint32(reg))
	return c.waitSet(sr1.Bit(SR1TXE))
}

// WriteRegister writes val into register reg of the slave at the given
// 7-bit address: start, address phase, register pointer, data byte, stop.
// Returns only once the bus reports not busy.
func (c *Controller) WriteRegister(slave, reg, val uint8) error {
	if err := c.startWritePhase(slave, reg); err != nil {
		return err
	}
	c.reg(RegDR).Set(uint32(val))
	if err := c.waitSet(c.reg(RegSR1).Bit(SR1BTF)); err != nil {
		return err
	}
	c.reg(RegCR1).Bit(CR1STOP).Set()
	return c.waitClear(c.reg(RegSR2).Bit(SR2BUSY))
}

// ReadRegister returns the value of register reg of the slave at the given
// 7-bit address. The register pointer is established with a write phase,
// then a repeated start switches to read direction without releasing the
// bus, so no other master can interleave. Acknowledge is disabled before
// the read address phase completes: the single received byte is NACKed,
// telling the slave to stop sending.
func (c *Controller) ReadRegister(slave, reg uint8) (uint8, error) {
	if err := c.startWritePhase(slave, reg); err != nil {
		return 0, err
	}
	sr1 := c.reg(RegSR1)
	cr1 := c.reg(RegCR1)

	cr1.Bit(CR1START).Set() // repeated start
	if err := c.waitSet(sr1.Bit(SR1SB)); err != nil {
		return 0, err
	}
	c.reg(RegDR).Set(uint32(addrByte(slave, dirRead)))
	cr1.Bit(CR1ACK).Clear()
	if err := c.waitSet(sr1.Bit(SR1ADDR)); err != nil {
		return 0, err
	}
	c.reg(RegSR2).Get()
	if err := c.waitSet(sr1.Bit(SR1RXNE)); err != nil {
		return 0, err
	}
	cr1.Bit(CR1STOP).Set()
	if err := c.waitClear(c.reg(RegSR2).Bit(SR2BUSY)); err != nil {
		return 0, err
	}
	return uint8(c.reg(RegDR).Get()), nil
}
