// Package i2csim models the I2C controller register block with a single
// attached slave device. It implements mmio.Peripheral for host builds and
// tests: as the engine writes CR1 and DR, the model advances the SR1/SR2
// status flags in protocol order and records every bus-level event it
// observes, so tests can assert the exact electrical sequence.
package i2csim

import (
	"sync"

	"stm32i2c-go/i2c"
)

// EventKind classifies one observed bus-level action.
type EventKind uint8

const (
	EvStart    EventKind = iota // start condition on an idle bus
	EvRepStart                  // start condition while the bus was owned
	EvAddr                      // address-phase byte (Data holds it)
	EvWrite                     // data byte from the controller
	EvSR2Read                   // SR2 read that cleared the ADDR condition
	EvRead                      // data byte handed to the controller
	EvStop                      // stop condition
)

func (k EventKind) String() string {
	switch k {
	case EvStart:
		return "START"
	case EvRepStart:
		return "RESTART"
	case EvAddr:
		return "ADDR"
	case EvWrite:
		return "WRITE"
	case EvSR2Read:
		return "SR2"
	case EvRead:
		return "READ"
	case EvStop:
		return "STOP"
	}
	return "?"
}

// Event is one entry of the recorded bus log.
type Event struct {
	Kind EventKind
	Data uint8
}

// Slave is the modelled device: a 7-bit address and a 256-byte register
// file, 24Cxx-style.
type Slave struct {
	Addr uint8
	Regs [256]uint8
}

// Block models the controller register block with slave attached. An
// address-phase byte that does not match the slave never gets the ADDR
// flag asserted, so the engine stalls exactly as on a real bus with no
// responder.
type Block struct {
	mu    sync.Mutex
	slave *Slave
	log   []Event

	cr1, cr2, ccr     uint32
	oar1, oar2, trise uint32
	sr1, sr2, dr      uint32

	dir     uint8 // direction of the current address phase
	nw      int   // data bytes received since the write address phase
	regptr  uint8 // slave register pointer
	snapACK bool  // pending ACK snapshot at the read-phase ADDR wait

	ackAtReadAddr bool
}

// New returns a Block with the given slave attached.
func New(s *Slave) *Block { return &Block{slave: s} }

// Events returns a copy of the recorded bus log.
func (b *Block) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.log...)
}

// AckAtReadAddr reports the state of CR1.ACK at the moment the engine
// first observed the read-phase ADDR flag set.
func (b *Block) AckAtReadAddr() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ackAtReadAddr
}

// Busy reports the modelled bus-busy flag.
func (b *Block) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sr2&(1<<i2c.SR2BUSY) != 0
}

func (b *Block) record(k EventKind, data uint8) {
	b.log = append(b.log, Event{Kind: k, Data: data})
}

func (b *Block) Load(off uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch off {
	case i2c.RegCR1:
		return b.cr1
	case i2c.RegCR2:
		return b.cr2
	case i2c.RegCCR:
		return b.ccr
	case i2c.RegOAR1:
		return b.oar1
	case i2c.RegOAR2:
		return b.oar2
	case i2c.RegTRISE:
		return b.trise
	case i2c.RegSR1:
		if b.snapACK && b.sr1&(1<<i2c.SR1ADDR) != 0 {
			b.ackAtReadAddr = b.cr1&(1<<i2c.CR1ACK) != 0
			b.snapACK = false
		}
		return b.sr1
	case i2c.RegSR2:
		if b.sr1&(1<<i2c.SR1ADDR) != 0 {
			b.sr1 &^= 1 << i2c.SR1ADDR
			b.record(EvSR2Read, 0)
			if b.dir == 1 {
				// Slave starts sending: one byte becomes available.
				b.dr = uint32(b.slave.Regs[b.regptr])
				b.sr1 |= 1 << i2c.SR1RXNE
			}
		}
		return b.sr2
	case i2c.RegDR:
		b.sr1 &^= 1 << i2c.SR1RXNE
		b.record(EvRead, uint8(b.dr))
		return b.dr
	}
	return 0
}

func (b *Block) Store(off uintptr, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch off {
	case i2c.RegCR1:
		b.storeCR1(v)
	case i2c.RegCR2:
		b.cr2 = v
	case i2c.RegCCR:
		b.ccr = v
	case i2c.RegOAR1:
		b.oar1 = v
	case i2c.RegOAR2:
		b.oar2 = v
	case i2c.RegTRISE:
		b.trise = v
	case i2c.RegDR:
		b.storeDR(uint8(v))
	}
}

func (b *Block) storeCR1(v uint32) {
	old := b.cr1
	if v&(1<<i2c.CR1SWRST) != 0 {
		// Software reset drops the whole configuration.
		b.cr1, b.cr2, b.ccr, b.sr1, b.sr2 = 0, 0, 0, 0, 0
		return
	}
	if v&(1<<i2c.CR1START) != 0 && old&(1<<i2c.CR1START) == 0 {
		if b.sr2&(1<<i2c.SR2BUSY) != 0 {
			b.record(EvRepStart, 0)
		} else {
			b.record(EvStart, 0)
		}
		b.sr2 |= 1<<i2c.SR2BUSY | 1<<i2c.SR2MSL
		b.sr1 |= 1 << i2c.SR1SB
		v &^= 1 << i2c.CR1START // hardware self-clears
	}
	if v&(1<<i2c.CR1STOP) != 0 && old&(1<<i2c.CR1STOP) == 0 {
		b.record(EvStop, 0)
		b.sr2 &^= 1<<i2c.SR2BUSY | 1<<i2c.SR2MSL
		b.sr1 &^= 1<<i2c.SR1TXE | 1<<i2c.SR1BTF
		v &^= 1 << i2c.CR1STOP
	}
	b.cr1 = v
}

func (b *Block) storeDR(v uint8) {
	switch {
	case b.sr1&(1<<i2c.SR1SB) != 0:
		// Address phase.
		b.sr1 &^= 1 << i2c.SR1SB
		b.record(EvAddr, v)
		if v>>1 != b.slave.Addr {
			return // nobody acknowledges; ADDR never asserts
		}
		b.dir = v & 1
		b.nw = 0
		if b.dir == 1 {
			b.snapACK = true
		}
		b.sr1 |= 1 << i2c.SR1ADDR
	case b.dir == 0:
		// Write-direction data. First byte sets the register pointer,
		// the second lands in the register file.
		b.record(EvWrite, v)
		b.nw++
		if b.nw == 1 {
			b.regptr = v
			b.sr1 |= 1 << i2c.SR1TXE
		} else {
			b.slave.Regs[b.regptr] = v
			b.sr1 |= 1<<i2c.SR1TXE | 1<<i2c.SR1BTF
		}
	}
}
