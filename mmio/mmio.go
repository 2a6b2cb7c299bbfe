// Package mmio provides volatile access to memory-mapped peripheral
// registers, plus Cortex-M bit-band aliasing for single-bit set/clear/test.
//
// All access goes through the Mem capability so the same register code runs
// against real hardware (HW, TinyGo builds) or a simulated register file
// (Sim, host builds and tests). Accesses are always full-width and uncached;
// nothing is buffered between the caller and the backing store.
//
// Bit accessors are atomic where the register address lies inside the
// peripheral bit-band region. Outside it they fall back to a
// read-modify-write with the same external contract; the caller must then
// own the register exclusively (which the drivers in this module require
// anyway).
package mmio

// Mem is the memory access capability: direct, ordered, full-width 32-bit
// loads and stores at absolute addresses.
type Mem interface {
	Load32(addr uintptr) uint32
	Store32(addr uintptr, v uint32)
}

// Cortex-M peripheral bit-band window. Each byte of the 1 MiB region at
// PeriphBase is expanded to 32 alias bytes starting at PeriphAliasBase:
// one 32-bit alias word per bit.
const (
	PeriphBase      uintptr = 0x4000_0000
	PeriphAliasBase uintptr = 0x4200_0000

	periphEnd      = PeriphBase + 0x0010_0000
	periphAliasEnd = PeriphAliasBase + 0x0200_0000
)

// BitAlias returns the alias word address for bit pos of the register at
// addr. ok is false when addr is outside the banded region or pos > 31;
// the caller must then use a read-modify-write instead.
func BitAlias(addr uintptr, pos uint8) (alias uintptr, ok bool) {
	if pos > 31 || addr < PeriphBase || addr >= periphEnd {
		return 0, false
	}
	return PeriphAliasBase + (addr-PeriphBase)*32 + uintptr(pos)*4, true
}

// AliasTarget inverts BitAlias: given an alias word address it returns the
// word-aligned register address and the bit position the alias maps to.
// Used by Sim to route alias traffic onto the target register.
func AliasTarget(alias uintptr) (addr uintptr, pos uint8, ok bool) {
	if alias < PeriphAliasBase || alias >= periphAliasEnd || alias%4 != 0 {
		return 0, 0, false
	}
	off := alias - PeriphAliasBase
	byteAddr := PeriphBase + off/32
	bitInByte := uint8(off%32) / 4
	return byteAddr &^ 3, uint8(byteAddr&3)*8 + bitInByte, true
}

// Reg32 is a 32-bit register bound to a fixed address.
type Reg32 struct {
	mem  Mem
	addr uintptr
}

// NewReg32 binds a register accessor to addr.
func NewReg32(mem Mem, addr uintptr) Reg32 {
	return Reg32{mem: mem, addr: addr}
}

// Addr returns the bound address.
func (r Reg32) Addr() uintptr { return r.addr }

// Get performs one full-width load.
func (r Reg32) Get() uint32 { return r.mem.Load32(r.addr) }

// Set performs one full-width store.
func (r Reg32) Set(v uint32) { r.mem.Store32(r.addr, v) }

// Bit returns an accessor for a single bit of the register. Panics if pos
// is not in 0..31.
func (r Reg32) Bit(pos uint8) Bit {
	if pos > 31 {
		panic("mmio: bit position out of range")
	}
	b := Bit{mem: r.mem, reg: r.addr, mask: 1 << pos}
	if alias, ok := BitAlias(r.addr, pos); ok {
		b.alias = alias
	}
	return b
}

// Bit reads and writes exactly one bit of a register. Inside the bit-band
// region it uses the hardware alias word, so sets and clears are atomic and
// never disturb sibling bits. Elsewhere it substitutes an equivalent
// read-modify-write; the register must then not be written concurrently.
type Bit struct {
	mem   Mem
	reg   uintptr
	alias uintptr // 0 when outside the banded region
	mask  uint32
}

// Get reports whether the bit is currently 1.
func (b Bit) Get() bool {
	if b.alias != 0 {
		return b.mem.Load32(b.alias)&1 != 0
	}
	return b.mem.Load32(b.reg)&b.mask != 0
}

// Set writes the bit to 1.
func (b Bit) Set() {
	if b.alias != 0 {
		b.mem.Store32(b.alias, 1)
		return
	}
	b.mem.Store32(b.reg, b.mem.Load32(b.reg)|b.mask)
}

// Clear writes the bit to 0.
func (b Bit) Clear() {
	if b.alias != 0 {
		b.mem.Store32(b.alias, 0)
		return
	}
	b.mem.Store32(b.reg, b.mem.Load32(b.reg)&^b.mask)
}
