package mmio

import "testing"

func TestBitAlias(t *testing.T) {
	cases := []struct {
		addr  uintptr
		pos   uint8
		alias uintptr
		ok    bool
	}{
		{0x4000_5400, 0, 0x420A_8000, true},
		{0x4000_5400, 10, 0x420A_8028, true},
		{0x4000_5414, 1, 0x420A_8284, true},
		{0x4000_0000, 0, 0x4200_0000, true},
		{0x400F_FFFC, 31, 0x43FF_FFFC, true},
		{0x2000_0000, 0, 0, false}, // SRAM, outside the peripheral band
		{0x4010_0000, 0, 0, false}, // first address past the banded MiB
		{0x4000_5400, 32, 0, false},
	}
	for _, c := range cases {
		alias, ok := BitAlias(c.addr, c.pos)
		if ok != c.ok || alias != c.alias {
			t.Errorf("BitAlias(%#x, %d) = %#x, %v; want %#x, %v",
				c.addr, c.pos, alias, ok, c.alias, c.ok)
		}
	}
}

func TestAliasTargetRoundTrip(t *testing.T) {
	addrs := []uintptr{0x4000_0000, 0x4000_5400, 0x4000_5414, 0x400F_FFFC}
	for _, addr := range addrs {
		for _, pos := range []uint8{0, 1, 9, 10, 15, 31} {
			alias, ok := BitAlias(addr, pos)
			if !ok {
				t.Fatalf("BitAlias(%#x, %d): not in banded region", addr, pos)
			}
			gotAddr, gotPos, ok := AliasTarget(alias)
			if !ok || gotAddr != addr || gotPos != pos {
				t.Errorf("AliasTarget(%#x) = %#x, %d, %v; want %#x, %d",
					alias, gotAddr, gotPos, ok, addr, pos)
			}
		}
	}
}

func TestAliasTargetRejects(t *testing.T) {
	for _, alias := range []uintptr{0x4000_5400, 0x41FF_FFFC, 0x4400_0000, 0x4200_0002} {
		if _, _, ok := AliasTarget(alias); ok {
			t.Errorf("AliasTarget(%#x): accepted address outside alias window", alias)
		}
	}
}

func TestDistinctAliases(t *testing.T) {
	// Distinct (register, bit) pairs map to distinct alias cells.
	seen := map[uintptr]bool{}
	for _, addr := range []uintptr{0x4000_5400, 0x4000_5404, 0x4000_5414} {
		for pos := uint8(0); pos < 32; pos++ {
			alias, _ := BitAlias(addr, pos)
			if seen[alias] {
				t.Fatalf("alias %#x produced twice", alias)
			}
			seen[alias] = true
		}
	}
}

func TestBitAliasAccessPreservesSiblings(t *testing.T) {
	const addr uintptr = 0x4000_5400
	sim := NewSim()
	reg := NewReg32(sim, addr)
	reg.Set(0x0400)

	b := reg.Bit(0)
	b.Set()
	if got := sim.Peek(addr); got != 0x0401 {
		t.Fatalf("after Set: register = %#x, want 0x0401", got)
	}
	if !b.Get() {
		t.Fatal("Get after Set: bit reads 0")
	}
	b.Clear()
	if got := sim.Peek(addr); got != 0x0400 {
		t.Fatalf("after Clear: register = %#x, want 0x0400", got)
	}
	if b.Get() {
		t.Fatal("Get after Clear: bit reads 1")
	}
}

func TestBitFallbackReadModifyWrite(t *testing.T) {
	// Outside the banded region Bit substitutes a read-modify-write with
	// the same contract.
	const addr uintptr = 0x2000_0000
	sim := NewSim()
	reg := NewReg32(sim, addr)
	reg.Set(0x00F0)

	reg.Bit(0).Set()
	if got := sim.Peek(addr); got != 0x00F1 {
		t.Fatalf("after Set: cell = %#x, want 0x00F1", got)
	}
	reg.Bit(4).Clear()
	if got := sim.Peek(addr); got != 0x00E1 {
		t.Fatalf("after Clear: cell = %#x, want 0x00E1", got)
	}
	if !reg.Bit(5).Get() {
		t.Fatal("bit 5 should read 1")
	}
}

func TestBitPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Bit(32) did not panic")
		}
	}()
	NewReg32(NewSim(), 0x4000_5400).Bit(32)
}

// recordingPeriph counts accesses and their offsets.
type recordingPeriph struct {
	loads, stores []uintptr
	last          uint32
}

func (p *recordingPeriph) Load(off uintptr) uint32 {
	p.loads = append(p.loads, off)
	return p.last
}

func (p *recordingPeriph) Store(off uintptr, v uint32) {
	p.stores = append(p.stores, off)
	p.last = v
}

func TestSimPeripheralWindow(t *testing.T) {
	const base uintptr = 0x4000_5400
	sim := NewSim()
	p := &recordingPeriph{}
	sim.Map(base, 0x24, p)

	sim.Store32(base+0x10, 0xAB)
	if got := sim.Load32(base + 0x10); got != 0xAB {
		t.Fatalf("windowed load = %#x, want 0xAB", got)
	}
	if len(p.stores) != 1 || p.stores[0] != 0x10 {
		t.Fatalf("peripheral stores = %v, want [0x10]", p.stores)
	}
	if len(p.loads) != 1 || p.loads[0] != 0x10 {
		t.Fatalf("peripheral loads = %v, want [0x10]", p.loads)
	}

	// An alias access decodes onto the windowed register: the peripheral
	// sees the full-register read-modify-write the bus fabric performs.
	NewReg32(sim, base+0x10).Bit(2).Set()
	if p.last != 0xAB|1<<2 {
		t.Fatalf("after alias set: register = %#x, want %#x", p.last, 0xAB|1<<2)
	}
}

func TestSimOnStoreSeesRawAddress(t *testing.T) {
	const addr uintptr = 0x4000_5400
	sim := NewSim()
	var got []uintptr
	sim.OnStore = func(a uintptr, _ uint32) { got = append(got, a) }

	NewReg32(sim, addr).Bit(0).Set()
	alias, _ := BitAlias(addr, 0)
	if len(got) != 1 || got[0] != alias {
		t.Fatalf("observed stores %#v, want exactly the alias %#x", got, alias)
	}
}
