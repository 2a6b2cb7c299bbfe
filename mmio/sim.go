package mmio

import "sync"

// Peripheral models a register block mounted in a Sim. Load and Store
// receive byte offsets relative to the block's base address and may have
// side effects, exactly as hardware register access does.
type Peripheral interface {
	Load(off uintptr) uint32
	Store(off uintptr, v uint32)
}

type window struct {
	base, size uintptr
	p          Peripheral
}

// Sim is a host-side Mem backed by plain memory cells and optional
// peripheral models. Accesses to the bit-band alias region are decoded
// onto the target register, so a mounted Peripheral observes alias
// traffic exactly as it would on hardware: an alias store arrives as a
// full-register read-modify-write, an alias load as a full-register read.
type Sim struct {
	mu    sync.Mutex
	cells map[uintptr]uint32
	wins  []window

	// OnStore, if non-nil, observes every store at the address the bus
	// master issued it to, alias addresses included, before decoding.
	// Must be set before the Sim is used.
	OnStore func(addr uintptr, v uint32)
}

// NewSim returns an empty simulated memory. All unclaimed cells read zero.
func NewSim() *Sim {
	return &Sim{cells: map[uintptr]uint32{}}
}

// Map mounts p over the size bytes starting at base.
func (s *Sim) Map(base, size uintptr, p Peripheral) {
	s.mu.Lock()
	s.wins = append(s.wins, window{base: base, size: size, p: p})
	s.mu.Unlock()
}

// Peek reads a plain cell without side effects. It must not be used on
// addresses claimed by a Peripheral.
func (s *Sim) Peek(addr uintptr) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[addr]
}

func (s *Sim) Load32(addr uintptr) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target, pos, ok := AliasTarget(addr); ok {
		return (s.load(target) >> pos) & 1
	}
	return s.load(addr)
}

func (s *Sim) Store32(addr uintptr, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OnStore != nil {
		s.OnStore(addr, v)
	}
	if target, pos, ok := AliasTarget(addr); ok {
		// The bus fabric performs the read-modify-write.
		old := s.load(target)
		if v&1 != 0 {
			s.store(target, old|1<<pos)
		} else {
			s.store(target, old&^(1<<pos))
		}
		return
	}
	s.store(addr, v)
}

func (s *Sim) load(addr uintptr) uint32 {
	for _, w := range s.wins {
		if addr >= w.base && addr < w.base+w.size {
			return w.p.Load(addr - w.base)
		}
	}
	return s.cells[addr]
}

func (s *Sim) store(addr uintptr, v uint32) {
	for _, w := range s.wins {
		if addr >= w.base && addr < w.base+w.size {
			w.p.Store(addr-w.base, v)
			return
		}
	}
	s.cells[addr] = v
}
