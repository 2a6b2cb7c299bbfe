//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// HW accesses physical addresses directly. The zero value is ready to use.
type HW struct{}

func (HW) Load32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (HW) Store32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}
