package i2c

// Instance base addresses on STM32F4 parts (APB1).
const (
	I2C1Base uintptr = 0x4000_5400
	I2C2Base uintptr = 0x4000_5800
	I2C3Base uintptr = 0x4000_5C00
)

// Register byte offsets within the block.
const (
	RegCR1   uintptr = 0x00
	RegCR2   uintptr = 0x04
	RegOAR1  uintptr = 0x08
	RegOAR2  uintptr = 0x0C
	RegDR    uintptr = 0x10
	RegSR1   uintptr = 0x14
	RegSR2   uintptr = 0x18
	RegCCR   uintptr = 0x1C
	RegTRISE uintptr = 0x20

	// BlockSize spans the whole register window.
	BlockSize uintptr = 0x24
)

// CR1 bit positions.
const (
	CR1PE        = 0  // peripheral enable
	CR1ENPEC     = 5  // packet error checking
	CR1ENGC      = 6  // general call
	CR1NOSTRETCH = 7  // clock stretching disable
	CR1START     = 8  // generate start condition
	CR1STOP      = 9  // generate stop condition
	CR1ACK       = 10 // acknowledge enable
	CR1SWRST     = 15 // software reset
)

// CR2 bit positions and fields.
const (
	CR2ITERREN = 8  // error interrupt enable
	CR2ITEVTEN = 9  // event interrupt enable
	CR2ITBUFEN = 10 // buffer interrupt enable
	CR2DMAEN   = 11 // DMA requests enable
	CR2LAST    = 12 // next DMA EOT is the last transfer

	CR2FREQMask uint32 = 0x3F // peripheral clock frequency, MHz
)

// SR1 bit positions.
const (
	SR1SB    = 0 // start condition sent
	SR1ADDR  = 1 // address transmitted
	SR1BTF   = 2 // byte transfer finished
	SR1STOPF = 4 // stop condition detected
	SR1RXNE  = 6 // receive register not empty
	SR1TXE   = 7 // transmit register empty
)

// SR2 bit positions. Reading SR2 after an SR1 read clears the ADDR
// condition; the transaction engine depends on that side effect.
const (
	SR2MSL  = 0 // master mode
	SR2BUSY = 1 // bus busy
	SR2TRA  = 2 // transmitter
)

// CCR fields.
const (
	CCRDuty = 14 // fast-mode duty cycle select
	CCRFS   = 15 // speed mode: 0 standard, 1 fast

	CCRDivMask uint32 = 0x7FF // clock divisor
)

// Address-phase direction bits.
const (
	dirWrite = 0
	dirRead  = 1
)

// addrByte encodes the address-phase byte for a 7-bit slave address.
func addrByte(slave uint8, dir uint8) uint8 { return slave<<1 | dir }
