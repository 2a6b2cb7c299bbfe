package i2c

import "tinygo.org/x/drivers"

// Compile-time check.
var _ drivers.I2C = (*Controller)(nil)

// Tx implements the tinygo.org/x/drivers I2C interface on top of the
// single-byte engine, so register-oriented device drivers can run over
// this controller. Supported shapes:
//
//	w = [reg, val], no read   -> WriteRegister
//	w = [reg], len(r) == 1    -> ReadRegister (repeated start)
//
// Every other shape needs a multi-byte engine and returns ErrTxShape.
func (c *Controller) Tx(addr uint16, w, r []byte) error {
	switch {
	case len(w) == 2 && len(r) == 0:
		return c.WriteRegister(uint8(addr), w[0], w[1])
	case len(w) == 1 && len(r) == 1:
		v, err := c.ReadRegister(uint8(addr), w[0])
		if err != nil {
			return err
		}
		r[0] = v
		return nil
	}
	return ErrTxShape
}
