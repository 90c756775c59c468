package msa300

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// RegisterBus is the transport contract the driver is built on. A transport
// moves single register bytes (and one little-endian register pair) over
// whichever physical bus the caller configured; it knows nothing about what
// the registers mean.
type RegisterBus interface {
	WriteRegister(ctx context.Context, reg, value byte) error
	ReadRegister(ctx context.Context, reg byte) (byte, error)
	// ReadRegister16 reads the register pair starting at reg, low byte first.
	ReadRegister16(ctx context.Context, reg byte) (uint16, error)
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is an addressed byte bus. Both the periph-backed bus and the MCP2221
// USB adapter satisfy it; I2CTransport builds a RegisterBus on top.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
