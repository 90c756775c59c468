package msa300

import (
	"context"
	"encoding/binary"
	"fmt"
)

var _ RegisterBus = &I2CTransport{}

// I2CTransport frames register access over an addressed byte bus: a write
// sends the register pointer followed by the data byte, a read sets the
// register pointer and then receives one or two bytes.
type I2CTransport struct {
	bus  I2CBus
	addr byte
}

// NewI2CTransport wraps the given bus. A zero addr selects DefaultAddress;
// pass AltAddress when SDO is pulled high.
func NewI2CTransport(bus I2CBus, addr byte) *I2CTransport {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &I2CTransport{bus: bus, addr: addr}
}

func (t *I2CTransport) WriteRegister(ctx context.Context, reg, value byte) error {
	err := t.bus.WriteToAddr(ctx, t.addr, []byte{reg, value})
	if err != nil {
		return fmt.Errorf("could not write register %#x: %w", reg, err)
	}
	return nil
}

func (t *I2CTransport) ReadRegister(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	err := t.readInto(ctx, reg, buf)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *I2CTransport) ReadRegister16(ctx context.Context, reg byte) (uint16, error) {
	buf := make([]byte, 2)
	err := t.readInto(ctx, reg, buf)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (t *I2CTransport) readInto(ctx context.Context, reg byte, buf []byte) error {
	err := t.bus.WriteToAddr(ctx, t.addr, []byte{reg})
	if err != nil {
		return fmt.Errorf("could not set register pointer to %#x: %w", reg, err)
	}
	err = t.bus.ReadFromAddr(ctx, t.addr, buf)
	if err != nil {
		return fmt.Errorf("could not read register %#x: %w", reg, err)
	}
	return nil
}
