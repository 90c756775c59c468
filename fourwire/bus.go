// Package fourwire implements the MSA300 four-wire synchronous interface by
// bit-banging GPIO lines. It is the fallback transport for hosts without an
// I2C controller wired to the sensor.
package fourwire

import (
	"context"
	"fmt"

	"github.com/mklimuk/msa300"
	"periph.io/x/conn/v3/gpio"
)

// Address byte flags clocked out before a read.
const (
	readFlag      = 0x80
	multibyteFlag = 0x40
)

var _ msa300.RegisterBus = &Bus{}

// Bus drives one MSA300 over four GPIO lines. Chip select is asserted low
// around each transaction; bytes are clocked MSB first, the output line
// driven on the low clock phase and the input line sampled on the high phase.
type Bus struct {
	clk  gpio.PinIO
	mosi gpio.PinIO
	miso gpio.PinIO
	cs   gpio.PinIO
}

// New configures the four lines (clock high, chip select deasserted, input
// line floating) and returns the bus.
func New(clk, mosi, miso, cs gpio.PinIO) (*Bus, error) {
	if err := cs.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("could not configure chip select line: %w", err)
	}
	if err := clk.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("could not configure clock line: %w", err)
	}
	if err := mosi.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("could not configure output line: %w", err)
	}
	if err := miso.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("could not configure input line: %w", err)
	}
	return &Bus{clk: clk, mosi: mosi, miso: miso, cs: cs}, nil
}

func (b *Bus) WriteRegister(ctx context.Context, reg, value byte) error {
	if err := b.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("could not assert chip select: %w", err)
	}
	defer b.deselect()
	if _, err := b.transfer(reg); err != nil {
		return err
	}
	_, err := b.transfer(value)
	return err
}

func (b *Bus) ReadRegister(ctx context.Context, reg byte) (byte, error) {
	if err := b.cs.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("could not assert chip select: %w", err)
	}
	defer b.deselect()
	if _, err := b.transfer(reg | readFlag); err != nil {
		return 0, err
	}
	return b.transfer(0xFF)
}

func (b *Bus) ReadRegister16(ctx context.Context, reg byte) (uint16, error) {
	if err := b.cs.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("could not assert chip select: %w", err)
	}
	defer b.deselect()
	if _, err := b.transfer(reg | readFlag | multibyteFlag); err != nil {
		return 0, err
	}
	low, err := b.transfer(0xFF)
	if err != nil {
		return 0, err
	}
	high, err := b.transfer(0xFF)
	if err != nil {
		return 0, err
	}
	return uint16(low) | uint16(high)<<8, nil
}

// transfer clocks one byte out and one byte in, MSB first.
func (b *Bus) transfer(data byte) (byte, error) {
	var reply byte
	for i := 7; i >= 0; i-- {
		reply <<= 1
		if err := b.clk.Out(gpio.Low); err != nil {
			return 0, fmt.Errorf("could not drop clock line: %w", err)
		}
		if err := b.mosi.Out(gpio.Level(data&(1<<i) != 0)); err != nil {
			return 0, fmt.Errorf("could not drive output line: %w", err)
		}
		if err := b.clk.Out(gpio.High); err != nil {
			return 0, fmt.Errorf("could not raise clock line: %w", err)
		}
		if b.miso.Read() {
			reply |= 1
		}
	}
	return reply, nil
}

func (b *Bus) deselect() {
	_ = b.cs.Out(gpio.High)
}
