package msa300

import (
	"context"
	"fmt"
	"math"
)

// field describes one writable bit slice of a register. update performs the
// read-modify-write sequence; bits outside mask are carried over unchanged.
type field struct {
	reg   byte
	mask  byte
	shift uint
}

func (f field) update(ctx context.Context, bus RegisterBus, value byte) error {
	reg, err := bus.ReadRegister(ctx, f.reg)
	if err != nil {
		return fmt.Errorf("msa300: could not read register %#x: %w", f.reg, err)
	}
	reg &^= f.mask
	reg |= (value << f.shift) & f.mask
	err = bus.WriteRegister(ctx, f.reg, reg)
	if err != nil {
		return fmt.Errorf("msa300: could not write register %#x: %w", f.reg, err)
	}
	return nil
}

func (f field) read(ctx context.Context, bus RegisterBus) (byte, error) {
	reg, err := bus.ReadRegister(ctx, f.reg)
	if err != nil {
		return 0, fmt.Errorf("msa300: could not read register %#x: %w", f.reg, err)
	}
	return (reg & f.mask) >> f.shift, nil
}

// Writable configuration fields.
var (
	rangeField      = field{reg: regResRange, mask: 0x03}
	resolutionField = field{reg: regResRange, mask: 0x0C, shift: 2}
	dataRateField   = field{reg: regODR, mask: 0x0F}
	powerModeField  = field{reg: regPowerBW, mask: 0xC0, shift: 6}
	latchField      = field{reg: regIntLatch, mask: 0x0F}
	orientModeField = field{reg: regOrientHy, mask: 0x03}
	orientHystField = field{reg: regOrientHy, mask: 0x70, shift: 4}
	blockModeField  = field{reg: regOrientHy, mask: 0x0C, shift: 2}
)

// scale converts between physical units and raw register counts. encode
// rounds to the nearest step and saturates to [0, max]; out-of-domain input
// is never rejected.
type scale struct {
	step float32 // physical units per LSB
	max  byte    // highest raw value the field can hold
}

func (s scale) encode(value float32) byte {
	raw := math.Round(float64(value) / float64(s.step))
	if raw <= 0 {
		return 0
	}
	if raw >= float64(s.max) {
		return s.max
	}
	return byte(raw)
}

func (s scale) decode(raw byte) float32 {
	return float32(raw) * s.step
}

// Fixed-step scales. The threshold scales that depend on the full-scale range
// are built per call from the step tables in registers.go.
var (
	offsetScale     = scale{step: 3.9, max: 0xFF}  // mg, one full byte per axis
	freefallScale   = scale{step: 7.81, max: 0xFF} // mg
	freefallHyScale = scale{step: 125, max: 0x03}  // mg
	orientHyScale   = scale{step: 62.5, max: 0x07} // mg
	zBlockScale     = scale{step: 62.5, max: 0x0F} // mg
)

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
