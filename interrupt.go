package msa300

import (
	"context"
	"fmt"
)

// InterruptPin names one of the two physical interrupt lines interrupt
// sources can be routed to.
type InterruptPin int

const (
	IntPin1 InterruptPin = 1
	IntPin2 InterruptPin = 2
)

// MotionDetail carries the sign and first-triggering-axis bits of the
// tap/active status register.
type MotionDetail struct {
	TapSign      bool // negative slope triggered the tap
	TapFirstX    bool
	TapFirstY    bool
	TapFirstZ    bool
	ActiveSign   bool
	ActiveFirstX bool
	ActiveFirstY bool
	ActiveFirstZ bool
}

// InterruptSnapshot is a decoded view of the three interrupt status
// registers. Detail is populated only when Active, SingleTap or DoubleTap
// triggered; it is nil otherwise.
type InterruptSnapshot struct {
	Orientation bool
	SingleTap   bool
	DoubleTap   bool
	Active      bool
	Freefall    bool
	NewData     bool
	Detail      *MotionDetail
}

// EnableActiveInterrupt routes the active interrupt to the given pin and
// enables detection on the given axis; the other two axes keep their enable
// bits.
func (m *MSA300) EnableActiveInterrupt(ctx context.Context, axis Axis, pin InterruptPin) error {
	err := m.mapInterrupt(ctx, pin, 1<<2)
	if err != nil {
		return fmt.Errorf("could not map active interrupt: %w", err)
	}
	bit := byte(1 << 0)
	switch axis {
	case AxisY:
		bit = 1 << 1
	case AxisZ:
		bit = 1 << 2
	}
	err = m.setBits(ctx, regIntSet0, bit)
	if err != nil {
		return fmt.Errorf("could not enable active interrupt: %w", err)
	}
	return nil
}

// EnableFreefallInterrupt routes the freefall interrupt to the given pin and
// enables it.
func (m *MSA300) EnableFreefallInterrupt(ctx context.Context, pin InterruptPin) error {
	err := m.mapInterrupt(ctx, pin, 1<<0)
	if err != nil {
		return fmt.Errorf("could not map freefall interrupt: %w", err)
	}
	err = m.setBits(ctx, regIntSet1, 1<<3)
	if err != nil {
		return fmt.Errorf("could not enable freefall interrupt: %w", err)
	}
	return nil
}

// EnableOrientationInterrupt routes the orientation interrupt to the given
// pin and enables it.
func (m *MSA300) EnableOrientationInterrupt(ctx context.Context, pin InterruptPin) error {
	err := m.mapInterrupt(ctx, pin, 1<<6)
	if err != nil {
		return fmt.Errorf("could not map orientation interrupt: %w", err)
	}
	err = m.setBits(ctx, regIntSet0, 1<<6)
	if err != nil {
		return fmt.Errorf("could not enable orientation interrupt: %w", err)
	}
	return nil
}

// EnableSingleTapInterrupt routes the single-tap interrupt to the given pin
// and enables it.
func (m *MSA300) EnableSingleTapInterrupt(ctx context.Context, pin InterruptPin) error {
	err := m.mapInterrupt(ctx, pin, 1<<5)
	if err != nil {
		return fmt.Errorf("could not map single tap interrupt: %w", err)
	}
	err = m.setBits(ctx, regIntSet0, 1<<5)
	if err != nil {
		return fmt.Errorf("could not enable single tap interrupt: %w", err)
	}
	return nil
}

// EnableDoubleTapInterrupt routes the double-tap interrupt to the given pin
// and enables it.
func (m *MSA300) EnableDoubleTapInterrupt(ctx context.Context, pin InterruptPin) error {
	err := m.mapInterrupt(ctx, pin, 1<<4)
	if err != nil {
		return fmt.Errorf("could not map double tap interrupt: %w", err)
	}
	err = m.setBits(ctx, regIntSet0, 1<<4)
	if err != nil {
		return fmt.Errorf("could not enable double tap interrupt: %w", err)
	}
	return nil
}

// EnableNewDataInterrupt routes the new-data interrupt to the given pin and
// enables it. Both pins share one map register for this source.
func (m *MSA300) EnableNewDataInterrupt(ctx context.Context, pin InterruptPin) error {
	bit := byte(1 << 0)
	if pin == IntPin2 {
		bit = 1 << 7
	}
	err := m.setBits(ctx, regIntMap1, bit)
	if err != nil {
		return fmt.Errorf("could not map new data interrupt: %w", err)
	}
	err = m.setBits(ctx, regIntSet1, 1<<4)
	if err != nil {
		return fmt.Errorf("could not enable new data interrupt: %w", err)
	}
	return nil
}

// SetInterruptLatch sets the latching mode of triggered interrupt status
// bits. The reset bit and the reserved bits of the latch register are
// preserved.
func (m *MSA300) SetInterruptLatch(ctx context.Context, mode LatchMode) error {
	err := latchField.update(ctx, m.transport, byte(mode))
	if err != nil {
		return fmt.Errorf("could not set interrupt latch mode: %w", err)
	}
	return nil
}

// ResetInterrupt releases all latched interrupts by setting the self-clearing
// reset bit.
func (m *MSA300) ResetInterrupt(ctx context.Context) error {
	err := m.setBits(ctx, regIntLatch, 1<<7)
	if err != nil {
		return fmt.Errorf("could not reset latched interrupts: %w", err)
	}
	return nil
}

// ClearInterrupts zeroes the interrupt enable and map registers, disabling
// every interrupt source.
func (m *MSA300) ClearInterrupts(ctx context.Context) error {
	for _, reg := range []byte{regIntSet0, regIntSet1, regIntMap0, regIntMap2, regIntMap3} {
		err := m.transport.WriteRegister(ctx, reg, 0x00)
		if err != nil {
			return fmt.Errorf("could not clear interrupt register %#x: %w", reg, err)
		}
	}
	return nil
}

// CheckInterrupts reads the motion, data and tap/active status registers and
// decodes every flag. Callers must check the triggering flags before trusting
// Detail; it is nil unless a tap or active interrupt fired.
func (m *MSA300) CheckInterrupts(ctx context.Context) (InterruptSnapshot, error) {
	var snap InterruptSnapshot
	motion, err := m.transport.ReadRegister(ctx, regMotionInt)
	if err != nil {
		return snap, fmt.Errorf("could not read motion interrupt register: %w", err)
	}
	data, err := m.transport.ReadRegister(ctx, regDataInt)
	if err != nil {
		return snap, fmt.Errorf("could not read data interrupt register: %w", err)
	}
	tap, err := m.transport.ReadRegister(ctx, regTapActive)
	if err != nil {
		return snap, fmt.Errorf("could not read tap status register: %w", err)
	}

	snap.Orientation = motion&(1<<6) != 0
	snap.SingleTap = motion&(1<<5) != 0
	snap.DoubleTap = motion&(1<<4) != 0
	snap.Active = motion&(1<<2) != 0
	snap.Freefall = motion&(1<<0) != 0
	snap.NewData = data&(1<<0) != 0

	if snap.Active || snap.SingleTap || snap.DoubleTap {
		snap.Detail = &MotionDetail{
			TapSign:      tap&(1<<7) != 0,
			TapFirstX:    tap&(1<<6) != 0,
			TapFirstY:    tap&(1<<5) != 0,
			TapFirstZ:    tap&(1<<4) != 0,
			ActiveSign:   tap&(1<<3) != 0,
			ActiveFirstX: tap&(1<<2) != 0,
			ActiveFirstY: tap&(1<<1) != 0,
			ActiveFirstZ: tap&(1<<0) != 0,
		}
	}
	return snap, nil
}

// mapInterrupt sets one routing bit in the map register owned by the pin.
func (m *MSA300) mapInterrupt(ctx context.Context, pin InterruptPin, bit byte) error {
	reg := byte(regIntMap0)
	if pin == IntPin2 {
		reg = regIntMap2
	}
	return m.setBits(ctx, reg, bit)
}

func (m *MSA300) setBits(ctx context.Context, reg, bits byte) error {
	v, err := m.transport.ReadRegister(ctx, reg)
	if err != nil {
		return fmt.Errorf("msa300: could not read register %#x: %w", reg, err)
	}
	err = m.transport.WriteRegister(ctx, reg, v|bits)
	if err != nil {
		return fmt.Errorf("msa300: could not write register %#x: %w", reg, err)
	}
	return nil
}
