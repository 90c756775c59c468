package msa300

import (
	"context"
	"fmt"
)

// XYOrientation is the 2-bit orientation code of the XY plane.
type XYOrientation byte

const (
	PortraitUpright    XYOrientation = 0b00
	PortraitUpsideDown XYOrientation = 0b01
	LandscapeLeft      XYOrientation = 0b10
	LandscapeRight     XYOrientation = 0b11
)

func (o XYOrientation) String() string {
	switch o {
	case PortraitUpright:
		return "portrait upright"
	case PortraitUpsideDown:
		return "portrait upside down"
	case LandscapeLeft:
		return "landscape left"
	default:
		return "landscape right"
	}
}

// OrientationSnapshot is a decoded view of the orientation status register.
type OrientationSnapshot struct {
	// ZDown is set when the chip is downward looking.
	ZDown bool
	XY    XYOrientation
}

// CheckOrientation reads and decodes the orientation status register.
func (m *MSA300) CheckOrientation(ctx context.Context) (OrientationSnapshot, error) {
	var snap OrientationSnapshot
	reg, err := m.transport.ReadRegister(ctx, regOrientStatus)
	if err != nil {
		return snap, fmt.Errorf("could not read orientation status: %w", err)
	}
	snap.ZDown = reg&(1<<6) != 0
	snap.XY = XYOrientation((reg >> 4) & 0x3)
	return snap, nil
}

// SetOrientMode sets the symmetry mode of orientation detection.
func (m *MSA300) SetOrientMode(ctx context.Context, mode OrientMode) error {
	err := orientModeField.update(ctx, m.transport, byte(mode))
	if err != nil {
		return fmt.Errorf("could not set orientation mode: %w", err)
	}
	return nil
}

// SetOrientHysteresis sets the orientation hysteresis in mg (62.5 mg per
// LSB); out-of-domain values saturate.
func (m *MSA300) SetOrientHysteresis(ctx context.Context, mg float32) error {
	err := orientHystField.update(ctx, m.transport, orientHyScale.encode(mg))
	if err != nil {
		return fmt.Errorf("could not set orientation hysteresis: %w", err)
	}
	return nil
}

// SetBlocking sets the orientation blocking mode and the z-axis blocking
// threshold in mg (62.5 mg per LSB).
func (m *MSA300) SetBlocking(ctx context.Context, mode BlockMode, zBlockMg float32) error {
	err := blockModeField.update(ctx, m.transport, byte(mode))
	if err != nil {
		return fmt.Errorf("could not set blocking mode: %w", err)
	}
	err = m.transport.WriteRegister(ctx, regZBlock, zBlockScale.encode(zBlockMg))
	if err != nil {
		return fmt.Errorf("could not set z-block threshold: %w", err)
	}
	return nil
}
