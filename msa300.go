// Package msa300 implements a driver for the MSA300 14-bit digital
// accelerometer. The device speaks either I2C or a four-wire synchronous
// interface; both are consumed through the RegisterBus contract, so the
// driver itself only encodes and decodes register bits.
//
// Typical usage:
//
//	m := msa300.New(msa300.NewI2CTransport(bus, 0))
//	if err := m.Connect(ctx); err != nil { ... }
//	acc, err := m.GetAcceleration(ctx)
package msa300

import (
	"context"
	"errors"
	"fmt"
)

// ErrWrongDevice is returned by Connect when the part-ID register does not
// report an MSA300.
var ErrWrongDevice = errors.New("connected device does not identify as an MSA300")

// AccelerationSample is one measurement of all three axes in m/s².
type AccelerationSample struct {
	X float32
	Y float32
	Z float32
}

// MSA300 represents one physical sensor. It caches the last written range,
// resolution and power mode so threshold scaling and unit conversion do not
// need readbacks; getters always re-read hardware. Not safe for concurrent
// use: interleaved calls would corrupt read-modify-write sequences on the bus.
type MSA300 struct {
	transport  RegisterBus
	sensorID   int32
	rng        Range
	res        Resolution
	mode       PowerMode
	multiplier float32
}

type Config struct {
	// SensorID is an opaque caller-supplied identifier used to tell sensor
	// instances apart. The driver never sends it anywhere.
	SensorID int32
}

type Option func(*Config)

func WithSensorID(id int32) Option {
	return func(c *Config) {
		c.SensorID = id
	}
}

// New creates an MSA300 on the given transport. The cached configuration
// starts at the chip's power-on defaults (2g range, 14-bit, normal mode).
func New(trans RegisterBus, opts ...Option) *MSA300 {
	config := &Config{SensorID: -1}
	for _, opt := range opts {
		opt(config)
	}
	return &MSA300{
		transport:  trans,
		sensorID:   config.SensorID,
		rng:        Range2G,
		res:        Res14Bit,
		mode:       ModeNormal,
		multiplier: accelStep[Range2G],
	}
}

func (m *MSA300) SensorID() int32 {
	return m.sensorID
}

// Connect verifies the device identity and enables continuous measurement.
// No other method may be called before Connect succeeds; there is no
// disconnect transition.
func (m *MSA300) Connect(ctx context.Context) error {
	id, err := m.PartID(ctx)
	if err != nil {
		return fmt.Errorf("msa300: could not read part id: %w", err)
	}
	if id != partID {
		return fmt.Errorf("msa300: unexpected part id %#x: %w", id, ErrWrongDevice)
	}
	err = m.transport.WriteRegister(ctx, regPowerBW, defaultPowerBW)
	if err != nil {
		return fmt.Errorf("msa300: could not enable measurements: %w", err)
	}
	err = m.transport.WriteRegister(ctx, regODR, defaultDataRate)
	if err != nil {
		return fmt.Errorf("msa300: could not set output data rate: %w", err)
	}
	return nil
}

// PartID reads the identity register.
func (m *MSA300) PartID(ctx context.Context) (byte, error) {
	return m.transport.ReadRegister(ctx, regPartID)
}

// SetRange sets the full-scale range and updates the cached conversion
// multiplier in the same call.
func (m *MSA300) SetRange(ctx context.Context, rng Range) error {
	err := rangeField.update(ctx, m.transport, byte(rng))
	if err != nil {
		return fmt.Errorf("could not set range: %w", err)
	}
	m.rng = rng
	m.multiplier = stepFor(accelStep, rng)
	return nil
}

func (m *MSA300) GetRange(ctx context.Context) (Range, error) {
	v, err := rangeField.read(ctx, m.transport)
	if err != nil {
		return 0, fmt.Errorf("could not read range: %w", err)
	}
	return Range(v), nil
}

func (m *MSA300) SetResolution(ctx context.Context, res Resolution) error {
	err := resolutionField.update(ctx, m.transport, byte(res))
	if err != nil {
		return fmt.Errorf("could not set resolution: %w", err)
	}
	m.res = res
	return nil
}

func (m *MSA300) GetResolution(ctx context.Context) (Resolution, error) {
	v, err := resolutionField.read(ctx, m.transport)
	if err != nil {
		return 0, fmt.Errorf("could not read resolution: %w", err)
	}
	return Resolution(v), nil
}

func (m *MSA300) SetDataRate(ctx context.Context, rate DataRate) error {
	err := dataRateField.update(ctx, m.transport, byte(rate))
	if err != nil {
		return fmt.Errorf("could not set data rate: %w", err)
	}
	return nil
}

func (m *MSA300) GetDataRate(ctx context.Context) (DataRate, error) {
	v, err := dataRateField.read(ctx, m.transport)
	if err != nil {
		return 0, fmt.Errorf("could not read data rate: %w", err)
	}
	return DataRate(v), nil
}

func (m *MSA300) SetPowerMode(ctx context.Context, mode PowerMode) error {
	err := powerModeField.update(ctx, m.transport, byte(mode))
	if err != nil {
		return fmt.Errorf("could not set power mode: %w", err)
	}
	m.mode = mode
	return nil
}

func (m *MSA300) GetPowerMode(ctx context.Context) (PowerMode, error) {
	v, err := powerModeField.read(ctx, m.transport)
	if err != nil {
		return 0, fmt.Errorf("could not read power mode: %w", err)
	}
	return PowerMode(v), nil
}

// SetOffset sets the offset compensation of one axis, in mg. The register
// holds one byte in 3.9 mg steps; out-of-domain values saturate.
func (m *MSA300) SetOffset(ctx context.Context, axis Axis, mg float32) error {
	reg := byte(regOffsetX)
	switch axis {
	case AxisY:
		reg = regOffsetY
	case AxisZ:
		reg = regOffsetZ
	}
	err := m.transport.WriteRegister(ctx, reg, offsetScale.encode(mg))
	if err != nil {
		return fmt.Errorf("could not set axis offset: %w", err)
	}
	return nil
}

// SetTapThreshold sets the tap interrupt threshold in g. The register step
// depends on the currently cached range (62.5 mg per LSB at 2g, doubling with
// every range).
func (m *MSA300) SetTapThreshold(ctx context.Context, value float32) error {
	s := scale{step: stepFor(tapStep, m.rng), max: 0x1F}
	err := m.transport.WriteRegister(ctx, regTapTh, s.encode(value))
	if err != nil {
		return fmt.Errorf("could not set tap threshold: %w", err)
	}
	return nil
}

// SetTapDuration configures the tap detector timing: the second-shock window,
// the quiet window (30 ms, or 20 ms when shortQuiet is set) and the shock
// window (50 ms, or 70 ms when longShock is set).
func (m *MSA300) SetTapDuration(ctx context.Context, duration TapDuration, shortQuiet, longShock bool) error {
	reg := byte(duration) & 0x07
	if shortQuiet {
		reg |= 1 << 7
	}
	if longShock {
		reg |= 1 << 6
	}
	err := m.transport.WriteRegister(ctx, regTapDur, reg)
	if err != nil {
		return fmt.Errorf("could not set tap duration: %w", err)
	}
	return nil
}

// SetActiveThreshold sets the active interrupt threshold in g, scaled by the
// currently cached range (3.91 mg per LSB at 2g).
func (m *MSA300) SetActiveThreshold(ctx context.Context, value float32) error {
	s := scale{step: stepFor(activeStep, m.rng), max: 0xFF}
	err := m.transport.WriteRegister(ctx, regActiveTh, s.encode(value))
	if err != nil {
		return fmt.Errorf("could not set active threshold: %w", err)
	}
	return nil
}

// SetActiveDuration sets the active interrupt duration in milliseconds,
// saturated to the 1-5 ms register domain.
func (m *MSA300) SetActiveDuration(ctx context.Context, ms int) error {
	raw := byte(clamp(ms, 1, 5) - 1)
	err := m.transport.WriteRegister(ctx, regActiveDur, raw)
	if err != nil {
		return fmt.Errorf("could not set active duration: %w", err)
	}
	return nil
}

// SetFreefallDuration sets the freefall interrupt duration in milliseconds,
// saturated to the 2-512 ms register domain (2 ms per LSB).
func (m *MSA300) SetFreefallDuration(ctx context.Context, ms int) error {
	raw := byte(clamp(ms, 2, 512)/2 - 1)
	err := m.transport.WriteRegister(ctx, regFreefallDur, raw)
	if err != nil {
		return fmt.Errorf("could not set freefall duration: %w", err)
	}
	return nil
}

// SetFreefallThreshold sets the freefall interrupt threshold in mg
// (7.81 mg per LSB regardless of range).
func (m *MSA300) SetFreefallThreshold(ctx context.Context, mg float32) error {
	err := m.transport.WriteRegister(ctx, regFreefallTh, freefallScale.encode(mg))
	if err != nil {
		return fmt.Errorf("could not set freefall threshold: %w", err)
	}
	return nil
}

// SetFreefallHysteresis sets the freefall hysteresis in mg (125 mg per LSB).
// In sum mode the detector evaluates |x|+|y|+|z| instead of each axis alone.
func (m *MSA300) SetFreefallHysteresis(ctx context.Context, sumMode bool, mg float32) error {
	reg := freefallHyScale.encode(mg)
	if sumMode {
		reg |= 1 << 3
	}
	err := m.transport.WriteRegister(ctx, regFreefallHy, reg)
	if err != nil {
		return fmt.Errorf("could not set freefall hysteresis: %w", err)
	}
	return nil
}

// SwapPolarity toggles the named polarity bit, inverting that axis (or
// exchanging X and Y).
func (m *MSA300) SwapPolarity(ctx context.Context, pol Polarity) error {
	reg, err := m.transport.ReadRegister(ctx, regSwapPolarity)
	if err != nil {
		return fmt.Errorf("could not read polarity register: %w", err)
	}
	reg ^= 1 << pol
	err = m.transport.WriteRegister(ctx, regSwapPolarity, reg)
	if err != nil {
		return fmt.Errorf("could not swap polarity: %w", err)
	}
	return nil
}

// GetAcceleration reads all three axes and converts raw counts to m/s² using
// the multiplier cached by the last range change.
func (m *MSA300) GetAcceleration(ctx context.Context) (AccelerationSample, error) {
	var sample AccelerationSample
	x, err := m.RawX(ctx)
	if err != nil {
		return sample, err
	}
	y, err := m.RawY(ctx)
	if err != nil {
		return sample, err
	}
	z, err := m.RawZ(ctx)
	if err != nil {
		return sample, err
	}
	sample.X = float32(x) * m.multiplier * Gravity
	sample.Y = float32(y) * m.multiplier * Gravity
	sample.Z = float32(z) * m.multiplier * Gravity
	return sample, nil
}

// RawX returns the most recent X axis reading in raw counts.
func (m *MSA300) RawX(ctx context.Context) (int16, error) {
	return m.rawAxis(ctx, regAccX)
}

// RawY returns the most recent Y axis reading in raw counts.
func (m *MSA300) RawY(ctx context.Context) (int16, error) {
	return m.rawAxis(ctx, regAccY)
}

// RawZ returns the most recent Z axis reading in raw counts.
func (m *MSA300) RawZ(ctx context.Context) (int16, error) {
	return m.rawAxis(ctx, regAccZ)
}

func (m *MSA300) rawAxis(ctx context.Context, reg byte) (int16, error) {
	v, err := m.transport.ReadRegister16(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("could not read acceleration register %#x: %w", reg, err)
	}
	return int16(v), nil
}

// stepFor looks up the per-range LSB step; an unrecognized cached range falls
// back to the narrowest (2g) scale so the output is always defined.
func stepFor(steps map[Range]float32, rng Range) float32 {
	if s, ok := steps[rng]; ok {
		return s
	}
	return steps[Range2G]
}
