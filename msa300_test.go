package msa300

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RegisterBus = &regFile{}

type regWrite struct {
	reg   byte
	value byte
}

// regFile is an in-memory register file recording every write in order.
type regFile struct {
	regs   map[byte]byte
	writes []regWrite
	fail   map[byte]error // per-register injected errors
}

func newRegFile(init map[byte]byte) *regFile {
	regs := make(map[byte]byte)
	for reg, value := range init {
		regs[reg] = value
	}
	return &regFile{regs: regs, fail: make(map[byte]error)}
}

func (f *regFile) WriteRegister(ctx context.Context, reg, value byte) error {
	if err := f.fail[reg]; err != nil {
		return err
	}
	f.regs[reg] = value
	f.writes = append(f.writes, regWrite{reg: reg, value: value})
	return nil
}

func (f *regFile) ReadRegister(ctx context.Context, reg byte) (byte, error) {
	if err := f.fail[reg]; err != nil {
		return 0, err
	}
	return f.regs[reg], nil
}

func (f *regFile) ReadRegister16(ctx context.Context, reg byte) (uint16, error) {
	if err := f.fail[reg]; err != nil {
		return 0, err
	}
	return uint16(f.regs[reg]) | uint16(f.regs[reg+1])<<8, nil
}

func TestMSA300_Connect(t *testing.T) {
	f := newRegFile(nil)
	m := New(f)
	err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []regWrite{
		{reg: regPowerBW, value: defaultPowerBW},
		{reg: regODR, value: defaultDataRate},
	}, f.writes)
}

func TestMSA300_ConnectWrongDevice(t *testing.T) {
	f := newRegFile(map[byte]byte{regPartID: 0xAA})
	m := New(f)
	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongDevice)
	// no configuration may be written when identification fails
	assert.Empty(t, f.writes)
}

func TestMSA300_ConnectReadError(t *testing.T) {
	f := newRegFile(nil)
	f.fail[regPartID] = fmt.Errorf("bus stuck")
	m := New(f)
	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrWrongDevice))
	assert.Empty(t, f.writes)
}

func TestMSA300_SetRange(t *testing.T) {
	tests := []struct {
		rng        Range
		multiplier float32
	}{
		{Range2G, 0.000244},
		{Range4G, 0.000488},
		{Range8G, 0.000976},
		{Range16G, 0.00195},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#02b", test.rng), func(t *testing.T) {
			// resolution bits and reserved bits must survive a range change
			f := newRegFile(map[byte]byte{regResRange: 0b1010_1100})
			m := New(f)
			require.NoError(t, m.SetRange(context.Background(), test.rng))
			assert.Equal(t, 0b1010_1100&^byte(0x03)|byte(test.rng), f.regs[regResRange])
			assert.Equal(t, test.multiplier, m.multiplier)
		})
	}
}

func TestMSA300_FieldSettersPreserveSiblingBits(t *testing.T) {
	tests := []struct {
		name string
		reg  byte
		mask byte
		op   func(context.Context, *MSA300) error
	}{
		{"range", regResRange, 0x03, func(ctx context.Context, m *MSA300) error {
			return m.SetRange(ctx, Range16G)
		}},
		{"resolution", regResRange, 0x0C, func(ctx context.Context, m *MSA300) error {
			return m.SetResolution(ctx, Res8Bit)
		}},
		{"data rate", regODR, 0x0F, func(ctx context.Context, m *MSA300) error {
			return m.SetDataRate(ctx, DataRate250Hz)
		}},
		{"power mode", regPowerBW, 0xC0, func(ctx context.Context, m *MSA300) error {
			return m.SetPowerMode(ctx, ModeSuspend)
		}},
		{"latch", regIntLatch, 0x0F, func(ctx context.Context, m *MSA300) error {
			return m.SetInterruptLatch(ctx, LatchPermanent)
		}},
		{"orientation mode", regOrientHy, 0x03, func(ctx context.Context, m *MSA300) error {
			return m.SetOrientMode(ctx, OrientLowAsymmetric)
		}},
		{"orientation hysteresis", regOrientHy, 0x70, func(ctx context.Context, m *MSA300) error {
			return m.SetOrientHysteresis(ctx, 250)
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			const before = byte(0b0101_0101)
			f := newRegFile(map[byte]byte{test.reg: before})
			m := New(f)
			require.NoError(t, test.op(context.Background(), m))
			after := f.regs[test.reg]
			assert.Equal(t, before&^test.mask, after&^test.mask,
				"bits outside %#08b changed: %#08b -> %#08b", test.mask, before, after)
			assert.NotEqual(t, before, after)
		})
	}
}

func TestMSA300_Getters(t *testing.T) {
	f := newRegFile(map[byte]byte{
		regResRange: 0b0000_0111, // 16g, 12-bit
		regODR:      0b0000_1111,
		regPowerBW:  0b0101_0100,
	})
	m := New(f)
	ctx := context.Background()

	rng, err := m.GetRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, Range16G, rng)

	res, err := m.GetResolution(ctx)
	require.NoError(t, err)
	assert.Equal(t, Res12Bit, res)

	rate, err := m.GetDataRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, DataRate1000Hz, rate)

	mode, err := m.GetPowerMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeLow, mode)
}

func TestMSA300_SetActiveDuration(t *testing.T) {
	tests := []struct {
		ms  int
		raw byte
	}{
		{0, 0}, // below domain, floor at 1 ms
		{1, 0},
		{3, 2},
		{5, 4},
		{10, 4}, // above domain, ceiling at 5 ms
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%dms", test.ms), func(t *testing.T) {
			f := newRegFile(nil)
			m := New(f)
			require.NoError(t, m.SetActiveDuration(context.Background(), test.ms))
			assert.Equal(t, test.raw, f.regs[regActiveDur])
		})
	}
}

func TestMSA300_SetFreefallDuration(t *testing.T) {
	tests := []struct {
		ms  int
		raw byte
	}{
		{1, 0}, // below domain, floor at 2 ms
		{2, 0},
		{100, 49},
		{512, 255},
		{1000, 255}, // above domain, ceiling at 512 ms
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%dms", test.ms), func(t *testing.T) {
			f := newRegFile(nil)
			m := New(f)
			require.NoError(t, m.SetFreefallDuration(context.Background(), test.ms))
			assert.Equal(t, test.raw, f.regs[regFreefallDur])
		})
	}
}

func TestMSA300_SetFreefallThreshold(t *testing.T) {
	f := newRegFile(nil)
	m := New(f)
	ctx := context.Background()

	require.NoError(t, m.SetFreefallThreshold(ctx, 375))
	assert.Equal(t, byte(48), f.regs[regFreefallTh])

	require.NoError(t, m.SetFreefallThreshold(ctx, 10000))
	assert.Equal(t, byte(0xFF), f.regs[regFreefallTh])
}

func TestMSA300_SetFreefallHysteresis(t *testing.T) {
	tests := []struct {
		name    string
		sumMode bool
		mg      float32
		raw     byte
	}{
		{"one step", false, 125, 0x01},
		{"sum mode", true, 250, 0x0A},
		{"saturated", true, 1000, 0x0B},
		{"negative", false, -10, 0x00},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newRegFile(nil)
			m := New(f)
			require.NoError(t, m.SetFreefallHysteresis(context.Background(), test.sumMode, test.mg))
			assert.Equal(t, test.raw, f.regs[regFreefallHy])
		})
	}
}

func TestMSA300_SetTapThreshold(t *testing.T) {
	f := newRegFile(nil)
	m := New(f)
	ctx := context.Background()

	// 62.5 mg per LSB at the default 2g range
	require.NoError(t, m.SetTapThreshold(ctx, 1.0))
	assert.Equal(t, byte(16), f.regs[regTapTh])

	require.NoError(t, m.SetTapThreshold(ctx, 10))
	assert.Equal(t, byte(0x1F), f.regs[regTapTh])

	require.NoError(t, m.SetTapThreshold(ctx, -1))
	assert.Equal(t, byte(0), f.regs[regTapTh])

	// the step doubles with every range
	require.NoError(t, m.SetRange(ctx, Range16G))
	require.NoError(t, m.SetTapThreshold(ctx, 1.0))
	assert.Equal(t, byte(2), f.regs[regTapTh])
}

func TestMSA300_SetActiveThreshold(t *testing.T) {
	f := newRegFile(nil)
	m := New(f)
	ctx := context.Background()

	require.NoError(t, m.SetActiveThreshold(ctx, 0.5))
	assert.Equal(t, byte(128), f.regs[regActiveTh])

	require.NoError(t, m.SetActiveThreshold(ctx, 10))
	assert.Equal(t, byte(0xFF), f.regs[regActiveTh])
}

func TestMSA300_SetTapDuration(t *testing.T) {
	f := newRegFile(nil)
	m := New(f)
	err := m.SetTapDuration(context.Background(), TapDur700ms, true, true)
	require.NoError(t, err)
	assert.Equal(t, byte(0xC7), f.regs[regTapDur])

	err = m.SetTapDuration(context.Background(), TapDur50ms, false, false)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), f.regs[regTapDur])
}

func TestMSA300_SetOffset(t *testing.T) {
	tests := []struct {
		axis Axis
		reg  byte
	}{
		{AxisX, regOffsetX},
		{AxisY, regOffsetY},
		{AxisZ, regOffsetZ},
	}
	for _, test := range tests {
		f := newRegFile(nil)
		m := New(f)
		require.NoError(t, m.SetOffset(context.Background(), test.axis, 39))
		assert.Equal(t, byte(10), f.regs[test.reg])
	}

	f := newRegFile(nil)
	m := New(f)
	require.NoError(t, m.SetOffset(context.Background(), AxisX, 2000))
	assert.Equal(t, byte(0xFF), f.regs[regOffsetX])
}

func TestMSA300_SwapPolarity(t *testing.T) {
	f := newRegFile(map[byte]byte{regSwapPolarity: 0b0000_0010})
	m := New(f)
	ctx := context.Background()

	require.NoError(t, m.SwapPolarity(ctx, PolarityZ))
	assert.Equal(t, byte(0b0000_0000), f.regs[regSwapPolarity])

	require.NoError(t, m.SwapPolarity(ctx, PolarityZ))
	assert.Equal(t, byte(0b0000_0010), f.regs[regSwapPolarity])

	require.NoError(t, m.SwapPolarity(ctx, PolarityX))
	assert.Equal(t, byte(0b0000_1010), f.regs[regSwapPolarity])
}

func TestMSA300_GetAcceleration(t *testing.T) {
	f := newRegFile(map[byte]byte{
		regAccX: 0xE8, regAccX + 1: 0x03, // 1000
		regAccY: 0x18, regAccY + 1: 0xFC, // -1000
		regAccZ: 0x00, regAccZ + 1: 0x00,
	})
	m := New(f)
	sample, err := m.GetAcceleration(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1000*0.000244*Gravity, sample.X, 0.0001)
	assert.InDelta(t, -1000*0.000244*Gravity, sample.Y, 0.0001)
	assert.Zero(t, sample.Z)
}

func TestMSA300_GetAccelerationUsesRangeMultiplier(t *testing.T) {
	f := newRegFile(map[byte]byte{
		regResRange: 0x00,
		regAccX:     0x64, // 100
	})
	m := New(f)
	ctx := context.Background()
	require.NoError(t, m.SetRange(ctx, Range8G))
	sample, err := m.GetAcceleration(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100*0.000976*Gravity, sample.X, 0.0001)
}

func TestMSA300_RawAxisSignExtension(t *testing.T) {
	f := newRegFile(map[byte]byte{
		regAccZ: 0xFF, regAccZ + 1: 0xFF,
	})
	m := New(f)
	z, err := m.RawZ(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int16(-1), z)
}

func TestMSA300_SensorID(t *testing.T) {
	m := New(newRegFile(nil))
	assert.Equal(t, int32(-1), m.SensorID())

	m = New(newRegFile(nil), WithSensorID(42))
	assert.Equal(t, int32(42), m.SensorID())
}
