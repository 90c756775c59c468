package msa300

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Update(t *testing.T) {
	tests := []struct {
		name     string
		field    field
		before   byte
		value    byte
		expected byte
	}{
		{"low bits", field{reg: 0x0F, mask: 0x03}, 0b1111_1100, 0b10, 0b1111_1110},
		{"shifted", field{reg: 0x0F, mask: 0x0C, shift: 2}, 0xFF, 0b10, 0b1111_1011},
		{"high bits", field{reg: 0x11, mask: 0xC0, shift: 6}, 0b0001_0100, 0b11, 0b1101_0100},
		{"value wider than mask", field{reg: 0x0F, mask: 0x03}, 0x00, 0xFF, 0x03},
		{"clears previous value", field{reg: 0x21, mask: 0x0F}, 0b1000_0111, 0b0000, 0b1000_0000},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newRegFile(map[byte]byte{test.field.reg: test.before})
			require.NoError(t, test.field.update(context.Background(), f, test.value))
			assert.Equal(t, test.expected, f.regs[test.field.reg])
		})
	}
}

func TestField_Read(t *testing.T) {
	f := newRegFile(map[byte]byte{0x0F: 0b1010_0111})
	v, err := field{reg: 0x0F, mask: 0x0C, shift: 2}.read(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, byte(0b01), v)
}

func TestField_UpdateReadError(t *testing.T) {
	f := newRegFile(nil)
	f.fail[0x0F] = fmt.Errorf("nack")
	err := field{reg: 0x0F, mask: 0x03}.update(context.Background(), f, 1)
	require.Error(t, err)
	assert.Empty(t, f.writes)
}

func TestScale_Encode(t *testing.T) {
	tests := []struct {
		name  string
		scale scale
		value float32
		raw   byte
	}{
		{"zero", scale{step: 0.5, max: 0x1F}, 0, 0},
		{"negative saturates low", scale{step: 0.5, max: 0x1F}, -3, 0},
		{"rounds down", scale{step: 0.5, max: 0x1F}, 0.74, 1},
		{"rounds up", scale{step: 0.5, max: 0x1F}, 0.76, 2},
		{"exact step", scale{step: 62.5, max: 0x07}, 125, 2},
		{"saturates high", scale{step: 62.5, max: 0x07}, 10000, 0x07},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.raw, test.scale.encode(test.value))
		})
	}
}

func TestScale_RoundTrip(t *testing.T) {
	// encode/decode stays within one step at the domain edges
	s := scale{step: 7.81, max: 0xFF}
	for _, mg := range []float32{0, 7.81, 500, 7.81 * 255} {
		raw := s.encode(mg)
		assert.InDelta(t, mg, s.decode(raw), float64(s.step)/2+1e-3, "mg=%v raw=%d", mg, raw)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, clamp(1, 2, 512))
	assert.Equal(t, 512, clamp(1000, 2, 512))
	assert.Equal(t, 100, clamp(100, 2, 512))
}
