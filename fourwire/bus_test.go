package fourwire

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

// fakePin is a gpio.PinIO stub; only the methods the bus uses are implemented.
type fakePin struct {
	gpio.PinIO
	level  gpio.Level
	onOut  func(gpio.Level)
	onRead func() gpio.Level
	outErr error
}

func (p *fakePin) Out(l gpio.Level) error {
	if p.outErr != nil {
		return p.outErr
	}
	p.level = l
	if p.onOut != nil {
		p.onOut(l)
	}
	return nil
}

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	return nil
}

func (p *fakePin) Read() gpio.Level {
	if p.onRead != nil {
		return p.onRead()
	}
	return p.level
}

// sensorModel emulates the device end of the four-wire interface: it latches
// the output line on rising clock edges, presents register bits on falling
// edges and records every chip-selected frame.
type sensorModel struct {
	regs     map[byte]byte
	selected bool
	frames   [][]byte
	frame    []byte
	inShift  byte
	inBits   int
	mosi     gpio.Level
	addr     byte
	out      byte
	miso     gpio.Level
}

func (d *sensorModel) chipSelect(l gpio.Level) {
	if l == gpio.Low {
		d.selected = true
		d.frame = nil
		d.inBits = 0
		return
	}
	if d.selected && d.frame != nil {
		d.frames = append(d.frames, d.frame)
	}
	d.selected = false
}

func (d *sensorModel) clock(l gpio.Level) {
	if !d.selected {
		return
	}
	if l == gpio.High {
		d.inShift <<= 1
		if d.mosi {
			d.inShift |= 1
		}
		d.inBits++
		if d.inBits == 8 {
			d.frame = append(d.frame, d.inShift)
			d.inBits = 0
			d.byteDone()
		}
		return
	}
	d.miso = gpio.Level(d.out&0x80 != 0)
	d.out <<= 1
}

func (d *sensorModel) byteDone() {
	if len(d.frame) == 1 {
		header := d.frame[0]
		if header&0x80 != 0 {
			d.addr = header & 0x3F
			d.out = d.regs[d.addr]
		}
		return
	}
	if d.frame[0]&0xC0 == 0xC0 {
		// multibyte read autoincrements the register pointer
		d.addr++
		d.out = d.regs[d.addr]
	}
}

func newTestBus(t *testing.T, regs map[byte]byte) (*Bus, *sensorModel, *fakePin) {
	t.Helper()
	device := &sensorModel{regs: regs}
	clk := &fakePin{onOut: device.clock}
	mosi := &fakePin{onOut: func(l gpio.Level) { device.mosi = l }}
	miso := &fakePin{onRead: func() gpio.Level { return device.miso }}
	cs := &fakePin{onOut: device.chipSelect}
	bus, err := New(clk, mosi, miso, cs)
	require.NoError(t, err)
	return bus, device, cs
}

func TestNew_ConfiguresLines(t *testing.T) {
	clk := &fakePin{}
	mosi := &fakePin{level: gpio.High}
	miso := &fakePin{}
	cs := &fakePin{}
	_, err := New(clk, mosi, miso, cs)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, cs.level)
	assert.Equal(t, gpio.High, clk.level)
	assert.Equal(t, gpio.Low, mosi.level)
}

func TestNew_PinError(t *testing.T) {
	cs := &fakePin{outErr: fmt.Errorf("pin busy")}
	_, err := New(&fakePin{}, &fakePin{}, &fakePin{}, cs)
	require.Error(t, err)
}

func TestBus_WriteRegister(t *testing.T) {
	bus, device, cs := newTestBus(t, nil)
	err := bus.WriteRegister(context.Background(), 0x0F, 0x03)
	require.NoError(t, err)
	// register pointer then data, clocked MSB first
	assert.Equal(t, [][]byte{{0x0F, 0x03}}, device.frames)
	assert.Equal(t, gpio.High, cs.level)
}

func TestBus_ReadRegister(t *testing.T) {
	bus, device, cs := newTestBus(t, map[byte]byte{0x01: 0x13})
	v, err := bus.ReadRegister(context.Background(), 0x01)
	require.NoError(t, err)
	assert.Equal(t, byte(0x13), v)
	// header carries the read flag, the data phase clocks a dummy byte
	require.Len(t, device.frames, 1)
	assert.Equal(t, []byte{0x81, 0xFF}, device.frames[0])
	assert.Equal(t, gpio.High, cs.level)
}

func TestBus_ReadRegister16(t *testing.T) {
	bus, device, _ := newTestBus(t, map[byte]byte{0x02: 0xE8, 0x03: 0x03})
	v, err := bus.ReadRegister16(context.Background(), 0x02)
	require.NoError(t, err)
	// low byte first
	assert.Equal(t, uint16(1000), v)
	require.Len(t, device.frames, 1)
	assert.Equal(t, []byte{0xC2, 0xFF, 0xFF}, device.frames[0])
}

func TestBus_SeparateTransactions(t *testing.T) {
	bus, device, _ := newTestBus(t, nil)
	ctx := context.Background()
	require.NoError(t, bus.WriteRegister(ctx, 0x16, 0x01))
	require.NoError(t, bus.WriteRegister(ctx, 0x17, 0x08))
	assert.Equal(t, [][]byte{{0x16, 0x01}, {0x17, 0x08}}, device.frames)
}

func TestBus_ClockError(t *testing.T) {
	device := &sensorModel{}
	clk := &fakePin{}
	bus, err := New(clk, &fakePin{}, &fakePin{}, &fakePin{onOut: device.chipSelect})
	require.NoError(t, err)
	clk.outErr = fmt.Errorf("pin stuck")
	err = bus.WriteRegister(context.Background(), 0x0F, 0x03)
	require.Error(t, err)
}
