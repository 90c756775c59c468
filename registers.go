package msa300

// Gravity is the standard gravity constant used to convert g units to m/s².
const Gravity = 9.80665

// 7-bit bus addresses. AltAddress applies when SDO is pulled high.
const (
	DefaultAddress = 0x26
	AltAddress     = 0x27
)

// partID is the value the part-ID register reports on a live device.
const partID = 0x00

// Register map.
const (
	regSoftReset    = 0x00
	regPartID       = 0x01
	regAccX         = 0x02 // LSB first, MSB at +1; same for Y and Z
	regAccY         = 0x04
	regAccZ         = 0x06
	regMotionInt    = 0x09
	regDataInt      = 0x0A
	regTapActive    = 0x0B
	regOrientStatus = 0x0C
	regResRange     = 0x0F
	regODR          = 0x10
	regPowerBW      = 0x11
	regSwapPolarity = 0x12
	regIntSet0      = 0x16
	regIntSet1      = 0x17
	regIntMap0      = 0x19
	regIntMap1      = 0x1A
	regIntMap2      = 0x1B
	regIntMap3      = 0x20
	regIntLatch     = 0x21
	regFreefallDur  = 0x22
	regFreefallTh   = 0x23
	regFreefallHy   = 0x24
	regActiveDur    = 0x27
	regActiveTh     = 0x28
	regTapDur       = 0x2A
	regTapTh        = 0x2B
	regOrientHy     = 0x2C
	regZBlock       = 0x2D
	regOffsetX      = 0x38
	regOffsetY      = 0x39
	regOffsetZ      = 0x40
)

// Values written by Connect to enable continuous measurement: normal power
// mode with 500 Hz bandwidth, output data rate 1 kHz.
const (
	defaultPowerBW  = 0x14
	defaultDataRate = byte(DataRate1000Hz)
)

// Range selects the full-scale measurement range (register 0x0F, bits 1:0).
type Range byte

const (
	Range2G  Range = 0b00 // power-on default
	Range4G  Range = 0b01
	Range8G  Range = 0b10
	Range16G Range = 0b11
)

// Resolution selects the output resolution (register 0x0F, bits 3:2).
type Resolution byte

const (
	Res14Bit Resolution = 0b00 // power-on default
	Res12Bit Resolution = 0b01
	Res8Bit  Resolution = 0b11
)

// PowerMode selects the power mode (register 0x11, bits 7:6).
type PowerMode byte

const (
	ModeNormal  PowerMode = 0b00
	ModeLow     PowerMode = 0b01
	ModeSuspend PowerMode = 0b11
)

// DataRate selects the output data rate (register 0x10, 4-bit field). The
// lowest two rates are unavailable in normal power mode, the highest two in
// low power mode.
type DataRate byte

const (
	DataRate1Hz    DataRate = 0b0000
	DataRate1_95Hz DataRate = 0b0001
	DataRate3_9Hz  DataRate = 0b0010
	DataRate7_81Hz DataRate = 0b0011
	DataRate15Hz   DataRate = 0b0100
	DataRate31Hz   DataRate = 0b0101
	DataRate62Hz   DataRate = 0b0110
	DataRate125Hz  DataRate = 0b0111
	DataRate250Hz  DataRate = 0b1000
	DataRate500Hz  DataRate = 0b1001
	DataRate1000Hz DataRate = 0b1111
)

type Axis byte

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// LatchMode controls how long triggered interrupt status bits stay asserted
// (register 0x21, 4-bit field).
type LatchMode byte

const (
	LatchNone      LatchMode = 0b0000
	Latch250ms     LatchMode = 0b0001
	Latch500ms     LatchMode = 0b0010
	Latch1s        LatchMode = 0b0011
	Latch2s        LatchMode = 0b0100
	Latch4s        LatchMode = 0b0101
	Latch8s        LatchMode = 0b0110
	LatchPermanent LatchMode = 0b0111
	Latch1ms       LatchMode = 0b1001
	Latch2ms       LatchMode = 0b1011
	Latch25ms      LatchMode = 0b1100
	Latch50ms      LatchMode = 0b1101
	Latch100ms     LatchMode = 0b1110
)

// TapDuration is the second-shock window of the tap detector (register 0x2A,
// bits 2:0).
type TapDuration byte

const (
	TapDur50ms  TapDuration = 0b000
	TapDur100ms TapDuration = 0b001
	TapDur150ms TapDuration = 0b010
	TapDur200ms TapDuration = 0b011
	TapDur250ms TapDuration = 0b100
	TapDur375ms TapDuration = 0b101
	TapDur500ms TapDuration = 0b110
	TapDur700ms TapDuration = 0b111
)

// Polarity names a bit of the axis polarity-swap register (0x12).
type Polarity byte

const (
	PolaritySwapXY Polarity = 0
	PolarityZ      Polarity = 1
	PolarityY      Polarity = 2
	PolarityX      Polarity = 3
)

// OrientMode selects the symmetry of orientation detection (register 0x2C,
// bits 1:0).
type OrientMode byte

const (
	OrientSymmetrical    OrientMode = 0b00
	OrientHighAsymmetric OrientMode = 0b01
	OrientLowAsymmetric  OrientMode = 0b10
)

// BlockMode selects when orientation updates are blocked (register 0x2C,
// bits 3:2).
type BlockMode byte

const (
	BlockNone     BlockMode = 0b00
	BlockZ        BlockMode = 0b01
	BlockZOrSlope BlockMode = 0b10 // z blocking or slope on any axis > 0.2g
)

// LSB step sizes in g per count, keyed by full-scale range.
var (
	// acceleration output
	accelStep = map[Range]float32{
		Range2G:  0.000244,
		Range4G:  0.000488,
		Range8G:  0.000976,
		Range16G: 0.00195,
	}
	// tap interrupt threshold
	tapStep = map[Range]float32{
		Range2G:  0.0625,
		Range4G:  0.125,
		Range8G:  0.25,
		Range16G: 0.5,
	}
	// active interrupt threshold
	activeStep = map[Range]float32{
		Range2G:  0.00391,
		Range4G:  0.00781,
		Range8G:  0.015625,
		Range16G: 0.03125,
	}
)
