package as3935

import "time"

// Register addresses
const (
	RegAFEGain    = 0x00 // AFE_GB [5:1], PWD [0]
	RegNoiseFloor = 0x01 // NF_LEV [6:4], WDTH [3:0]
	RegStats      = 0x02 // CL_STAT [6], MIN_NUM_LIGH [5:4], SREJ [3:0]
	RegInt        = 0x03 // LCO_FDIV [7:6], MASK_DIST [5], INT [3:0]
	RegDistance   = 0x07 // DISTANCE [5:0]
	RegTuning     = 0x08 // DISP_LCO [7], DISP_SRCO [6], DISP_TRCO [5], TUN_CAP [3:0]
	RegPresetDflt = 0x3C // direct command
	RegCalibRCO   = 0x3D // direct command
)

// Field masks and bits
const (
	BitPowerDown byte = 1 << 0

	MaskInt      byte = 0x0F
	MaskLCOFdiv  byte = 0xC0
	ShiftLCOFdiv      = 6

	BitDispLCO  byte = 1 << 7
	MaskTuneCap byte = 0x0F
)

// DirectCommand is the magic value written to RegPresetDflt and RegCalibRCO.
const DirectCommand byte = 0x96

// IntSettleDelay is how long RegInt stays invalid after the physical
// interrupt edge. The datasheet erratum puts the latency at ~2 ms; 3 ms
// leaves margin. Reading sooner returns garbage.
const IntSettleDelay = 3 * time.Millisecond

// Addr is the chip's default I2C address.
const Addr = 0x03

// FreqDivider selects the LCO output division ratio (LCO_FDIV).
type FreqDivider byte

const (
	Div16  FreqDivider = 0
	Div32  FreqDivider = 1
	Div64  FreqDivider = 2
	Div128 FreqDivider = 3
)
