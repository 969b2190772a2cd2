// Package as3935 talks to the AS3935 lightning-detector chip over a register
// bus. The real implementation uses I2C via periph.io; the fake implements
// the register file in memory for testing.
package as3935

import "fmt"

// Bus is the raw register transport. Both operations are fallible; callers
// decide whether a failure is worth acting on.
type Bus interface {
	// ReadRegister returns the byte at addr.
	ReadRegister(addr byte) (byte, error)

	// WriteRegister stores value at addr.
	WriteRegister(addr, value byte) error

	// Close releases the bus.
	Close() error
}

// Device layers the chip's semantic operations over a Bus. Field updates
// read-modify-write so neighboring fields in the same register survive.
type Device struct {
	bus Bus
}

// NewDevice wraps the given bus.
func NewDevice(bus Bus) *Device {
	return &Device{bus: bus}
}

// Close releases the underlying bus.
func (d *Device) Close() error {
	return d.bus.Close()
}

func (d *Device) updateField(addr, mask, value byte) error {
	cur, err := d.bus.ReadRegister(addr)
	if err != nil {
		return fmt.Errorf("read reg 0x%02x: %w", addr, err)
	}
	next := (cur &^ mask) | (value & mask)
	if err := d.bus.WriteRegister(addr, next); err != nil {
		return fmt.Errorf("write reg 0x%02x: %w", addr, err)
	}
	return nil
}

// SetPowerDown sets or clears the PWD bit.
func (d *Device) SetPowerDown(down bool) error {
	var v byte
	if down {
		v = BitPowerDown
	}
	return d.updateField(RegAFEGain, BitPowerDown, v)
}

// SetTuneCap programs the antenna tuning capacitor (0..15).
func (d *Device) SetTuneCap(tc uint8) error {
	if tc > 15 {
		return fmt.Errorf("tune cap %d out of range 0..15", tc)
	}
	return d.updateField(RegTuning, MaskTuneCap, tc)
}

// TuneCap reads back the programmed tuning capacitor value.
func (d *Device) TuneCap() (uint8, error) {
	v, err := d.bus.ReadRegister(RegTuning)
	if err != nil {
		return 0, fmt.Errorf("read reg 0x%02x: %w", RegTuning, err)
	}
	return v & MaskTuneCap, nil
}

// PoweredDown reads back the PWD bit.
func (d *Device) PoweredDown() (bool, error) {
	v, err := d.bus.ReadRegister(RegAFEGain)
	if err != nil {
		return false, fmt.Errorf("read reg 0x%02x: %w", RegAFEGain, err)
	}
	return v&BitPowerDown != 0, nil
}

// SetFrequencyDivider programs the LCO output division ratio.
func (d *Device) SetFrequencyDivider(div FreqDivider) error {
	return d.updateField(RegInt, MaskLCOFdiv, byte(div)<<ShiftLCOFdiv)
}

// RouteOscillatorToInterruptPin enables or disables DISP_LCO, which replaces
// detection interrupts on the pin with the divided oscillator output.
func (d *Device) RouteOscillatorToInterruptPin(on bool) error {
	var v byte
	if on {
		v = BitDispLCO
	}
	return d.updateField(RegTuning, BitDispLCO, v)
}

// InterruptReason reads the INT field. Reading it also clears the chip's
// latched interrupt. The register is not valid until ~2 ms after the
// physical edge; callers are responsible for that delay.
func (d *Device) InterruptReason() (byte, error) {
	v, err := d.bus.ReadRegister(RegInt)
	if err != nil {
		return 0, fmt.Errorf("read reg 0x%02x: %w", RegInt, err)
	}
	return v & MaskInt, nil
}

// PresetDefaults issues the PRESET_DEFAULT direct command, resetting all
// registers to datasheet defaults.
func (d *Device) PresetDefaults() error {
	if err := d.bus.WriteRegister(RegPresetDflt, DirectCommand); err != nil {
		return fmt.Errorf("preset defaults: %w", err)
	}
	return nil
}

// CalibrateRCO issues the CALIB_RCO direct command, starting the internal
// RC-oscillator calibration.
func (d *Device) CalibrateRCO() error {
	if err := d.bus.WriteRegister(RegCalibRCO, DirectCommand); err != nil {
		return fmt.Errorf("calibrate rco: %w", err)
	}
	return nil
}
