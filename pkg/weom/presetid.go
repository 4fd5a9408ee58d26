// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

// GainRange is the temperature/gain range half of a preset identity.
type GainRange uint16

// Gain ranges.
const (
	GainRangeNotDefined GainRange = iota
	GainRangeR1                   // radiometric 1
	GainRangeR2                   // radiometric 2
	GainRangeR3                   // radiometric 3
	GainRangeHigh
	GainRangeLow
)

// String returns a human-readable name for the gain range.
func (r GainRange) String() string {
	switch r {
	case GainRangeNotDefined:
		return "NOT_DEFINED"
	case GainRangeR1:
		return "R1"
	case GainRangeR2:
		return "R2"
	case GainRangeR3:
		return "R3"
	case GainRangeHigh:
		return "HIGH_GAIN"
	case GainRangeLow:
		return "LOW_GAIN"
	default:
		return "UNKNOWN"
	}
}

// IsRadiometric reports whether the range is calibrated for temperature
// measurement.
func (r GainRange) IsRadiometric() bool {
	switch r {
	case GainRangeR1, GainRangeR2, GainRangeR3:
		return true
	}
	return false
}

// DeviceValue returns the 16-bit register encoding of the gain range.
func (r GainRange) DeviceValue() uint16 {
	switch r {
	case GainRangeR1:
		return 0x00
	case GainRangeR2:
		return 0x01
	case GainRangeR3:
		return 0x02
	case GainRangeHigh:
		return 0x07
	case GainRangeLow:
		return 0x08
	default:
		return 0x0F
	}
}

// GainRangeFromDevice decodes the 16-bit register encoding of a gain range.
func GainRangeFromDevice(deviceValue uint16) (GainRange, error) {
	switch deviceValue {
	case 0x0F:
		return GainRangeNotDefined, nil
	case 0x00:
		return GainRangeR1, nil
	case 0x01:
		return GainRangeR2, nil
	case 0x02:
		return GainRangeR3, nil
	case 0x07:
		return GainRangeHigh, nil
	case 0x08:
		return GainRangeLow, nil
	default:
		return GainRangeNotDefined, ErrInvalidData
	}
}

// Lens is the lens half of a preset identity.
type Lens uint16

// Lenses.
const (
	LensNotDefined Lens = iota
	LensWTC35           // L-WTC-35-11
	LensWTC25           // L-WTC-25-12
	LensWTC14           // L-WTC-14-12
	LensWTC75           // L-WTC-7-12
	LensUser1
	LensUser2
)

// String returns a human-readable name for the lens.
func (l Lens) String() string {
	switch l {
	case LensNotDefined:
		return "NOT_DEFINED"
	case LensWTC35:
		return "WTC_35"
	case LensWTC25:
		return "WTC_25"
	case LensWTC14:
		return "WTC_14"
	case LensWTC75:
		return "WTC_7_5"
	case LensUser1:
		return "USER_1"
	case LensUser2:
		return "USER_2"
	default:
		return "UNKNOWN"
	}
}

// IsUserDefined reports whether the lens is a user calibration slot.
func (l Lens) IsUserDefined() bool {
	return l == LensUser1 || l == LensUser2
}

// DeviceValue returns the 16-bit register encoding of the lens.
func (l Lens) DeviceValue() uint16 {
	switch l {
	case LensWTC35:
		return 0x00
	case LensWTC25:
		return 0x01
	case LensWTC14:
		return 0x02
	case LensWTC75:
		return 0x03
	case LensUser1:
		return 0x07
	case LensUser2:
		return 0x08
	default:
		return 0xF0
	}
}

// LensFromDevice decodes the 16-bit register encoding of a lens.
func LensFromDevice(deviceValue uint16) (Lens, error) {
	switch deviceValue {
	case 0xF0:
		return LensNotDefined, nil
	case 0x00:
		return LensWTC35, nil
	case 0x01:
		return LensWTC25, nil
	case 0x02:
		return LensWTC14, nil
	case 0x03:
		return LensWTC75, nil
	case 0x07:
		return LensUser1, nil
	case 0x08:
		return LensUser2, nil
	default:
		return LensNotDefined, ErrInvalidData
	}
}

// PresetID identifies a calibration preset as a gain range and lens pair.
type PresetID struct {
	Range GainRange
	Lens  Lens
}
