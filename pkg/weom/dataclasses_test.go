// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import (
	"errors"
	"testing"
)

// ============================================================
// Status Register
// ============================================================

func TestStatus_BitDecoding(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		check func(Status) bool
	}{
		{"nuc active", 1 << 0, Status.IsNucActive},
		{"camera not ready", 1 << 1, Status.IsCameraNotReady},
		{"valid tfpa", 1 << 2, Status.IsValidTfpa},
		{"motorfocus busy", 1 << 5, Status.IsMotorfocusBusy},
		{"motorfocus available", 1 << 6, Status.IsMotorfocusAvailable},
		{"motorfocus running", 1 << 9, Status.IsMotorfocusRunning},
		{"motorfocus position reached", 1 << 10, Status.IsMotorfocusPositionReached},
		{"any trigger active", 1 << 11, Status.IsAnyTriggerActive},
		{"nuc registers changed", 1 << 27, Status.NucRegistersChanged},
		{"bolometer registers changed", 1 << 28, Status.BolometerRegistersChanged},
		{"focus registers changed", 1 << 30, Status.FocusRegistersChanged},
		{"presets registers changed", 1 << 31, Status.PresetsRegistersChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(NewStatus(tt.value)) {
				t.Errorf("bit 0x%08X not decoded", tt.value)
			}
			if tt.check(NewStatus(^tt.value)) {
				t.Errorf("complement of 0x%08X decoded as set", tt.value)
			}
		})
	}
}

func TestStatus_FieldDecoding(t *testing.T) {
	if got := NewStatus(0b10 << 3).DeviceType(); got != DeviceTypeLoader {
		t.Errorf("DeviceType() = %v, want LOADER", got)
	}
	if got := NewStatus(0b11 << 7).BayonetState(); got != BayonetConnectedKnown {
		t.Errorf("BayonetState() = %v, want CONNECTED_KNOWN", got)
	}
	if got := NewStatus(0).DeviceType(); got != DeviceTypeMainUser {
		t.Errorf("DeviceType() of zero word = %v, want MAIN_USER", got)
	}
}

// ============================================================
// Triggers
// ============================================================

func TestTriggers(t *testing.T) {
	triggers := NewTriggers(uint32(TriggerNucOffsetUpdate | TriggerPerformAutofocus))

	if !triggers.IsActive(TriggerNucOffsetUpdate) {
		t.Error("NUC offset update should be active")
	}
	if !triggers.IsActive(TriggerPerformAutofocus) {
		t.Error("autofocus should be active")
	}
	if triggers.IsActive(TriggerResetFPGA) {
		t.Error("FPGA reset should not be active")
	}
	if !triggers.IsAnyActive() {
		t.Error("IsAnyActive() should be true")
	}
	if NewTriggers(0).IsAnyActive() {
		t.Error("IsAnyActive() of zero word should be false")
	}
}

// ============================================================
// Preset Identity
// ============================================================

func TestGainRange_DeviceValues(t *testing.T) {
	tests := []struct {
		gainRange GainRange
		device    uint16
	}{
		{GainRangeR1, 0x00},
		{GainRangeR2, 0x01},
		{GainRangeR3, 0x02},
		{GainRangeHigh, 0x07},
		{GainRangeLow, 0x08},
		{GainRangeNotDefined, 0x0F},
	}

	for _, tt := range tests {
		if got := tt.gainRange.DeviceValue(); got != tt.device {
			t.Errorf("%s.DeviceValue() = 0x%02X, want 0x%02X", tt.gainRange, got, tt.device)
		}
		decoded, err := GainRangeFromDevice(tt.device)
		if err != nil {
			t.Errorf("GainRangeFromDevice(0x%02X) error = %v", tt.device, err)
		}
		if decoded != tt.gainRange {
			t.Errorf("GainRangeFromDevice(0x%02X) = %s, want %s", tt.device, decoded, tt.gainRange)
		}
	}

	if _, err := GainRangeFromDevice(0x05); !errors.Is(err, ErrInvalidData) {
		t.Errorf("unknown device value = %v, want ErrInvalidData", err)
	}
}

func TestLens_DeviceValues(t *testing.T) {
	tests := []struct {
		lens   Lens
		device uint16
	}{
		{LensWTC35, 0x00},
		{LensWTC25, 0x01},
		{LensWTC14, 0x02},
		{LensWTC75, 0x03},
		{LensUser1, 0x07},
		{LensUser2, 0x08},
		{LensNotDefined, 0xF0},
	}

	for _, tt := range tests {
		if got := tt.lens.DeviceValue(); got != tt.device {
			t.Errorf("%s.DeviceValue() = 0x%02X, want 0x%02X", tt.lens, got, tt.device)
		}
		decoded, err := LensFromDevice(tt.device)
		if err != nil {
			t.Errorf("LensFromDevice(0x%02X) error = %v", tt.device, err)
		}
		if decoded != tt.lens {
			t.Errorf("LensFromDevice(0x%02X) = %s, want %s", tt.device, decoded, tt.lens)
		}
	}

	if _, err := LensFromDevice(0x55); !errors.Is(err, ErrInvalidData) {
		t.Errorf("unknown device value = %v, want ErrInvalidData", err)
	}
}

func TestGainRange_IsRadiometric(t *testing.T) {
	for _, radiometric := range []GainRange{GainRangeR1, GainRangeR2, GainRangeR3} {
		if !radiometric.IsRadiometric() {
			t.Errorf("%s should be radiometric", radiometric)
		}
	}
	for _, plain := range []GainRange{GainRangeNotDefined, GainRangeHigh, GainRangeLow} {
		if plain.IsRadiometric() {
			t.Errorf("%s should not be radiometric", plain)
		}
	}
}

// ============================================================
// Contrast / Brightness
// ============================================================

func TestContrastBrightness_RawClamping(t *testing.T) {
	setting := NewContrastBrightnessRaw(0x5000, 0x2000)
	if setting.ContrastRaw() != 0x3FFF {
		t.Errorf("contrast = 0x%04X, want clamped 0x3FFF", setting.ContrastRaw())
	}
	if setting.BrightnessRaw() != 0x2000 {
		t.Errorf("brightness = 0x%04X, want 0x2000", setting.BrightnessRaw())
	}
}

func TestContrastBrightness_PercentConversion(t *testing.T) {
	full := NewContrastBrightnessPercent(100, 0)
	if full.ContrastRaw() != 0x3FFF {
		t.Errorf("100%% contrast = 0x%04X, want 0x3FFF", full.ContrastRaw())
	}
	if full.BrightnessRaw() != 0 {
		t.Errorf("0%% brightness = 0x%04X, want 0", full.BrightnessRaw())
	}

	half := NewContrastBrightnessPercent(50, 50)
	if pct := half.ContrastPercent(); pct < 49.9 || pct > 50.1 {
		t.Errorf("round-tripped contrast percent = %f, want ~50", pct)
	}

	clamped := NewContrastBrightnessPercent(150, -5)
	if clamped.ContrastRaw() != 0x3FFF || clamped.BrightnessRaw() != 0 {
		t.Errorf("out-of-range percents not clamped: contrast=0x%04X brightness=0x%04X",
			clamped.ContrastRaw(), clamped.BrightnessRaw())
	}
}

// ============================================================
// Firmware Version
// ============================================================

func TestFirmwareVersion_String(t *testing.T) {
	version := FirmwareVersion{Major: 2, Minor: 1, Patch: 317}
	if version.String() != "2.1.317" {
		t.Errorf("String() = %q, want \"2.1.317\"", version.String())
	}
}
