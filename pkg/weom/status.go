// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

// DeviceType identifies which program the camera core is running.
type DeviceType uint8

// Device types.
const (
	DeviceTypeMainUser  DeviceType = iota // main program in user mode
	DeviceTypeMainAdmin                   // main program in admin mode
	DeviceTypeLoader                      // loader
)

// String returns a human-readable name for the device type.
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeMainUser:
		return "MAIN_USER"
	case DeviceTypeMainAdmin:
		return "MAIN_ADMIN"
	case DeviceTypeLoader:
		return "LOADER"
	default:
		return "UNKNOWN"
	}
}

// BayonetState describes the lens bayonet connection.
type BayonetState uint8

// Bayonet states.
const (
	BayonetUnknownState     BayonetState = 0b00
	BayonetDisconnected     BayonetState = 0b01
	BayonetConnectedUnknown BayonetState = 0b10
	BayonetConnectedKnown   BayonetState = 0b11
)

// String returns a human-readable name for the bayonet state.
func (s BayonetState) String() string {
	switch s {
	case BayonetUnknownState:
		return "UNKNOWN_STATE"
	case BayonetDisconnected:
		return "DISCONNECTED"
	case BayonetConnectedUnknown:
		return "CONNECTED_UNKNOWN"
	case BayonetConnectedKnown:
		return "CONNECTED_KNOWN"
	default:
		return "UNKNOWN"
	}
}

// Status is the decoded device status register.
type Status struct {
	value uint32
}

// NewStatus wraps a raw status register word.
func NewStatus(value uint32) Status {
	return Status{value: value}
}

// Value returns the raw register word.
func (s Status) Value() uint32 {
	return s.value
}

// IsNucActive reports whether a NUC update is in progress.
func (s Status) IsNucActive() bool {
	return s.value&(1<<0) != 0
}

// IsCameraNotReady reports whether the camera is still starting up.
func (s Status) IsCameraNotReady() bool {
	return s.value&(1<<1) != 0
}

// IsValidTfpa reports whether the FPA temperature reading is valid.
func (s Status) IsValidTfpa() bool {
	return s.value&(1<<2) != 0
}

// DeviceType returns which program the core is running.
func (s Status) DeviceType() DeviceType {
	return DeviceType((s.value >> 3) & 0b11)
}

// IsMotorfocusBusy reports whether the motorfocus is busy.
func (s Status) IsMotorfocusBusy() bool {
	return s.value&(1<<5) != 0
}

// IsMotorfocusAvailable reports whether a motorfocus is fitted.
func (s Status) IsMotorfocusAvailable() bool {
	return s.value&(1<<6) != 0
}

// BayonetState returns the lens bayonet connection state.
func (s Status) BayonetState() BayonetState {
	return BayonetState((s.value >> 7) & 0b11)
}

// IsMotorfocusRunning reports whether the motorfocus is moving.
func (s Status) IsMotorfocusRunning() bool {
	return s.value&(1<<9) != 0
}

// IsMotorfocusPositionReached reports whether the last focus move finished.
func (s Status) IsMotorfocusPositionReached() bool {
	return s.value&(1<<10) != 0
}

// IsAnyTriggerActive reports whether any trigger is still executing.
func (s Status) IsAnyTriggerActive() bool {
	return s.value&(1<<11) != 0
}

// NucRegistersChanged reports unsaved NUC register changes.
func (s Status) NucRegistersChanged() bool {
	return s.value&(1<<27) != 0
}

// BolometerRegistersChanged reports unsaved bolometer register changes.
func (s Status) BolometerRegistersChanged() bool {
	return s.value&(1<<28) != 0
}

// FocusRegistersChanged reports unsaved focus register changes.
func (s Status) FocusRegistersChanged() bool {
	return s.value&(1<<30) != 0
}

// PresetsRegistersChanged reports unsaved preset register changes.
func (s Status) PresetsRegistersChanged() bool {
	return s.value&(1<<31) != 0
}
