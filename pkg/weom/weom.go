// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import (
	"github.com/workswell/weomlink/pkg/tcsi"
)

// WEOM identificator signature returned by the first register word.
var weomSignature = [3]byte{0x57, 0x06, 0x4D}

// WEOM is the typed facade over a camera core. It owns the protocol engine
// and device engine built when a data link is attached.
type WEOM struct {
	opts     []DeviceOption
	protocol *tcsi.Protocol
	device   *Device
}

// New creates a facade with no data link attached. The options are applied
// to the device engine built by SetDataLink.
func New(opts ...DeviceOption) *WEOM {
	return &WEOM{opts: opts}
}

// SetDataLink attaches link to the protocol engine, builds a fresh device
// engine over it and verifies the device identificator signature. Any
// previous link is closed by the protocol engine it belonged to.
func (w *WEOM) SetDataLink(link tcsi.DataLink) error {
	if w.protocol == nil {
		w.protocol = tcsi.NewProtocol()
	}
	w.protocol.SetDataLink(link)

	w.device = NewDevice(w.protocol, w.opts...)

	ident, err := w.device.ReadRange(RangeDeviceIdentificator)
	if err != nil {
		return err
	}
	if ident[0] != weomSignature[0] || ident[1] != weomSignature[1] || ident[2] != weomSignature[2] {
		return ErrUnknownDevice
	}
	return nil
}

// Device returns the underlying device engine for raw register access, or
// nil before SetDataLink.
func (w *WEOM) Device() *Device {
	return w.device
}

// IsConnectionLost reports the protocol engine's sticky disconnection flag.
func (w *WEOM) IsConnectionLost() bool {
	return w.protocol != nil && w.protocol.IsConnectionLost()
}

// registerAddress resolves a register range to its RAM image address or to
// its persistent copy in flash.
func registerAddress(addressRange AddressRange, memoryType MemoryType) uint32 {
	if memoryType == MemoryTypeFlash {
		return AddressFlashRegistersStart + addressRange.First()
	}
	return addressRange.First()
}

func (w *WEOM) readRegister(addressRange AddressRange) ([]byte, error) {
	if w.device == nil {
		return nil, ErrNoProtocol
	}
	return w.device.ReadRange(addressRange)
}

func (w *WEOM) writeRegister(addressRange AddressRange, memoryType MemoryType, data []byte) error {
	if w.device == nil {
		return ErrNoProtocol
	}
	return w.device.WriteData(data, registerAddress(addressRange, memoryType))
}

// writeRegisterWord writes one 32-bit register in the device byte order.
func (w *WEOM) writeRegisterWord(addressRange AddressRange, memoryType MemoryType, value uint32) error {
	if w.device == nil {
		return ErrNoProtocol
	}
	data := make([]byte, 4)
	w.device.ByteOrder().PutUint32(data, value)
	return w.writeRegister(addressRange, memoryType, data)
}

// Status reads and decodes the status register.
func (w *WEOM) Status() (Status, error) {
	data, err := w.readRegister(RangeStatus)
	if err != nil {
		return Status{}, err
	}
	return NewStatus(w.device.ByteOrder().Uint32(data)), nil
}

// Triggers reads the trigger register: which one-shot actions are still
// executing.
func (w *WEOM) Triggers() (Triggers, error) {
	data, err := w.readRegister(RangeTrigger)
	if err != nil {
		return Triggers{}, err
	}
	return NewTriggers(w.device.ByteOrder().Uint32(data)), nil
}

// ActivateTrigger fires a one-shot device action.
func (w *WEOM) ActivateTrigger(trigger Trigger) error {
	return w.writeRegisterWord(RangeTrigger, MemoryTypeRegisters, uint32(trigger))
}

// SerialNumber reads the device serial number.
func (w *WEOM) SerialNumber() (string, error) {
	data, err := w.readRegister(RangeSerialNumber)
	if err != nil {
		return "", err
	}
	return cString(data), nil
}

// ArticleNumber reads the device article number.
func (w *WEOM) ArticleNumber() (string, error) {
	data, err := w.readRegister(RangeArticleNumber)
	if err != nil {
		return "", err
	}
	return cString(data), nil
}

// FirmwareVersion reads the main firmware version.
func (w *WEOM) FirmwareVersion() (FirmwareVersion, error) {
	data, err := w.readRegister(RangeMainFirmwareVersion)
	if err != nil {
		return FirmwareVersion{}, err
	}
	return FirmwareVersion{
		Major: data[3],
		Minor: data[2],
		Patch: uint16(data[1])<<8 | uint16(data[0]),
	}, nil
}

// PaletteIndex reads the current palette index.
func (w *WEOM) PaletteIndex() (uint8, error) {
	data, err := w.readRegister(RangePaletteIndex)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// SetPaletteIndex selects a palette.
func (w *WEOM) SetPaletteIndex(index uint8, memoryType MemoryType) error {
	return w.writeRegisterWord(RangePaletteIndex, memoryType, uint32(index))
}

// PaletteName reads the name of the palette at index.
func (w *WEOM) PaletteName(index uint8) (string, error) {
	if index >= PaletteCount {
		return "", ErrInvalidData
	}
	if w.device == nil {
		return "", ErrNoProtocol
	}

	entry := FirstAndSize(RangePaletteNames.First()+uint32(index)*PaletteNameSize, PaletteNameSize)
	data, err := w.device.ReadRange(entry)
	if err != nil {
		return "", err
	}
	return cString(data), nil
}

// Framerate reads the sensor output rate.
func (w *WEOM) Framerate() (Framerate, error) {
	data, err := w.readRegister(RangeFrameRate)
	if err != nil {
		return 0, err
	}
	return Framerate(data[0]), nil
}

// SetFramerate sets the sensor output rate.
func (w *WEOM) SetFramerate(framerate Framerate, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeFrameRate, memoryType, uint32(framerate))
}

// ImageFlip reads the image mirroring setting.
func (w *WEOM) ImageFlip() (ImageFlip, error) {
	data, err := w.readRegister(RangeImageFlip)
	if err != nil {
		return ImageFlip{}, err
	}
	return ImageFlip{
		Vertical:   data[0]&imageFlipVerticalBit != 0,
		Horizontal: data[0]&imageFlipHorizontalBit != 0,
	}, nil
}

// SetImageFlip sets the image mirroring.
func (w *WEOM) SetImageFlip(flip ImageFlip) error {
	var value uint32
	if flip.Vertical {
		value |= imageFlipVerticalBit
	}
	if flip.Horizontal {
		value |= imageFlipHorizontalBit
	}
	return w.writeRegisterWord(RangeImageFlip, MemoryTypeRegisters, value)
}

// ImageFreeze reads whether the image is frozen.
func (w *WEOM) ImageFreeze() (bool, error) {
	data, err := w.readRegister(RangeImageFreeze)
	if err != nil {
		return false, err
	}
	return data[0] == 1, nil
}

// SetImageFreeze freezes or unfreezes the image.
func (w *WEOM) SetImageFreeze(freeze bool) error {
	var value uint32
	if freeze {
		value = 1
	}
	return w.writeRegisterWord(RangeImageFreeze, MemoryTypeRegisters, value)
}

// ImageGenerator reads the video source selection.
func (w *WEOM) ImageGenerator() (ImageGenerator, error) {
	data, err := w.readRegister(RangeTestPattern)
	if err != nil {
		return 0, err
	}
	return ImageGenerator(data[0]), nil
}

// SetImageGenerator selects the video source.
func (w *WEOM) SetImageGenerator(generator ImageGenerator) error {
	return w.writeRegisterWord(RangeTestPattern, MemoryTypeRegisters, uint32(generator))
}

// ShutterUpdateMode reads how shutter updates are scheduled.
func (w *WEOM) ShutterUpdateMode() (ShutterUpdateMode, error) {
	data, err := w.readRegister(RangeNucUpdateMode)
	if err != nil {
		return 0, err
	}
	return ShutterUpdateMode(data[0]), nil
}

// SetShutterUpdateMode sets the shutter update scheduling.
func (w *WEOM) SetShutterUpdateMode(mode ShutterUpdateMode, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeNucUpdateMode, memoryType, uint32(mode))
}

// ShutterMaxPeriod reads the maximum seconds between shutter updates.
func (w *WEOM) ShutterMaxPeriod() (uint16, error) {
	data, err := w.readRegister(RangeNucMaxPeriod)
	if err != nil {
		return 0, err
	}
	return w.device.ByteOrder().Uint16(data[:2]), nil
}

// SetShutterMaxPeriod sets the maximum seconds between shutter updates.
func (w *WEOM) SetShutterMaxPeriod(period uint16, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeNucMaxPeriod, memoryType, uint32(period))
}

// TimeDomainAveraging reads the temporal filtering depth.
func (w *WEOM) TimeDomainAveraging() (TimeDomainAveraging, error) {
	data, err := w.readRegister(RangeTimeDomainAverage)
	if err != nil {
		return 0, err
	}
	return TimeDomainAveraging(data[0]), nil
}

// SetTimeDomainAveraging sets the temporal filtering depth.
func (w *WEOM) SetTimeDomainAveraging(averaging TimeDomainAveraging, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeTimeDomainAverage, memoryType, uint32(averaging))
}

// ImageEqualizationType reads the gain control selection.
func (w *WEOM) ImageEqualizationType() (ImageEqualizationType, error) {
	data, err := w.readRegister(RangeImageEqualizationType)
	if err != nil {
		return 0, err
	}
	return ImageEqualizationType(data[0]), nil
}

// SetImageEqualizationType selects automatic or manual gain control.
func (w *WEOM) SetImageEqualizationType(equalization ImageEqualizationType, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeImageEqualizationType, memoryType, uint32(equalization))
}

// MgcContrastBrightness reads the manual gain control setting.
func (w *WEOM) MgcContrastBrightness() (ContrastBrightness, error) {
	data, err := w.readRegister(RangeMgcContrastBrightness)
	if err != nil {
		return ContrastBrightness{}, err
	}
	order := w.device.ByteOrder()
	return NewContrastBrightnessRaw(order.Uint16(data[0:2]), order.Uint16(data[2:4])), nil
}

// SetMgcContrastBrightness sets the manual gain control contrast and
// brightness.
func (w *WEOM) SetMgcContrastBrightness(setting ContrastBrightness, memoryType MemoryType) error {
	if w.device == nil {
		return ErrNoProtocol
	}
	data := make([]byte, 4)
	order := w.device.ByteOrder()
	order.PutUint16(data[0:2], setting.ContrastRaw())
	order.PutUint16(data[2:4], setting.BrightnessRaw())
	return w.writeRegister(RangeMgcContrastBrightness, memoryType, data)
}

// AgcNhSmoothingFrames reads the AGC NH smoothing frame count.
func (w *WEOM) AgcNhSmoothingFrames() (uint8, error) {
	data, err := w.readRegister(RangeAgcNhSmoothing)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// SetAgcNhSmoothingFrames sets the AGC NH smoothing frame count.
func (w *WEOM) SetAgcNhSmoothingFrames(frames uint8, memoryType MemoryType) error {
	return w.writeRegisterWord(RangeAgcNhSmoothing, memoryType, uint32(frames))
}

// SpatialMedianFilterEnabled reads whether the spatial median filter is on.
func (w *WEOM) SpatialMedianFilterEnabled() (bool, error) {
	data, err := w.readRegister(RangeSpatialMedianFilter)
	if err != nil {
		return false, err
	}
	return data[0] == 1, nil
}

// SetSpatialMedianFilterEnabled switches the spatial median filter.
func (w *WEOM) SetSpatialMedianFilterEnabled(enabled bool, memoryType MemoryType) error {
	var value uint32
	if enabled {
		value = 1
	}
	return w.writeRegisterWord(RangeSpatialMedianFilter, memoryType, value)
}

// PresetID reads the currently active preset identity.
func (w *WEOM) PresetID() (PresetID, error) {
	data, err := w.readRegister(RangeCurrentPresetID)
	if err != nil {
		return PresetID{}, err
	}

	order := w.device.ByteOrder()
	gainRange, err := GainRangeFromDevice(order.Uint16(data[0:2]))
	if err != nil {
		return PresetID{}, err
	}
	lens, err := LensFromDevice(order.Uint16(data[2:4]))
	if err != nil {
		return PresetID{}, err
	}

	return PresetID{Range: gainRange, Lens: lens}, nil
}

// SetPresetID writes the preset selection and fires the trigger that makes
// it current.
func (w *WEOM) SetPresetID(preset PresetID) error {
	if w.device == nil {
		return ErrNoProtocol
	}

	data := make([]byte, 4)
	order := w.device.ByteOrder()
	order.PutUint16(data[0:2], preset.Range.DeviceValue())
	order.PutUint16(data[2:4], preset.Lens.DeviceValue())

	if err := w.writeRegister(RangeSelectedPresetID, MemoryTypeRegisters, data); err != nil {
		return err
	}
	return w.ActivateTrigger(TriggerSetSelectedPreset)
}

// cString interprets register bytes as a NUL-terminated string.
func cString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
