// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

// MemoryType identifies the backing storage of a memory region.
type MemoryType uint8

// Memory types.
const (
	MemoryTypeRegisters MemoryType = 1 << 0 // RAM-backed register image
	MemoryTypeFlash     MemoryType = 1 << 1 // persistent copy in flash
)

// Top-level memory regions.
var (
	// ConfigurationRegisters is the RAM-backed register window, including
	// the palette name block at its top.
	ConfigurationRegisters = FirstToLast(0x00000000, 0x300040FF)

	// FlashMemory is the persistent memory window.
	FlashMemory = FirstToLast(0xD0000000, 0xDFFFFFFF)
)

// AddressFlashRegistersStart is the base added to a register offset when a
// caller targets the persistent copy instead of the RAM image.
const AddressFlashRegistersStart uint32 = 0xD0000000 + 0x00800000

// Named register ranges.
var (
	// Control - 0x00xx
	RangeDeviceIdentificator = FirstAndSize(0x0000, 4)
	RangeTrigger             = FirstAndSize(0x0004, 4)
	RangeStatus              = FirstAndSize(0x000C, 4)

	// General - 0x01xx
	RangeMainFirmwareVersion = FirstAndSize(0x0100, 4)
	RangeSerialNumber        = FirstAndSize(0x0114, 32)
	RangeArticleNumber       = FirstAndSize(0x0134, 32)

	// Video - 0x02xx
	RangePaletteIndex = FirstAndSize(0x0200, 4)
	RangeFrameRate    = FirstAndSize(0x0204, 4)
	RangeImageFlip    = FirstAndSize(0x0208, 4)
	RangeImageFreeze  = FirstAndSize(0x020C, 4)
	RangeTestPattern  = FirstAndSize(0x0214, 4)

	// NUC - 0x03xx
	RangeNucUpdateMode = FirstAndSize(0x0308, 4)
	RangeNucMaxPeriod  = FirstAndSize(0x0320, 4)

	// Filters - 0x06xx
	RangeTimeDomainAverage     = FirstAndSize(0x0600, 4)
	RangeImageEqualizationType = FirstAndSize(0x0604, 4)
	RangeMgcContrastBrightness = FirstAndSize(0x0608, 4)
	RangeAgcNhSmoothing        = FirstAndSize(0x0610, 4)
	RangeSpatialMedianFilter   = FirstAndSize(0x0614, 4)

	// Presets - 0x0Axx
	RangeSelectedPresetID = FirstAndSize(0x0A14, 4)
	RangeCurrentPresetID  = FirstAndSize(0x0A18, 4)

	// Palette names - 16 entries of 16 bytes at the top of the window.
	RangePaletteNames = FirstAndSize(0x30004000, PaletteCount*PaletteNameSize)
)

// Palette name table dimensions.
const (
	PaletteCount    = 16
	PaletteNameSize = 16
)

// MemoryDescriptor governs alignment and chunking for one memory region.
type MemoryDescriptor struct {
	Range       AddressRange
	Type        MemoryType
	MinDataSize uint32
	MaxDataSize uint32
}

// NewMemoryDescriptor builds a descriptor with the transfer size limits of
// the given memory type. All regions today are 4-byte aligned with 4-byte
// transfers.
func NewMemoryDescriptor(addressRange AddressRange, memoryType MemoryType) MemoryDescriptor {
	return MemoryDescriptor{
		Range:       addressRange,
		Type:        memoryType,
		MinDataSize: minimumDataSize(memoryType),
		MaxDataSize: maximumDataSize(memoryType),
	}
}

func minimumDataSize(memoryType MemoryType) uint32 {
	switch memoryType {
	case MemoryTypeRegisters, MemoryTypeFlash:
		return 4
	}
	panic("weom: unknown memory type")
}

func maximumDataSize(memoryType MemoryType) uint32 {
	switch memoryType {
	case MemoryTypeRegisters, MemoryTypeFlash:
		return 4
	}
	panic("weom: unknown memory type")
}

// MemorySpace is an ordered, non-overlapping collection of memory
// descriptors.
type MemorySpace struct {
	descriptors []MemoryDescriptor
}

// NewMemorySpace builds a memory space from descriptors.
func NewMemorySpace(descriptors ...MemoryDescriptor) MemorySpace {
	return MemorySpace{descriptors: descriptors}
}

// DeviceSpace returns the WEOM memory layout: the configuration register
// window and the flash window.
func DeviceSpace() MemorySpace {
	return NewMemorySpace(
		NewMemoryDescriptor(ConfigurationRegisters, MemoryTypeRegisters),
		NewMemoryDescriptor(FlashMemory, MemoryTypeFlash),
	)
}

// Descriptor returns the descriptor whose region fully contains
// addressRange. Ranges are disjoint, so the scan order does not matter.
func (s MemorySpace) Descriptor(addressRange AddressRange) (MemoryDescriptor, error) {
	for _, descriptor := range s.descriptors {
		if descriptor.Range.ContainsRange(addressRange) {
			return descriptor, nil
		}
	}
	return MemoryDescriptor{}, ErrInvalidMemoryAddress
}

// Descriptors returns all descriptors in order.
func (s MemorySpace) Descriptors() []MemoryDescriptor {
	return s.descriptors
}
