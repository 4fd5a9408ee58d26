// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/workswell/weomlink/pkg/tcsi"
)

// Protocol is the transfer contract the device engine drives. *tcsi.Protocol
// satisfies it.
type Protocol interface {
	MaxDataSize() uint32
	ReadData(buf []byte, address uint32, timeout time.Duration) error
	WriteData(data []byte, address uint32, timeout time.Duration) error
}

// Endianness is the byte order of integer values in device payloads. The
// frame header address is always little-endian regardless of this setting.
type Endianness uint8

// Device endianness values.
const (
	LittleEndian Endianness = iota
	BigEndian
)

// Transfer budget defaults, matching the camera firmware expectations.
const (
	// DefaultTransferTimeout bounds one protocol transaction.
	DefaultTransferTimeout = 1 * time.Second
	// DefaultBusyDelay is slept after each CAMERA_NOT_READY response.
	DefaultBusyDelay = 500 * time.Millisecond
	// DefaultBusyTimeout is the total busy budget of one logical operation.
	DefaultBusyTimeout = 10 * time.Second
)

// maxErrorsInWindow is how many failures the 8-attempt sliding window
// tolerates before the device is considered disconnected.
const maxErrorsInWindow = 4

// Device chunks logical register reads and writes per the memory-space
// descriptor table and retries transient errors within a sliding error
// window and a total busy budget.
type Device struct {
	protocol   Protocol
	space      MemorySpace
	clock      clockwork.Clock
	endianness Endianness

	timeout     time.Duration
	busyDelay   time.Duration
	busyTimeout time.Duration
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithMemorySpace replaces the descriptor table.
func WithMemorySpace(space MemorySpace) DeviceOption {
	return func(d *Device) {
		d.space = space
	}
}

// WithEndianness sets the payload integer byte order.
func WithEndianness(endianness Endianness) DeviceOption {
	return func(d *Device) {
		d.endianness = endianness
	}
}

// WithDeviceClock replaces the wall clock, mainly for tests.
func WithDeviceClock(clock clockwork.Clock) DeviceOption {
	return func(d *Device) {
		d.clock = clock
	}
}

// WithTransferTimeout sets the per-transaction timeout.
func WithTransferTimeout(timeout time.Duration) DeviceOption {
	return func(d *Device) {
		d.timeout = timeout
	}
}

// WithBusyBackoff sets the delay slept after a busy response and the total
// busy budget after which an operation gives up.
func WithBusyBackoff(delay, total time.Duration) DeviceOption {
	return func(d *Device) {
		d.busyDelay = delay
		d.busyTimeout = total
	}
}

// NewDevice creates a device engine over protocol with the standard WEOM
// memory space and little-endian payloads.
func NewDevice(protocol Protocol, opts ...DeviceOption) *Device {
	d := &Device{
		protocol:    protocol,
		space:       DeviceSpace(),
		clock:       clockwork.NewRealClock(),
		endianness:  LittleEndian,
		timeout:     DefaultTransferTimeout,
		busyDelay:   DefaultBusyDelay,
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MemorySpace returns the descriptor table in use.
func (d *Device) MemorySpace() MemorySpace {
	return d.space
}

// ByteOrder returns the binary.ByteOrder matching the device endianness,
// for decoding integer fields out of register payloads.
func (d *Device) ByteOrder() binary.ByteOrder {
	if d.endianness == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ReadData reads len(buf) bytes starting at address, splitting the transfer
// into aligned chunks and retrying transient failures. Partial progress is
// preserved across chunks.
func (d *Device) ReadData(buf []byte, address uint32) error {
	descriptor, err := d.descriptorWithChecks(address, len(buf))
	if err != nil {
		return err
	}

	maxChunk := d.maxChunkSize(descriptor)
	var window errorWindow
	var busyTotal time.Duration

	rest := buf
	current := address
	for len(rest) > 0 {
		n := len(rest)
		if n > maxChunk {
			n = maxChunk
		}

		err := d.protocol.ReadData(rest[:n], current, d.timeout)
		window.shift()
		if err == nil {
			current += uint32(n)
			rest = rest[n:]
			continue
		}

		if err := d.handleTransferError(err, &window, &busyTotal); err != nil {
			return err
		}
	}

	return nil
}

// WriteData writes data starting at address with the same chunking and
// retry discipline as ReadData.
func (d *Device) WriteData(data []byte, address uint32) error {
	descriptor, err := d.descriptorWithChecks(address, len(data))
	if err != nil {
		return err
	}

	maxChunk := d.maxChunkSize(descriptor)
	var window errorWindow
	var busyTotal time.Duration

	rest := data
	current := address
	for len(rest) > 0 {
		n := len(rest)
		if n > maxChunk {
			n = maxChunk
		}

		err := d.protocol.WriteData(rest[:n], current, d.timeout)
		window.shift()
		if err == nil {
			current += uint32(n)
			rest = rest[n:]
			continue
		}

		if err := d.handleTransferError(err, &window, &busyTotal); err != nil {
			return err
		}
	}

	return nil
}

// ReadRange reads a whole named register range.
func (d *Device) ReadRange(addressRange AddressRange) ([]byte, error) {
	buf := make([]byte, addressRange.Size())
	if err := d.ReadData(buf, addressRange.First()); err != nil {
		return nil, err
	}
	return buf, nil
}

// handleTransferError classifies one failed chunk attempt. A nil return
// means the chunk should be retried.
func (d *Device) handleTransferError(err error, window *errorWindow, busyTotal *time.Duration) error {
	switch {
	case errors.Is(err, tcsi.ErrTimeout),
		errors.Is(err, tcsi.ErrInvalidSize),
		errors.Is(err, tcsi.ErrInvalidSync),
		errors.Is(err, tcsi.ErrInvalidStatusOrCommand),
		errors.Is(err, tcsi.ErrInvalidChecksum),
		errors.Is(err, tcsi.ErrInvalidResponseAddress),
		errors.Is(err, tcsi.ErrResponseStatus):
		window.markFailure()
		if window.failures() > maxErrorsInWindow {
			return ErrDisconnected
		}
		return nil

	case errors.Is(err, tcsi.ErrDeviceBusy):
		*busyTotal += d.busyDelay
		if *busyTotal >= d.busyTimeout {
			return ErrBusy
		}
		d.clock.Sleep(d.busyDelay)
		return nil

	default:
		return err
	}
}

// descriptorWithChecks runs the pre-transfer checks: a live protocol, a
// non-empty aligned buffer, no address wraparound, and a mapped range.
func (d *Device) descriptorWithChecks(address uint32, size int) (MemoryDescriptor, error) {
	if d.protocol == nil || d.protocol.MaxDataSize() == 0 {
		return MemoryDescriptor{}, ErrNoProtocol
	}
	if size == 0 {
		return MemoryDescriptor{}, ErrInvalidDataSize
	}
	if uint64(size)-1 > uint64(math.MaxUint32-address) {
		return MemoryDescriptor{}, ErrInvalidAddress
	}

	descriptor, err := d.space.Descriptor(FirstAndSize(address, uint32(size)))
	if err != nil {
		return MemoryDescriptor{}, err
	}

	if address%descriptor.MinDataSize != 0 {
		return MemoryDescriptor{}, ErrInvalidAddress
	}
	if uint32(size)%descriptor.MinDataSize != 0 {
		return MemoryDescriptor{}, ErrInvalidDataSize
	}

	return descriptor, nil
}

// maxChunkSize bounds one chunk by the descriptor maximum and by the
// protocol maximum floored to the descriptor alignment.
func (d *Device) maxChunkSize(descriptor MemoryDescriptor) int {
	protocolMax := (d.protocol.MaxDataSize() / descriptor.MinDataSize) * descriptor.MinDataSize
	if descriptor.MaxDataSize < protocolMax {
		return int(descriptor.MaxDataSize)
	}
	return int(protocolMax)
}

// errorWindow is a sliding record of the last eight chunk attempts. Bit 0
// is the most recent attempt; a set bit is a failure.
type errorWindow uint8

func (w *errorWindow) shift() {
	*w <<= 1
}

func (w *errorWindow) markFailure() {
	*w |= 1
}

func (w errorWindow) failures() int {
	return bits.OnesCount8(uint8(w))
}
