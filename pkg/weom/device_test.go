// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import (
	"errors"
	"testing"
	"time"

	"github.com/workswell/weomlink/pkg/tcsi"
)

// transferCall records one protocol-level chunk transfer.
type transferCall struct {
	address uint32
	size    int
	write   bool
}

// fakeProtocol is a scripted transfer engine backed by a sparse byte memory.
// The script queue supplies the result of each call; an exhausted queue
// means success.
type fakeProtocol struct {
	maxDataSize uint32
	script      []error
	calls       []transferCall
	memory      map[uint32]byte
}

func newFakeProtocol(maxDataSize uint32) *fakeProtocol {
	return &fakeProtocol{maxDataSize: maxDataSize, memory: make(map[uint32]byte)}
}

func (f *fakeProtocol) load(address uint32, data []byte) {
	for i, b := range data {
		f.memory[address+uint32(i)] = b
	}
}

func (f *fakeProtocol) fail(errs ...error) {
	f.script = append(f.script, errs...)
}

func (f *fakeProtocol) next() error {
	if len(f.script) == 0 {
		return nil
	}
	err := f.script[0]
	f.script = f.script[1:]
	return err
}

func (f *fakeProtocol) MaxDataSize() uint32 {
	return f.maxDataSize
}

func (f *fakeProtocol) ReadData(buf []byte, address uint32, timeout time.Duration) error {
	f.calls = append(f.calls, transferCall{address: address, size: len(buf)})
	if err := f.next(); err != nil {
		return err
	}
	for i := range buf {
		buf[i] = f.memory[address+uint32(i)]
	}
	return nil
}

func (f *fakeProtocol) WriteData(data []byte, address uint32, timeout time.Duration) error {
	f.calls = append(f.calls, transferCall{address: address, size: len(data), write: true})
	if err := f.next(); err != nil {
		return err
	}
	for i, b := range data {
		f.memory[address+uint32(i)] = b
	}
	return nil
}

// wideSpace returns a memory space whose descriptor allows large chunks, for
// exercising the chunk sizing logic beyond the 4-byte register limit.
func wideSpace(min, max uint32) MemorySpace {
	return NewMemorySpace(MemoryDescriptor{
		Range:       FirstToLast(0x00000000, 0x0000FFFF),
		Type:        MemoryTypeRegisters,
		MinDataSize: min,
		MaxDataSize: max,
	})
}

// ============================================================
// Chunking
// ============================================================

func TestReadData_SingleChunk(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.load(0x000C, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	device := NewDevice(protocol)

	buf := make([]byte, 4)
	if err := device.ReadData(buf, 0x000C); err != nil {
		t.Fatalf("ReadData() error = %v", err)
	}
	if buf[0] != 0xDE || buf[3] != 0xEF {
		t.Errorf("payload = % X, want DE AD BE EF", buf)
	}
	if len(protocol.calls) != 1 {
		t.Errorf("issued %d transfers, want 1", len(protocol.calls))
	}
}

func TestReadData_SplitsIntoRegisterChunks(t *testing.T) {
	protocol := newFakeProtocol(255)
	device := NewDevice(protocol)

	// Register descriptors cap transfers at 4 bytes.
	buf := make([]byte, 16)
	if err := device.ReadData(buf, 0x0100); err != nil {
		t.Fatalf("ReadData() error = %v", err)
	}

	if len(protocol.calls) != 4 {
		t.Fatalf("issued %d transfers, want 4", len(protocol.calls))
	}
	for i, call := range protocol.calls {
		wantAddress := 0x0100 + uint32(i)*4
		if call.address != wantAddress || call.size != 4 {
			t.Errorf("transfer %d = (0x%X, %d), want (0x%X, 4)", i, call.address, call.size, wantAddress)
		}
	}
}

func TestReadData_ChunkFlooredToAlignment(t *testing.T) {
	// Protocol can carry 9 bytes; floored to the 4-byte alignment that is 8.
	protocol := newFakeProtocol(9)
	device := NewDevice(protocol, WithMemorySpace(wideSpace(4, 64)))

	buf := make([]byte, 16)
	if err := device.ReadData(buf, 0x0100); err != nil {
		t.Fatalf("ReadData() error = %v", err)
	}

	want := []transferCall{
		{address: 0x0100, size: 8},
		{address: 0x0108, size: 8},
	}
	if len(protocol.calls) != len(want) {
		t.Fatalf("issued %d transfers, want %d", len(protocol.calls), len(want))
	}
	for i, call := range protocol.calls {
		if call.address != want[i].address || call.size != want[i].size {
			t.Errorf("transfer %d = (0x%X, %d), want (0x%X, %d)",
				i, call.address, call.size, want[i].address, want[i].size)
		}
	}
}

func TestWriteData_PreservesChunkOrder(t *testing.T) {
	protocol := newFakeProtocol(255)
	device := NewDevice(protocol)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := device.WriteData(data, 0x0200); err != nil {
		t.Fatalf("WriteData() error = %v", err)
	}

	if len(protocol.calls) != 2 {
		t.Fatalf("issued %d transfers, want 2", len(protocol.calls))
	}
	if protocol.calls[0].address != 0x0200 || protocol.calls[1].address != 0x0204 {
		t.Errorf("chunk addresses = 0x%X, 0x%X, want 0x200, 0x204",
			protocol.calls[0].address, protocol.calls[1].address)
	}
	if protocol.memory[0x0207] != 8 {
		t.Errorf("last byte = %d, want 8", protocol.memory[0x0207])
	}
}

// ============================================================
// Pre-Checks
// ============================================================

func TestReadData_PreCheckErrors(t *testing.T) {
	tests := []struct {
		name    string
		device  *Device
		size    int
		address uint32
		wantErr error
	}{
		{
			name:    "no protocol",
			device:  NewDevice(nil),
			size:    4,
			address: 0x0000,
			wantErr: ErrNoProtocol,
		},
		{
			name:    "protocol with zero capacity",
			device:  NewDevice(newFakeProtocol(0)),
			size:    4,
			address: 0x0000,
			wantErr: ErrNoProtocol,
		},
		{
			name:    "empty buffer",
			device:  NewDevice(newFakeProtocol(255)),
			size:    0,
			address: 0x0000,
			wantErr: ErrInvalidDataSize,
		},
		{
			name:    "address wraparound",
			device:  NewDevice(newFakeProtocol(255)),
			size:    8,
			address: 0xFFFFFFFC,
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "unmapped address",
			device:  NewDevice(newFakeProtocol(255)),
			size:    4,
			address: 0x40000000,
			wantErr: ErrInvalidMemoryAddress,
		},
		{
			name:    "unaligned address",
			device:  NewDevice(newFakeProtocol(255)),
			size:    4,
			address: 0x0002,
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "unaligned size",
			device:  NewDevice(newFakeProtocol(255)),
			size:    6,
			address: 0x0000,
			wantErr: ErrInvalidDataSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.device.ReadData(make([]byte, tt.size), tt.address)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadData() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ============================================================
// Retry Window
// ============================================================

func TestReadData_RecoversFromSporadicErrors(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.load(0x000C, []byte{1, 2, 3, 4})
	// Three bad responses, then the fourth attempt succeeds.
	protocol.fail(tcsi.ErrInvalidChecksum, tcsi.ErrInvalidChecksum, tcsi.ErrInvalidChecksum)

	device := NewDevice(protocol)
	if err := device.ReadData(make([]byte, 4), 0x000C); err != nil {
		t.Fatalf("ReadData() should recover within the error window, got %v", err)
	}
	if len(protocol.calls) != 4 {
		t.Errorf("issued %d attempts, want 4", len(protocol.calls))
	}
}

func TestReadData_DisconnectedAfterErrorBurst(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.fail(
		tcsi.ErrInvalidChecksum,
		tcsi.ErrInvalidChecksum,
		tcsi.ErrInvalidChecksum,
		tcsi.ErrInvalidChecksum,
		tcsi.ErrInvalidChecksum,
	)

	device := NewDevice(protocol)
	err := device.ReadData(make([]byte, 4), 0x000C)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("ReadData() = %v, want ErrDisconnected", err)
	}
	if len(protocol.calls) != 5 {
		t.Errorf("issued %d attempts, want 5 (fifth error exceeds the window)", len(protocol.calls))
	}
}

func TestReadData_TimeoutsCountTowardWindow(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.fail(
		tcsi.ErrTimeout,
		tcsi.ErrTimeout,
		tcsi.ErrTimeout,
		tcsi.ErrTimeout,
		tcsi.ErrTimeout,
	)

	device := NewDevice(protocol)
	if err := device.ReadData(make([]byte, 4), 0x000C); !errors.Is(err, ErrDisconnected) {
		t.Errorf("ReadData() = %v, want ErrDisconnected", err)
	}
}

func TestWriteData_FatalErrorsAreNotRetried(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.fail(tcsi.ErrNoDataLink)

	device := NewDevice(protocol)
	err := device.WriteData([]byte{1, 2, 3, 4}, 0x0004)
	if !errors.Is(err, tcsi.ErrNoDataLink) {
		t.Fatalf("WriteData() = %v, want ErrNoDataLink passed through", err)
	}
	if len(protocol.calls) != 1 {
		t.Errorf("issued %d attempts, want 1", len(protocol.calls))
	}
}

// ============================================================
// Busy Backoff
// ============================================================

func TestWriteData_RecoversFromBusyDevice(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.fail(tcsi.ErrDeviceBusy)

	device := NewDevice(protocol,
		WithBusyBackoff(time.Millisecond, 10*time.Millisecond))

	if err := device.WriteData([]byte{1, 2, 3, 4}, 0x0004); err != nil {
		t.Fatalf("WriteData() should retry after busy, got %v", err)
	}
	if len(protocol.calls) != 2 {
		t.Errorf("issued %d attempts, want 2", len(protocol.calls))
	}
}

func TestWriteData_BusyBudgetExpires(t *testing.T) {
	protocol := newFakeProtocol(255)
	for i := 0; i < 8; i++ {
		protocol.fail(tcsi.ErrDeviceBusy)
	}

	device := NewDevice(protocol,
		WithBusyBackoff(time.Millisecond, 3*time.Millisecond))

	err := device.WriteData([]byte{1, 2, 3, 4}, 0x0004)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("WriteData() = %v, want ErrBusy", err)
	}
	// Budget of 3 delays: the third busy response exhausts it.
	if len(protocol.calls) != 3 {
		t.Errorf("issued %d attempts, want 3", len(protocol.calls))
	}
}

func TestReadData_BusyDoesNotCountTowardErrorWindow(t *testing.T) {
	protocol := newFakeProtocol(255)
	// Alternate busy and checksum failures: only the four checksum errors
	// land in the window, so the transfer still recovers.
	protocol.fail(
		tcsi.ErrDeviceBusy, tcsi.ErrInvalidChecksum,
		tcsi.ErrDeviceBusy, tcsi.ErrInvalidChecksum,
		tcsi.ErrDeviceBusy, tcsi.ErrInvalidChecksum,
		tcsi.ErrDeviceBusy, tcsi.ErrInvalidChecksum,
	)

	device := NewDevice(protocol,
		WithBusyBackoff(time.Millisecond, 100*time.Millisecond))

	if err := device.ReadData(make([]byte, 4), 0x000C); err != nil {
		t.Fatalf("ReadData() = %v, want success", err)
	}
}

// ============================================================
// Range Helpers
// ============================================================

func TestReadRange(t *testing.T) {
	protocol := newFakeProtocol(255)
	protocol.load(RangeStatus.First(), []byte{0x02, 0x00, 0x00, 0x00})

	device := NewDevice(protocol)
	data, err := device.ReadRange(RangeStatus)
	if err != nil {
		t.Fatalf("ReadRange() error = %v", err)
	}
	if len(data) != 4 || data[0] != 0x02 {
		t.Errorf("data = % X, want 02 00 00 00", data)
	}
}

func TestByteOrder(t *testing.T) {
	little := NewDevice(newFakeProtocol(255))
	if got := little.ByteOrder().Uint32([]byte{0x01, 0x02, 0x03, 0x04}); got != 0x04030201 {
		t.Errorf("little-endian Uint32 = 0x%X, want 0x04030201", got)
	}

	big := NewDevice(newFakeProtocol(255), WithEndianness(BigEndian))
	if got := big.ByteOrder().Uint32([]byte{0x01, 0x02, 0x03, 0x04}); got != 0x01020304 {
		t.Errorf("big-endian Uint32 = 0x%X, want 0x01020304", got)
	}
}
