// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package tcsi

import "encoding/binary"

// Packet is a TCSI frame that owns its bytes. Constructed packets always
// pass validation; the only packets that may fail it are ones parsed from
// the wire with NewPacket.
type Packet struct {
	data []byte
}

// NewPacket constructs a packet from raw wire bytes. The slice is copied.
func NewPacket(data []byte) Packet {
	p := Packet{data: make([]byte, len(data))}
	copy(p.data, data)
	return p
}

func createPacket(statusOrCommand byte, packetID uint8, address uint32, payload []byte) Packet {
	data := make([]byte, MinPacketSize+len(payload))

	data[posSyncAndID] = SyncValue | (packetID & packetIDMask)
	data[posStatusOrCommand] = statusOrCommand
	binary.LittleEndian.PutUint32(data[posAddress:posAddress+4], address)
	data[posCount] = byte(len(payload))
	copy(data[posData:], payload)
	data[len(data)-1] = checksum(data)

	return Packet{data: data}
}

// checksum sums every byte before the checksum position, mod 256.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data[:len(data)-1] {
		sum += b
	}
	return sum
}

// CreateReadRequest builds a READ request. The single payload byte carries
// the requested response payload size.
func CreateReadRequest(packetID uint8, address uint32, payloadSize uint8) Packet {
	return createPacket(uint8(CommandRead), packetID, address, []byte{payloadSize})
}

// CreateWriteRequest builds a WRITE request carrying payload. The payload
// must not be empty.
func CreateWriteRequest(packetID uint8, address uint32, payload []byte) Packet {
	return createPacket(uint8(CommandWrite), packetID, address, payload)
}

// CreateBurstStartRequest builds a FLASH_BURST_START request.
func CreateBurstStartRequest(packetID uint8, address uint32) Packet {
	return createPacket(uint8(CommandFlashBurstStart), packetID, address, []byte{0, 0, 0, 1})
}

// CreateBurstEndRequest builds a FLASH_BURST_END request.
func CreateBurstEndRequest(packetID uint8, address uint32) Packet {
	return createPacket(uint8(CommandFlashBurstEnd), packetID, address, nil)
}

// CreateOkResponse builds an OK response carrying payload.
func CreateOkResponse(packetID uint8, address uint32, payload []byte) Packet {
	return createPacket(uint8(StatusOK), packetID, address, payload)
}

// CreateErrorResponse builds an error response with an empty payload.
func CreateErrorResponse(packetID uint8, address uint32, status Status) Packet {
	return createPacket(uint8(status), packetID, address, nil)
}

// Validate checks the frame structure: minimum size, synchronization
// nibble, known status or command byte, count byte against the observed
// payload size, and the checksum. The first violated invariant wins.
func (p Packet) Validate() error {
	if len(p.data) < MinPacketSize {
		return ErrInvalidSize
	}
	if p.data[posSyncAndID]&syncMask != SyncValue {
		return ErrInvalidSync
	}
	b := p.data[posStatusOrCommand]
	if !isCommand(b) && !isStatus(b) {
		return ErrInvalidStatusOrCommand
	}
	if int(p.data[posCount]) != len(p.data)-MinPacketSize {
		return ErrInvalidSize
	}
	if p.data[len(p.data)-1] != checksum(p.data) {
		return ErrInvalidChecksum
	}
	return nil
}

// ValidateAsRequest checks the frame as a request: the status/command byte
// must be a command, and the payload size must match the command's shape
// (READ one byte, WRITE at least one, FLASH_BURST_START four,
// FLASH_BURST_END none).
func (p Packet) ValidateAsRequest() error {
	if err := p.Validate(); err != nil {
		return err
	}

	n := len(p.payload())
	switch Command(p.data[posStatusOrCommand]) {
	case CommandRead:
		if n != 1 {
			return ErrInvalidSize
		}
	case CommandWrite:
		if n == 0 {
			return ErrInvalidSize
		}
	case CommandFlashBurstStart:
		if n != 4 {
			return ErrInvalidSize
		}
	case CommandFlashBurstEnd:
		if n != 0 {
			return ErrInvalidSize
		}
	default:
		return ErrInvalidStatusOrCommand
	}
	return nil
}

// ValidateAsResponse checks the frame as a response to a request for the
// given address: the status/command byte must be a status and the frame
// address must match.
func (p Packet) ValidateAsResponse(address uint32) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !isStatus(p.data[posStatusOrCommand]) {
		return ErrInvalidStatusOrCommand
	}
	if p.Address() != address {
		return ErrInvalidResponseAddress
	}
	return nil
}

// ValidateAsOkResponse checks the frame as a successful response carrying
// exactly payloadSize bytes. CAMERA_NOT_READY maps to ErrDeviceBusy; any
// other non-OK status to a StatusError.
func (p Packet) ValidateAsOkResponse(address uint32, payloadSize uint8) error {
	if err := p.ValidateAsResponse(address); err != nil {
		return err
	}

	if status := Status(p.data[posStatusOrCommand]); status != StatusOK {
		if status == StatusCameraNotReady {
			return ErrDeviceBusy
		}
		return &StatusError{Status: status, Address: address}
	}

	if len(p.payload()) != int(payloadSize) {
		return ErrInvalidSize
	}
	return nil
}

// ExpectedDataSize returns the payload size announced in the count byte of
// a partially received response. The frame must contain at least the header
// with a valid synchronization nibble and a known status byte.
func (p Packet) ExpectedDataSize() (uint8, error) {
	if len(p.data) < HeaderSize {
		return 0, ErrInvalidSize
	}
	if p.data[posSyncAndID]&syncMask != SyncValue {
		return 0, ErrInvalidSync
	}
	if !isStatus(p.data[posStatusOrCommand]) {
		return 0, ErrInvalidStatusOrCommand
	}
	return p.data[posCount], nil
}

// PacketID returns the 4-bit packet id from byte 0.
func (p Packet) PacketID() uint8 {
	return p.data[posSyncAndID] & packetIDMask
}

// Address returns the 32-bit little-endian frame address.
func (p Packet) Address() uint32 {
	return binary.LittleEndian.Uint32(p.data[posAddress : posAddress+4])
}

// StatusOrCommand returns the raw status or command byte.
func (p Packet) StatusOrCommand() uint8 {
	return p.data[posStatusOrCommand]
}

// Payload returns the payload bytes of a validated packet.
func (p Packet) Payload() []byte {
	return p.payload()
}

func (p Packet) payload() []byte {
	return p.data[posData : len(p.data)-1]
}

// Bytes returns the full frame including the checksum byte.
func (p Packet) Bytes() []byte {
	return p.data
}

// Len returns the total frame length in bytes.
func (p Packet) Len() int {
	return len(p.data)
}
