// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package tcsi

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// maxStraightNoResponses is how many consecutive read timeouts are
// tolerated before the connection is flagged as lost.
const maxStraightNoResponses = 2

// Protocol is the TCSI transaction engine. It owns a DataLink, serializes
// one request/response exchange at a time behind a mutex, assigns the 4-bit
// packet id and matches responses by id and address.
type Protocol struct {
	mu    sync.Mutex
	link  DataLink
	clock clockwork.Clock

	lastPacketID        uint8
	straightNoResponses int
	connectionLost      bool
}

// ProtocolOption configures a Protocol.
type ProtocolOption func(*Protocol)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock clockwork.Clock) ProtocolOption {
	return func(p *Protocol) {
		p.clock = clock
	}
}

// NewProtocol creates a protocol engine with no data link attached.
func NewProtocol(opts ...ProtocolOption) *Protocol {
	p := &Protocol{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetDataLink attaches link, closing any previously owned link and
// resetting the packet id counter and the disconnection tracking.
func (p *Protocol) SetDataLink(link DataLink) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.link != nil && p.link != link {
		p.link.Close()
	}
	p.link = link

	p.lastPacketID = 0
	p.straightNoResponses = 0
	p.connectionLost = false
}

// MaxDataSize returns the largest payload a single transaction can carry:
// the link maximum minus the frame overhead, capped at 255 by the one-byte
// count field. It returns 0 when no link is set or the link cannot fit a
// minimum frame.
func (p *Protocol) MaxDataSize() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.link == nil || p.link.MaxDataSize() < MinPacketSize {
		return 0
	}

	maxLinkDataSize := uint32(p.link.MaxDataSize() - MinPacketSize)
	if maxLinkDataSize > MaxPacketSize {
		return MaxPacketSize
	}
	return maxLinkDataSize
}

// ReadData performs one READ transaction for exactly len(buf) payload bytes
// at address. On success buf is overwritten with the response payload.
// An empty buf is a no-op.
func (p *Protocol) ReadData(buf []byte, address uint32, timeout time.Duration) error {
	if len(buf) == 0 {
		return nil
	}
	if len(buf) > MaxPacketSize {
		return ErrInvalidSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.link == nil {
		return ErrNoDataLink
	}

	p.lastPacketID = (p.lastPacketID + 1) & packetIDMask
	request := CreateReadRequest(p.lastPacketID, address, uint8(len(buf)))

	dl := newDeadline(p.clock, timeout)
	if err := p.link.Write(request.Bytes(), timeout); err != nil {
		return err
	}

	response, err := p.receiveResponse(p.lastPacketID, address, uint8(len(buf)), dl)
	if err != nil {
		return err
	}

	copy(buf, response.Payload())
	return nil
}

// WriteData performs one WRITE transaction of data at address. The response
// must be an OK frame with an empty payload. Empty data is a no-op.
func (p *Protocol) WriteData(data []byte, address uint32, timeout time.Duration) error {
	if len(data) == 0 {
		return nil
	}
	if len(data) > MaxPacketSize {
		return ErrInvalidSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.link == nil {
		return ErrNoDataLink
	}

	p.lastPacketID = (p.lastPacketID + 1) & packetIDMask
	request := CreateWriteRequest(p.lastPacketID, address, data)

	dl := newDeadline(p.clock, timeout)
	if err := p.link.Write(request.Bytes(), timeout); err != nil {
		return err
	}

	_, err := p.receiveResponse(p.lastPacketID, address, 0, dl)
	return err
}

// IsConnectionLost reports the sticky flag raised after more than
// maxStraightNoResponses consecutive read timeouts. SetDataLink clears it.
func (p *Protocol) IsConnectionLost() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectionLost
}

// receiveResponse reads frames until one matches packetID or the deadline
// expires. Frames with a foreign id are stale responses or echoes and are
// discarded silently; anything that fails response validation drops the
// pending bytes and aborts the transaction.
func (p *Protocol) receiveResponse(packetID uint8, address uint32, payloadSize uint8, dl deadline) (Packet, error) {
	for {
		response, err := p.receiveResponsePacket(dl)
		if err != nil {
			return Packet{}, err
		}

		if err := response.ValidateAsResponse(address); err != nil {
			p.dropPending(dl)
			return Packet{}, err
		}

		if response.PacketID() != packetID {
			continue
		}

		if err := response.ValidateAsOkResponse(address, payloadSize); err != nil {
			return Packet{}, err
		}
		return response, nil
	}
}

// receiveResponsePacket reads one frame in two passes: first the minimum
// frame (which is already complete for empty-payload responses), then the
// payload tail sized by the count byte. The total frame length depends on
// byte 6, so reading more than the minimum up front would stall on short
// responses.
func (p *Protocol) receiveResponsePacket(dl deadline) (Packet, error) {
	head := make([]byte, MinPacketSize)
	if err := p.link.Read(head, dl.remaining()); err != nil {
		if errors.Is(err, ErrTimeout) {
			p.straightNoResponses++
			if p.straightNoResponses > maxStraightNoResponses {
				p.connectionLost = true
			}
		}
		p.dropPending(dl)
		return Packet{}, err
	}
	p.straightNoResponses = 0

	packet := NewPacket(head)
	expected, err := packet.ExpectedDataSize()
	if err != nil {
		p.dropPending(dl)
		return Packet{}, err
	}

	if expected > 0 {
		tail := make([]byte, expected)
		if err := p.link.Read(tail, dl.remaining()); err != nil {
			p.dropPending(dl)
			return Packet{}, err
		}
		packet = NewPacket(append(head, tail...))
	}

	return packet, nil
}

// dropPending waits out the rest of the transaction deadline so that any
// late bytes of a broken exchange arrive, then discards them.
func (p *Protocol) dropPending(dl deadline) {
	p.clock.Sleep(dl.remaining())
	p.link.DropPending()
}

// deadline tracks an absolute per-transaction budget.
type deadline struct {
	clock clockwork.Clock
	end   time.Time
}

func newDeadline(clock clockwork.Clock, timeout time.Duration) deadline {
	return deadline{clock: clock, end: clock.Now().Add(timeout)}
}

// remaining returns the unspent part of the budget, never negative.
func (d deadline) remaining() time.Duration {
	r := d.end.Sub(d.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}
