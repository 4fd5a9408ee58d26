// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

// Package seriallink provides tcsi.DataLink adapters: a local serial port
// and a WebSocket-bridged remote serial port.
package seriallink

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/workswell/weomlink/pkg/tcsi"
)

// defaultMaxTransfer bounds a single read or write on either adapter.
const defaultMaxTransfer = 4096

// Serial is a tcsi.DataLink over a local serial port.
type Serial struct {
	port serial.Port
	lost bool
}

// OpenSerial opens portName in 8N1 mode at baudRate.
func OpenSerial(portName string, baudRate int) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return &Serial{port: port}, nil
}

// IsOpen reports whether the port is usable.
func (s *Serial) IsOpen() bool {
	return s.port != nil && !s.lost
}

// Close releases the port.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// MaxDataSize returns the upper bound of a single transfer.
func (s *Serial) MaxDataSize() int {
	return defaultMaxTransfer
}

// Read fills buf completely within timeout.
func (s *Serial) Read(buf []byte, timeout time.Duration) error {
	if s.port == nil {
		return tcsi.ErrNoConnection
	}

	deadline := time.Now().Add(timeout)
	got := 0
	for got < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return tcsi.ErrTimeout
		}
		if err := s.port.SetReadTimeout(remaining); err != nil {
			s.lost = true
			return tcsi.ErrNoConnection
		}

		n, err := s.port.Read(buf[got:])
		if err != nil {
			s.lost = true
			return tcsi.ErrNoConnection
		}
		if n == 0 {
			// go.bug.st/serial signals an expired read timeout as a
			// zero-length read.
			return tcsi.ErrTimeout
		}
		got += n
	}

	return nil
}

// Write sends buf completely.
func (s *Serial) Write(buf []byte, timeout time.Duration) error {
	if s.port == nil {
		return tcsi.ErrNoConnection
	}

	n, err := s.port.Write(buf)
	if err != nil {
		s.lost = true
		return tcsi.ErrNoConnection
	}
	if n != len(buf) {
		return tcsi.ErrTimeout
	}
	return nil
}

// DropPending discards any bytes buffered by the driver.
func (s *Serial) DropPending() {
	if s.port != nil {
		s.port.ResetInputBuffer()
	}
}

// IsConnectionLost reports whether the port has failed.
func (s *Serial) IsConnectionLost() bool {
	return s.lost
}
