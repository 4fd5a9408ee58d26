// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import "errors"

// Memory space errors.
var (
	ErrInvalidMemoryAddress = errors.New("weom: address not mapped by memory space")
)

// Device layer errors.
var (
	ErrNoProtocol      = errors.New("weom: no protocol layer set")
	ErrInvalidDataSize = errors.New("weom: invalid data size")
	ErrInvalidAddress  = errors.New("weom: invalid address")
	ErrDisconnected    = errors.New("weom: transfer failed repeatedly, assuming connection broke")
	ErrBusy            = errors.New("weom: device busy for longer than allowed")
)

// Conversion errors.
var (
	ErrInvalidData   = errors.New("weom: invalid data for conversion")
	ErrUnknownDevice = errors.New("weom: device identification mismatch")
)
