// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.
//
// Weomctl - WEOM thermal camera control
//
// A CLI tool for controlling WEOM thermal camera cores over the TCSI
// serial protocol.

package main

import (
	"os"

	"github.com/workswell/weomlink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
