// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Raw register access",
}

var registerReadCmd = &cobra.Command{
	Use:   "read <address> <size>",
	Short: "Read raw register bytes",
	Long: `Read size bytes starting at address. Address and size must be 4-byte
aligned. Addresses accept 0x-prefixed hex.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegisterRead,
}

var registerWriteCmd = &cobra.Command{
	Use:   "write <address> <hex-bytes>",
	Short: "Write raw register bytes",
	Long: `Write hex-encoded bytes starting at address. Address and data length
must be 4-byte aligned. Addresses accept 0x-prefixed hex.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegisterWrite,
}

func init() {
	registerCmd.AddCommand(registerReadCmd)
	registerCmd.AddCommand(registerWriteCmd)
	rootCmd.AddCommand(registerCmd)
}

func parseAddress(arg string) (uint32, error) {
	value, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", arg, err)
	}
	return uint32(value), nil
}

func runRegisterRead(cmd *cobra.Command, args []string) error {
	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	size, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	buf := make([]byte, size)
	if err := camera.Device().ReadData(buf, address); err != nil {
		return fmt.Errorf("read 0x%08X: %w", address, err)
	}

	for offset := 0; offset < len(buf); offset += 16 {
		end := offset + 16
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Printf("%08X  % X\n", address+uint32(offset), buf[offset:end])
	}
	return nil
}

func runRegisterWrite(cmd *cobra.Command, args []string) error {
	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.ReplaceAll(args[1], " ", ""))
	if err != nil {
		return fmt.Errorf("invalid hex data: %w", err)
	}

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := camera.Device().WriteData(data, address); err != nil {
		return fmt.Errorf("write 0x%08X: %w", address, err)
	}

	fmt.Printf("Wrote %d bytes at 0x%08X\n", len(data), address)
	return nil
}
