// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Decode the device status register",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	status, err := camera.Status()
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	fmt.Printf("Status word: 0x%08X\n", status.Value())
	fmt.Printf("  NUC active:           %v\n", status.IsNucActive())
	fmt.Printf("  Camera not ready:     %v\n", status.IsCameraNotReady())
	fmt.Printf("  Valid TFPA:           %v\n", status.IsValidTfpa())
	fmt.Printf("  Device type:          %s\n", status.DeviceType())
	fmt.Printf("  Motorfocus available: %v\n", status.IsMotorfocusAvailable())
	fmt.Printf("  Motorfocus busy:      %v\n", status.IsMotorfocusBusy())
	fmt.Printf("  Bayonet state:        %s\n", status.BayonetState())
	fmt.Printf("  Any trigger active:   %v\n", status.IsAnyTriggerActive())
	return nil
}
