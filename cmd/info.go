// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device identification",
	Long: `Read and display the camera's serial number, article number and
firmware version.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	serialNumber, err := camera.SerialNumber()
	if err != nil {
		return fmt.Errorf("read serial number: %w", err)
	}
	articleNumber, err := camera.ArticleNumber()
	if err != nil {
		return fmt.Errorf("read article number: %w", err)
	}
	version, err := camera.FirmwareVersion()
	if err != nil {
		return fmt.Errorf("read firmware version: %w", err)
	}

	fmt.Printf("Serial number:    %s\n", serialNumber)
	fmt.Printf("Article number:   %s\n", articleNumber)
	fmt.Printf("Firmware version: %s\n", version)
	return nil
}
