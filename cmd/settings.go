// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/workswell/weomlink/pkg/weom"
)

var saveToFlash bool

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current camera settings",
	RunE:  runGet,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change a camera setting",
}

var setFramerateCmd = &cobra.Command{
	Use:       "framerate <8.57|30|60>",
	Short:     "Set the sensor output rate",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"8.57", "30", "60"},
	RunE:      runSetFramerate,
}

var setPaletteCmd = &cobra.Command{
	Use:   "palette <index>",
	Short: "Select a color palette",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetPalette,
}

var setFreezeCmd = &cobra.Command{
	Use:       "freeze <on|off>",
	Short:     "Freeze or unfreeze the image",
	Long:      `Freeze or unfreeze the image. This writes the RAM image only; --flash has no effect here.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runSetFreeze,
}

func init() {
	setCmd.PersistentFlags().BoolVar(&saveToFlash, "flash", false, "Write the persistent copy instead of the RAM image")
	setCmd.AddCommand(setFramerateCmd)
	setCmd.AddCommand(setPaletteCmd)
	setCmd.AddCommand(setFreezeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
}

func targetMemory() weom.MemoryType {
	if saveToFlash {
		return weom.MemoryTypeFlash
	}
	return weom.MemoryTypeRegisters
}

func runGet(cmd *cobra.Command, args []string) error {
	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	framerate, err := camera.Framerate()
	if err != nil {
		return fmt.Errorf("read framerate: %w", err)
	}
	paletteIndex, err := camera.PaletteIndex()
	if err != nil {
		return fmt.Errorf("read palette index: %w", err)
	}
	paletteName, err := camera.PaletteName(paletteIndex)
	if err != nil {
		return fmt.Errorf("read palette name: %w", err)
	}
	flip, err := camera.ImageFlip()
	if err != nil {
		return fmt.Errorf("read image flip: %w", err)
	}
	freeze, err := camera.ImageFreeze()
	if err != nil {
		return fmt.Errorf("read image freeze: %w", err)
	}
	preset, err := camera.PresetID()
	if err != nil {
		return fmt.Errorf("read preset: %w", err)
	}

	fmt.Printf("Framerate:   %s\n", framerate)
	fmt.Printf("Palette:     %d (%s)\n", paletteIndex, paletteName)
	fmt.Printf("Image flip:  horizontal=%v vertical=%v\n", flip.Horizontal, flip.Vertical)
	fmt.Printf("Image frozen: %v\n", freeze)
	fmt.Printf("Preset:      range=%s lens=%s\n", preset.Range, preset.Lens)
	return nil
}

func runSetFramerate(cmd *cobra.Command, args []string) error {
	var framerate weom.Framerate
	switch args[0] {
	case "8.57":
		framerate = weom.Framerate857
	case "30":
		framerate = weom.Framerate30
	case "60":
		framerate = weom.Framerate60
	default:
		return fmt.Errorf("unknown framerate %q", args[0])
	}

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := camera.SetFramerate(framerate, targetMemory()); err != nil {
		return fmt.Errorf("set framerate: %w", err)
	}
	fmt.Printf("Framerate set to %s\n", framerate)
	return nil
}

func runSetPalette(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil || index >= weom.PaletteCount {
		return fmt.Errorf("palette index must be 0..%d", weom.PaletteCount-1)
	}

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := camera.SetPaletteIndex(uint8(index), targetMemory()); err != nil {
		return fmt.Errorf("set palette: %w", err)
	}

	name, err := camera.PaletteName(uint8(index))
	if err != nil {
		return fmt.Errorf("read palette name: %w", err)
	}
	fmt.Printf("Palette set to %d (%s)\n", index, name)
	return nil
}

func runSetFreeze(cmd *cobra.Command, args []string) error {
	freeze := args[0] == "on"

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := camera.SetImageFreeze(freeze); err != nil {
		return fmt.Errorf("set image freeze: %w", err)
	}
	fmt.Printf("Image freeze: %v\n", freeze)
	return nil
}
