// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workswell/weomlink/pkg/weom"
)

var triggerNames = map[string]weom.Trigger{
	"reset-fpga":             weom.TriggerResetFPGA,
	"reset-to-loader":        weom.TriggerResetToLoader,
	"nuc-offset-update":      weom.TriggerNucOffsetUpdate,
	"clean-user-dp":          weom.TriggerCleanUserDeadPixels,
	"set-selected-preset":    weom.TriggerSetSelectedPreset,
	"motorfocus-calibration": weom.TriggerMotorfocusCalibration,
	"frame-capture-start":    weom.TriggerFrameCaptureStart,
	"factory-reset":          weom.TriggerResetToFactoryDefault,
	"autofocus":              weom.TriggerPerformAutofocus,
}

var triggerCmd = &cobra.Command{
	Use:   "trigger <name>",
	Short: "Fire a one-shot device action",
	Long: `Fire a one-shot device action through the trigger register.

Available triggers:
  ` + strings.Join(sortedTriggerNames(), "\n  "),
	Args: cobra.ExactArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func sortedTriggerNames() []string {
	names := make([]string, 0, len(triggerNames))
	for name := range triggerNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runTrigger(cmd *cobra.Command, args []string) error {
	trigger, ok := triggerNames[args[0]]
	if !ok {
		return fmt.Errorf("unknown trigger %q", args[0])
	}

	camera, link, err := openCamera()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := camera.ActivateTrigger(trigger); err != nil {
		return fmt.Errorf("activate %s: %w", trigger, err)
	}

	fmt.Printf("Activated %s\n", trigger)
	return nil
}
