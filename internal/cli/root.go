// Package cli implements ivmctl, which runs the analyzers offline against
// transcripts and recorded landmark frames.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yoockh/interviewme/config"
)

func Execute() error {
	return NewRoot().Execute()
}

func NewRoot() *cobra.Command {
	var calibrationPath string
	root := &cobra.Command{
		Use:          "ivmctl",
		Short:        "Offline speech and facial analysis for interview practice",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&calibrationPath, "calibration", "", "calibration YAML (defaults to $CALIBRATION_FILE)")

	load := func() (*config.Calibration, error) {
		return config.LoadCalibration(calibrationPath)
	}
	root.AddCommand(
		SpeechCmd(load),
		FramesCmd(load),
		CalibrationCmd(load),
	)
	return root
}

type calibrationLoader func() (*config.Calibration, error)
