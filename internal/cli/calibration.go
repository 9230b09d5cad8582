package cli

import (
	"github.com/spf13/cobra"
)

func CalibrationCmd(load calibrationLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "calibration",
		Short: "Print the effective calibration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := load()
			if err != nil {
				return err
			}
			b, err := cal.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
