package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoockh/interviewme/internal/analysis/facial"
)

type frameLine struct {
	Frame        int            `json:"frame"`
	FaceDetected bool           `json:"face_detected"`
	Report       *facial.Report `json:"report,omitempty"`
}

// FramesCmd reads a JSON array of frames, each an array of {x,y,z} points.
// A null or empty entry is a frame without a face.
func FramesCmd(load calibrationLoader) *cobra.Command {
	var file string
	var smooth bool
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Run the facial extractor over recorded landmark frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			b, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var frames []facial.Frame
			if err := json.Unmarshal(b, &frames); err != nil {
				return fmt.Errorf("parse frames: %w", err)
			}
			cal, err := load()
			if err != nil {
				return err
			}
			return runFrames(cmd, frames, facial.NewExtractor(cal.FacialConfig()), smooth, cal.Facial.SmoothingWindow)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file of landmark frames (- for stdin)")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "majority-vote labels over the calibration smoothing window")
	return cmd
}

func runFrames(cmd *cobra.Command, frames []facial.Frame, ex *facial.Extractor, smooth bool, window int) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	tally := facial.NewTally()
	sm := facial.NewSmoother(window)

	for i, f := range frames {
		r := ex.Extract(f)
		tally.Add(r)
		line := frameLine{Frame: i, FaceDetected: r != nil, Report: r}
		if r != nil && smooth {
			s := sm.Push(*r)
			line.Report = &s
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return enc.Encode(map[string]facial.Summary{"summary": tally.Summary()})
}
