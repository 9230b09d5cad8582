package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yoockh/interviewme/internal/analysis/speech"
)

func SpeechCmd(load calibrationLoader) *cobra.Command {
	var transcript, transcriptFile, reference string
	cmd := &cobra.Command{
		Use:   "speech",
		Short: "Score a transcript against a reference answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transcriptFile != "" {
				b, err := readInput(cmd, transcriptFile)
				if err != nil {
					return err
				}
				transcript = string(b)
			}
			if transcript == "" && transcriptFile == "" {
				return errors.New("--transcript or --transcript-file is required")
			}
			cal, err := load()
			if err != nil {
				return err
			}
			r := speech.NewAnalyzer(cal.SpeechConfig()).Analyze(transcript, reference)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	cmd.Flags().StringVar(&transcript, "transcript", "", "spoken answer text")
	cmd.Flags().StringVar(&transcriptFile, "transcript-file", "", "read the transcript from a file (- for stdin)")
	cmd.Flags().StringVar(&reference, "reference", "", "reference answer text")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
