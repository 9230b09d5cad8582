package llm

import (
	"fmt"
	"strings"

	"github.com/yoockh/interviewme/internal/analysis/speech"
)

// CoachInstruction is the system instruction for coaching models.
const CoachInstruction = "You are an interview coach. Give the candidate three short, concrete tips " +
	"to improve their answer. Plain text, one tip per line, no scores."

// CoachPrompt describes one answer together with the computed report, so the
// model comments on measured numbers rather than inventing its own.
func CoachPrompt(question, transcript string, r speech.Report) string {
	var b strings.Builder
	if question != "" {
		fmt.Fprintf(&b, "Question: %s\n", question)
	}
	fmt.Fprintf(&b, "Answer: %s\n\n", transcript)
	fmt.Fprintf(&b, "Measured: %d words, %d filler words (%.1f%%), clarity %d/100, relevance %d/100, confidence %d/100.\n",
		r.WordCount, r.FillerCount, r.FillerPercentage, r.ClarityScore, r.RelevanceScore, r.ConfidenceScore)
	if f, ok := r.MostUsedFiller(); ok {
		fmt.Fprintf(&b, "Most used filler: %q (%d times).\n", f.Term, f.Count)
	}
	return b.String()
}
