package speech

// DefaultFillerWords is the filler vocabulary used when no calibration overrides it.
// Multi-word entries are kept for parity with the reference list even though the
// tokenizer only ever produces single words, so they never match.
var DefaultFillerWords = []string{
	"um", "uh", "like", "you know", "sort of",
	"basically", "literally", "actually", "i mean", "right",
}

// Config holds every tunable used by the Analyzer.
type Config struct {
	FillerWords []string

	// FillerPenalty is subtracted from 100 per filler to get the filler score.
	FillerPenalty float64
	// VarietyWeight and FillerWeight combine vocabulary variety (0-1) and
	// filler score (0-100) into clarity.
	VarietyWeight float64
	FillerWeight  float64
	// ConfidenceFillerPenalty is subtracted from clarity per filler.
	ConfidenceFillerPenalty float64
	// ConfidenceFloor is the minimum confidence score.
	ConfidenceFloor float64

	// More fillers than FillerSuggestionMin triggers the reduce-fillers suggestion.
	FillerSuggestionMin      int
	ClaritySuggestionBelow   float64
	RelevanceSuggestionBelow float64
}

func DefaultConfig() Config {
	return Config{
		FillerWords:              append([]string(nil), DefaultFillerWords...),
		FillerPenalty:            5,
		VarietyWeight:            50,
		FillerWeight:             0.5,
		ConfidenceFillerPenalty:  2,
		ConfidenceFloor:          50,
		FillerSuggestionMin:      2,
		ClaritySuggestionBelow:   60,
		RelevanceSuggestionBelow: 40,
	}
}
