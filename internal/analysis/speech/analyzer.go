// Package speech scores a finished answer transcript against a reference answer:
// filler usage, lexical relevance, clarity and confidence, plus suggestions.
//
// Analyzer is stateless after construction and safe for concurrent use.
package speech

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	SuggestionFillerControl = "Good control on filler words."
	SuggestionClarity       = "Try to expand vocabulary or slow down to articulate better."
	SuggestionRelevance     = "Your answer lacks relevance. Stay closer to the main point."
)

// FillerCount is one entry of the filler breakdown.
type FillerCount struct {
	Term  string `json:"term" bson:"term"`
	Count int    `json:"count" bson:"count"`
}

// Report is the result of one Analyze call. It is never mutated after construction.
// FillerBreakdown is ordered by count descending, then by first appearance.
type Report struct {
	WordCount        int           `json:"word_count" bson:"word_count"`
	UniqueWordCount  int           `json:"unique_word_count" bson:"unique_word_count"`
	FillerCount      int           `json:"filler_count" bson:"filler_count"`
	FillerBreakdown  []FillerCount `json:"filler_breakdown" bson:"filler_breakdown"`
	FillerPercentage float64       `json:"filler_percentage" bson:"filler_percentage"`
	ClarityScore     int           `json:"clarity_score" bson:"clarity_score"`
	RelevanceScore   int           `json:"relevance_score" bson:"relevance_score"`
	ConfidenceScore  int           `json:"confidence_score" bson:"confidence_score"`
	Suggestions      []string      `json:"suggestions" bson:"suggestions"`
}

// MostUsedFiller returns the first breakdown entry, if any.
func (r Report) MostUsedFiller() (FillerCount, bool) {
	if len(r.FillerBreakdown) == 0 {
		return FillerCount{}, false
	}
	return r.FillerBreakdown[0], true
}

type Analyzer struct {
	cfg     Config
	fillers map[string]struct{}
}

func NewAnalyzer(cfg Config) *Analyzer {
	fillers := make(map[string]struct{}, len(cfg.FillerWords))
	for _, f := range cfg.FillerWords {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			fillers[f] = struct{}{}
		}
	}
	return &Analyzer{cfg: cfg, fillers: fillers}
}

func (a *Analyzer) Config() Config { return a.cfg }

// Analyze never fails: an empty transcript yields a zero word count and
// zero percentages. The reference goes through Tokenize like the transcript,
// so "solving." and "solving" count as the same word.
func (a *Analyzer) Analyze(transcript, reference string) Report {
	words := Tokenize(transcript)
	wordCount := len(words)

	counts := map[string]int{}
	var order []string
	totalFillers := 0
	for _, w := range words {
		if _, ok := a.fillers[w]; !ok {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
		totalFillers++
	}

	breakdown := make([]FillerCount, 0, len(order))
	for _, term := range order {
		breakdown = append(breakdown, FillerCount{Term: term, Count: counts[term]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	transcriptSet := wordSet(words)
	relevance := jaccardSets(transcriptSet, wordSet(Tokenize(reference)))

	fillerScore := math.Max(0, 100-a.cfg.FillerPenalty*float64(totalFillers))

	variety := 0.0
	fillerPct := 0.0
	if wordCount > 0 {
		variety = float64(len(transcriptSet)) / float64(wordCount)
		fillerPct = float64(totalFillers) / float64(wordCount) * 100
	}
	clarity := math.Min(100, variety*a.cfg.VarietyWeight+fillerScore*a.cfg.FillerWeight)
	confidence := math.Max(a.cfg.ConfidenceFloor, clarity-a.cfg.ConfidenceFillerPenalty*float64(totalFillers))

	var suggestions []string
	if totalFillers > a.cfg.FillerSuggestionMin && len(breakdown) > 0 {
		top := breakdown[0]
		suggestions = append(suggestions,
			fmt.Sprintf("Try to reduce filler words: you used %q %d times.", top.Term, top.Count))
	} else {
		suggestions = append(suggestions, SuggestionFillerControl)
	}
	if clarity < a.cfg.ClaritySuggestionBelow {
		suggestions = append(suggestions, SuggestionClarity)
	}
	if relevance < a.cfg.RelevanceSuggestionBelow {
		suggestions = append(suggestions, SuggestionRelevance)
	}

	return Report{
		WordCount:        wordCount,
		UniqueWordCount:  len(transcriptSet),
		FillerCount:      totalFillers,
		FillerBreakdown:  breakdown,
		FillerPercentage: math.Round(fillerPct*10) / 10,
		ClarityScore:     int(math.Round(clarity)),
		RelevanceScore:   int(math.Round(relevance)),
		ConfidenceScore:  int(math.Round(confidence)),
		Suggestions:      suggestions,
	}
}
