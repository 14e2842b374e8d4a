// Package analysis extracts speech-delivery metrics from raw transcripts:
// words-per-minute, filler counts, sentence splits and filler highlights.
// Every function here is pure and total. Degenerate input (empty transcript,
// zero or negative duration) yields zero values, never an error.
package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/speakbetter/persona-coach/internal/types"
)

// DefaultFillers are the disfluencies counted when no custom list is given.
var DefaultFillers = []string{"um", "uh", "like", "you know"}

// minDuration floors the divisor when converting counts to per-minute rates,
// so pathologically short clips don't produce astronomical values.
const minDuration = 0.1

// wordPattern matches word-like tokens including internal apostrophes and hyphens.
var wordPattern = regexp.MustCompile(`\b[\w'-]+\b`)

// sentenceSplit matches runs of sentence-ending punctuation.
var sentenceSplit = regexp.MustCompile(`[.?!]+`)

var defaultFillerPatterns = compileFillerPatterns(DefaultFillers)

func compileFillerPatterns(fillers []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(fillers))
	for _, f := range fillers {
		// Word-boundary matching so "like" never matches inside "unlike".
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(f))+`\b`))
	}
	return patterns
}

// ComputeWPM returns the words-per-minute pace of a transcript.
// Returns 0 when the transcript contains no word tokens.
func ComputeWPM(transcript string, durationSeconds float64) float64 {
	if transcript == "" {
		return 0
	}

	wordCount := len(wordPattern.FindAllString(transcript, -1))
	if wordCount == 0 {
		return 0
	}

	safeDuration := math.Max(durationSeconds, minDuration)
	return float64(wordCount) / safeDuration * 60.0
}

// CountFillers counts occurrences of the given filler words/phrases in the
// transcript. Matching is case-insensitive and whole-word; a nil list counts
// the default fillers.
func CountFillers(transcript string, fillers []string) int {
	if transcript == "" {
		return 0
	}

	patterns := defaultFillerPatterns
	if fillers != nil {
		patterns = compileFillerPatterns(fillers)
	}

	text := strings.ToLower(transcript)
	total := 0
	for _, p := range patterns {
		total += len(p.FindAllStringIndex(text, -1))
	}
	return total
}

// SplitSentences splits a transcript on runs of '.', '?' and '!', trimming
// whitespace and dropping empty pieces. Abbreviations are not handled;
// "Dr. Smith" splits at the period.
func SplitSentences(transcript string) []string {
	if transcript == "" {
		return nil
	}

	parts := sentenceSplit.Split(transcript, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Compute aggregates the basic speech metrics for a transcript.
func Compute(transcript string, durationSeconds float64) types.Metrics {
	totalWords := 0
	if transcript != "" {
		totalWords = len(wordPattern.FindAllString(transcript, -1))
	}

	totalFillers := CountFillers(transcript, nil)

	fillersPerMin := 0.0
	if durationSeconds > 0 {
		safeDuration := math.Max(durationSeconds, minDuration)
		fillersPerMin = round2(float64(totalFillers) / safeDuration * 60.0)
	}

	return types.Metrics{
		WPM:           ComputeWPM(transcript, durationSeconds),
		TotalWords:    totalWords,
		TotalFillers:  totalFillers,
		FillersPerMin: fillersPerMin,
	}
}

// Highlights marks filler tokens in the transcript for frontend rendering.
// Tokens are whitespace-split (not the word regex above), so indices line up
// with what the UI renders, and only exact token matches count: "um," with a
// trailing comma is not highlighted even though CountFillers counts it.
func Highlights(transcript string, fillers []string) []types.Highlight {
	if transcript == "" {
		return nil
	}

	if fillers == nil {
		fillers = DefaultFillers
	}
	fillerSet := make(map[string]struct{}, len(fillers))
	for _, f := range fillers {
		fillerSet[strings.ToLower(f)] = struct{}{}
	}

	var highlights []types.Highlight
	for idx, token := range strings.Fields(transcript) {
		if _, ok := fillerSet[strings.ToLower(token)]; ok {
			highlights = append(highlights, types.Highlight{
				WordIndex: idx,
				Type:      types.HighlightFiller,
			})
		}
	}
	return highlights
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
