package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speakbetter/persona-coach/internal/types"
)

func TestComputeWPM(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		duration   float64
		expected   float64
	}{
		{"empty transcript", "", 30, 0},
		{"no word tokens", "?!... ---", 30, 0},
		{"simple pace", "one two three four five six", 60, 6},
		{"zero duration uses floor", "one two", 0, 1200},
		{"negative duration uses floor", "one two", -5, 1200},
		{"tiny duration uses floor", "one two", 0.01, 1200},
		{"apostrophes and hyphens are single words", "don't well-known", 60, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ComputeWPM(tt.transcript, tt.duration), 1e-9)
		})
	}
}

func TestCountFillers(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		fillers    []string
		expected   int
	}{
		{"empty transcript", "", nil, 0},
		{"default list counts all four", "um, uh, like, you know", nil, 4},
		{"whole word only", "I unlike this", []string{"like"}, 0},
		{"case insensitive", "UM Like YOU KNOW", nil, 3},
		{"repeated fillers", "um um um", nil, 3},
		{"phrase filler", "and you know it was you know fine", nil, 2},
		{"custom list", "basically it was basically fine", []string{"basically"}, 2},
		{"explicit empty list counts nothing", "um uh", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountFillers(tt.transcript, tt.fillers))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		expected   []string
	}{
		{"empty", "", nil},
		{"single sentence no punctuation", "hello there", []string{"hello there"}},
		{"multiple terminators", "First. Second? Third!", []string{"First", "Second", "Third"}},
		{"runs of punctuation collapse", "Wait... what?!", []string{"Wait", "what"}},
		{"abbreviations split too", "Dr. Smith arrived.", []string{"Dr", "Smith arrived"}},
		{"only punctuation", "...!!!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSentences(tt.transcript))
		})
	}
}

func TestCompute(t *testing.T) {
	t.Run("sample attempt", func(t *testing.T) {
		m := Compute("hi um my name is pavit and like I want to speak better", 30.0)

		assert.Equal(t, 13, m.TotalWords)
		assert.Equal(t, 2, m.TotalFillers)
		assert.InDelta(t, 26.0, m.WPM, 1e-9)
		assert.InDelta(t, 4.0, m.FillersPerMin, 1e-9)
	})

	t.Run("empty transcript", func(t *testing.T) {
		m := Compute("", 30.0)
		assert.Equal(t, types.Metrics{}, m)
	})

	t.Run("zero duration zeroes the rates", func(t *testing.T) {
		m := Compute("um one two", 0)
		assert.Equal(t, 3, m.TotalWords)
		assert.Equal(t, 1, m.TotalFillers)
		// WPM still uses the floor, fillersPerMin does not
		assert.InDelta(t, 1800, m.WPM, 1e-9)
		assert.Zero(t, m.FillersPerMin)
	})

	t.Run("negative duration zeroes fillers per minute", func(t *testing.T) {
		m := Compute("um uh", -10)
		assert.Zero(t, m.FillersPerMin)
	})

	t.Run("fillersPerMin rounds to two decimals", func(t *testing.T) {
		// 2 fillers over 7s -> 17.142857... -> 17.14
		m := Compute("um uh", 7)
		assert.InDelta(t, 17.14, m.FillersPerMin, 1e-9)
	})

	t.Run("idempotent", func(t *testing.T) {
		a := Compute("um well you know", 12.5)
		b := Compute("um well you know", 12.5)
		assert.Equal(t, a, b)
	})
}

func TestHighlights(t *testing.T) {
	t.Run("empty transcript", func(t *testing.T) {
		assert.Nil(t, Highlights("", nil))
	})

	t.Run("marks filler tokens in order", func(t *testing.T) {
		got := Highlights("um I was like done", nil)
		assert.Equal(t, []types.Highlight{
			{WordIndex: 0, Type: types.HighlightFiller},
			{WordIndex: 3, Type: types.HighlightFiller},
		}, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := Highlights("Um no", nil)
		assert.Equal(t, []types.Highlight{{WordIndex: 0, Type: types.HighlightFiller}}, got)
	})

	t.Run("exact token match only", func(t *testing.T) {
		// "um," carries punctuation, "unlike" contains "like"; neither matches
		assert.Nil(t, Highlights("um, I unlike this", nil))
	})

	t.Run("indices are over whitespace tokens", func(t *testing.T) {
		// "well-known" is one whitespace token even though the word regex
		// would see one word too; multi-space gaps don't create tokens
		got := Highlights("well-known   um", nil)
		assert.Equal(t, []types.Highlight{{WordIndex: 1, Type: types.HighlightFiller}}, got)
	})
}
