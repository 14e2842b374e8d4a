package types

import "time"

// Highlight type constants
const (
	HighlightFiller = "filler"
)

// Metrics holds the measurements extracted from a single transcript.
// All values are recomputed per request and never mutated afterwards.
type Metrics struct {
	WPM           float64 `json:"wpm"`
	TotalWords    int     `json:"totalWords"`
	TotalFillers  int     `json:"totalFillers"`
	FillersPerMin float64 `json:"fillersPerMin"`
}

// PersonaTargets describes the numeric goals a persona expects a speaker to hit.
// WPM is a [low, high] range; MaxFillersPerMin is the tolerated filler rate.
type PersonaTargets struct {
	WPM              []float64 `json:"wpm" yaml:"wpm"`
	MaxFillersPerMin float64   `json:"maxFillersPerMin" yaml:"maxFillersPerMin"`
}

// Persona is a named target speaking-style profile.
type Persona struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Targets     PersonaTargets `json:"targets" yaml:"targets"`
}

// ScoreDimensions are the per-dimension persona-fit scores, each in [0.2, 0.98].
type ScoreDimensions struct {
	Pace          float64 `json:"pace"`
	Clarity       float64 `json:"clarity"`
	Confidence    float64 `json:"confidence"`
	FillerControl float64 `json:"fillerControl"`
}

// PersonaScore is the overall persona-fit result for one attempt.
type PersonaScore struct {
	Overall    float64         `json:"overall"`
	Dimensions ScoreDimensions `json:"dimensions"`
}

// Coaching is the feedback payload produced by the coaching generator.
type Coaching struct {
	Summary         string             `json:"summary"`
	Tips            []string           `json:"tips"`
	Exercise        string             `json:"exercise"`
	PersonaScores10 map[string]float64 `json:"personaScores10"`
	// PerSentenceEmotions rides along with the coaching payload but is
	// serialized at the top level of the analyze response.
	PerSentenceEmotions []string `json:"perSentenceEmotions,omitempty"`
}

// Highlight marks a single token in the transcript. WordIndex is 0-based over
// whitespace-split tokens, not regex-extracted words.
type Highlight struct {
	WordIndex int    `json:"wordIndex"`
	Type      string `json:"type"`
}

// AnalyzeSpeechRequest is the body of POST /api/analyze-speech.
type AnalyzeSpeechRequest struct {
	PersonaID       string  `json:"personaId"`
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// AnalyzeSpeechResponse is the full analysis payload returned to the frontend.
type AnalyzeSpeechResponse struct {
	Metrics             Metrics      `json:"metrics"`
	PersonaScore        PersonaScore `json:"personaScore"`
	Coaching            Coaching     `json:"coaching"`
	Highlights          []Highlight  `json:"highlights"`
	PerSentenceEmotions []string     `json:"perSentenceEmotions"`
	AttemptID           string       `json:"attemptId"`
	NeedsConfirmation   bool         `json:"needsConfirmation"`
	CoachingTextForTTS  string       `json:"coachingTextForTTS"`
}

// ConfirmFeedbackRequest is the body of POST /api/confirm-feedback.
type ConfirmFeedbackRequest struct {
	AttemptID string `json:"attemptId"`
	PersonaID string `json:"personaId"`
}

// ConfirmFeedbackResponse carries either a TTS audio URL or fallback text.
type ConfirmFeedbackResponse struct {
	AudioURL     *string `json:"audioUrl"`
	FallbackText *string `json:"fallbackText"`
}

// Session is one logged analysis attempt as stored in the session store.
type Session struct {
	AttemptID     string    `json:"attemptId"`
	PersonaID     string    `json:"personaId"`
	WPM           float64   `json:"wpm"`
	TotalWords    int       `json:"totalWords"`
	TotalFillers  int       `json:"totalFillers"`
	FillersPerMin float64   `json:"fillersPerMin"`
	Overall       float64   `json:"overall"`
	CreatedAt     time.Time `json:"createdAt"`
}
