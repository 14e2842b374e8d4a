// Package tts synthesizes coaching feedback audio through the Murf API.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/speakbetter/persona-coach/internal/telemetry"
)

const defaultMurfURL = "https://api.murf.ai/v1/speech/generate"

// voiceMap picks a Murf voice per persona.
var voiceMap = map[string]string{
	"ted":     "en-US-natalie",
	"leader":  "en-US-marcus",
	"teacher": "en-UK-hazel",
	"default": "en-US-natalie",
}

// Client calls the Murf speech/generate endpoint.
type Client struct {
	apiKey string
	url    string
	client *http.Client
}

// NewClient creates a Murf TTS client. url may be empty to use the production
// endpoint; tests pass a stub server URL.
func NewClient(apiKey, url string, timeout time.Duration) *Client {
	if url == "" {
		url = defaultMurfURL
	}
	return &Client{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	VoiceID string `json:"voiceId"`
	Text    string `json:"text"`
	Format  string `json:"format"`
}

type generateResponse struct {
	AudioFile string `json:"audioFile"`
	AudioURL  string `json:"audioUrl"`
}

// VoiceFor returns the Murf voice id for a persona, falling back to the
// default voice for unknown ids.
func VoiceFor(personaID string) string {
	if voice, ok := voiceMap[personaID]; ok {
		return voice
	}
	return voiceMap["default"]
}

// Synthesize generates speech for the given text and returns the audio URL.
// Unlike the analysis pipeline this does return errors; the caller decides
// whether to fall back to plain text.
func (c *Client) Synthesize(ctx context.Context, text, personaID string) (string, error) {
	telemetry.TTSRequestsTotal.Inc()

	if c.apiKey == "" {
		telemetry.TTSErrorsTotal.Inc()
		return "", fmt.Errorf("TTS API key not configured")
	}

	body, err := json.Marshal(generateRequest{
		VoiceID: VoiceFor(personaID),
		Text:    text,
		Format:  "mp3",
	})
	if err != nil {
		telemetry.TTSErrorsTotal.Inc()
		return "", fmt.Errorf("failed to encode TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		telemetry.TTSErrorsTotal.Inc()
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		telemetry.TTSErrorsTotal.Inc()
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		telemetry.TTSErrorsTotal.Inc()
		return "", fmt.Errorf("TTS API %s: %s", resp.Status, string(respBody))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		telemetry.TTSErrorsTotal.Inc()
		return "", fmt.Errorf("failed to decode TTS response: %w", err)
	}

	audioURL := out.AudioFile
	if audioURL == "" {
		audioURL = out.AudioURL
	}
	if audioURL == "" {
		telemetry.TTSErrorsTotal.Inc()
		return "", fmt.Errorf("no audio URL in TTS response")
	}
	return audioURL, nil
}
