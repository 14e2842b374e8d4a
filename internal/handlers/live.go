package handlers

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/speakbetter/persona-coach/internal/analysis"
	"github.com/speakbetter/persona-coach/internal/types"
)

// LiveHandler streams running metrics over a websocket while the user speaks
type LiveHandler struct {
	log *logrus.Logger
}

// NewLiveHandler creates a new live metrics handler
func NewLiveHandler(log *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		log: log,
	}
}

// liveFrame is one transcript snapshot sent by the client.
type liveFrame struct {
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// liveUpdate is the running analysis sent back for each frame.
type liveUpdate struct {
	Metrics    types.Metrics     `json:"metrics"`
	Highlights []types.Highlight `json:"highlights"`
}

// Handle processes a live metrics websocket connection. The client sends JSON
// frames with the transcript so far; each frame gets a metrics update back.
// A plain "END" text message closes the session.
func (h *LiveHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	sessionID := uuid.New().String()
	h.log.Infof("Live metrics session established: %s", sessionID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			h.log.Debugf("Live session %s read error: %v", sessionID, err)
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if string(message) == "END" {
			h.log.Infof("Live session %s ended by client", sessionID)
			break
		}

		var frame liveFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.log.Debugf("Live session %s: bad frame: %v", sessionID, err)
			continue
		}

		highlights := analysis.Highlights(frame.Transcript, nil)
		if highlights == nil {
			highlights = []types.Highlight{}
		}

		update := liveUpdate{
			Metrics:    analysis.Compute(frame.Transcript, frame.DurationSeconds),
			Highlights: highlights,
		}

		payload, err := json.Marshal(update)
		if err != nil {
			h.log.Warnf("Live session %s: failed to encode update: %v", sessionID, err)
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Debugf("Live session %s write error: %v", sessionID, err)
			break
		}
	}
}
