package handlers

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	fasthttpws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakbetter/persona-coach/internal/types"
)

// dialLive starts a fiber app serving the live handler on an ephemeral port
// and returns a connected websocket client.
func dialLive(t *testing.T) *fasthttpws.Conn {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws/live", fiberws.New(NewLiveHandler(testLogger()).Handle))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	url := "ws://" + ln.Addr().String() + "/ws/live"
	var conn *fasthttpws.Conn
	for i := 0; i < 50; i++ {
		conn, _, err = fasthttpws.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func sendFrame(t *testing.T, conn *fasthttpws.Conn, transcript string, duration float64) {
	t.Helper()
	payload, err := json.Marshal(liveFrame{Transcript: transcript, DurationSeconds: duration})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(fasthttpws.TextMessage, payload))
}

func readUpdate(t *testing.T, conn *fasthttpws.Conn) liveUpdate {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update liveUpdate
	require.NoError(t, json.Unmarshal(msg, &update))
	return update
}

func TestLiveStreamRepliesPerFrame(t *testing.T) {
	conn := dialLive(t)

	sendFrame(t, conn, "hi um hello", 6)
	update := readUpdate(t, conn)
	assert.Equal(t, 3, update.Metrics.TotalWords)
	assert.Equal(t, 1, update.Metrics.TotalFillers)
	assert.InDelta(t, 30.0, update.Metrics.WPM, 1e-9)
	assert.InDelta(t, 10.0, update.Metrics.FillersPerMin, 1e-9)
	assert.Equal(t, []types.Highlight{{WordIndex: 1, Type: types.HighlightFiller}}, update.Highlights)

	// Each frame gets its own reply with fresh values
	sendFrame(t, conn, "ok", 60)
	update = readUpdate(t, conn)
	assert.Equal(t, 1, update.Metrics.TotalWords)
	assert.Zero(t, update.Metrics.TotalFillers)
	assert.InDelta(t, 1.0, update.Metrics.WPM, 1e-9)
	assert.Equal(t, []types.Highlight{}, update.Highlights)
}

func TestLiveStreamSkipsBadFrames(t *testing.T) {
	conn := dialLive(t)

	// A malformed frame gets no reply and must not end the session
	require.NoError(t, conn.WriteMessage(fasthttpws.TextMessage, []byte("not json {")))

	sendFrame(t, conn, "still here um", 6)
	update := readUpdate(t, conn)
	assert.Equal(t, 3, update.Metrics.TotalWords)
	assert.Equal(t, 1, update.Metrics.TotalFillers)
}

func TestLiveStreamEndClosesSession(t *testing.T) {
	conn := dialLive(t)

	require.NoError(t, conn.WriteMessage(fasthttpws.TextMessage, []byte("END")))

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
