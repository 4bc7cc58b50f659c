package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DHEENA0007/squares-messaging/internal/config"
)

var upgrader = websocket.Upgrader{}

// pushServer upgrades every request and floods the connection with the
// given frame until the client hangs up
func pushServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRealtimeConfig(url string) config.RealtimeConfig {
	return config.RealtimeConfig{
		URL:              "ws" + strings.TrimPrefix(url, "http"),
		MaxMessageSize:   51200,
		WriteWait:        time.Second,
		PongWait:         5 * time.Second,
		PingPeriod:       4 * time.Second,
		WriteChannelSize: 8,
		EventChannelSize: 4,
		ReconnectMin:     10 * time.Millisecond,
		ReconnectMax:     20 * time.Millisecond,
	}
}

func TestChannel_DeliversEvents(t *testing.T) {
	srv := pushServer(t, []byte(`{"type": "refreshConversations"}`))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ch, err := Dial(testRealtimeConfig(srv.URL), "token", "user_1", logger)
	require.NoError(t, err)
	defer ch.Close()

	select {
	case ev := <-ch.Events():
		assert.Equal(t, EventRefresh, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no event arrived")
	}
}

func TestChannel_CloseDuringRead(t *testing.T) {
	srv := pushServer(t, []byte(`{"type": "refreshConversations"}`))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ch, err := Dial(testRealtimeConfig(srv.URL), "token", "user_1", logger)
	require.NoError(t, err)

	// let frames flow so the read loop is mid-delivery when we hang up;
	// a frame read before the close must not panic on its send
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, ch.Close())

	// the read loop owns the events channel and closes it on its way out
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-ch.Events():
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 10*time.Millisecond, "events must be closed by the read loop after it drains")

	// idempotent
	assert.NoError(t, ch.Close())
}
