package typing

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emission struct {
	conversationId string
	typing         bool
}

type recorder struct {
	mu        sync.Mutex
	emissions []emission
}

func (r *recorder) emit(conversationId string, typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = append(r.emissions, emission{conversationId, typing})
}

func (r *recorder) all() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emission(nil), r.emissions...)
}

func newTestCoordinator(idle, expiry time.Duration) (*Coordinator, *recorder) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	rec := &recorder{}
	return NewCoordinator(idle, expiry, rec.emit, logger), rec
}

func TestCoordinator_Local(t *testing.T) {
	t.Run("first keystroke emits start once", func(t *testing.T) {
		c, rec := newTestCoordinator(time.Hour, time.Hour)
		defer c.Close()

		c.InputChanged("c1", "h")
		c.InputChanged("c1", "he")
		c.InputChanged("c1", "hel")

		require.Equal(t, []emission{{"c1", true}}, rec.all())
	})

	t.Run("idle timer emits stop", func(t *testing.T) {
		c, rec := newTestCoordinator(20*time.Millisecond, time.Hour)
		defer c.Close()

		c.InputChanged("c1", "h")
		time.Sleep(60 * time.Millisecond)

		require.Equal(t, []emission{{"c1", true}, {"c1", false}}, rec.all())
	})

	t.Run("clearing the text stops immediately", func(t *testing.T) {
		c, rec := newTestCoordinator(time.Hour, time.Hour)
		defer c.Close()

		c.InputChanged("c1", "h")
		c.InputChanged("c1", "")

		require.Equal(t, []emission{{"c1", true}, {"c1", false}}, rec.all())
	})

	t.Run("flush forces idle regardless of timer", func(t *testing.T) {
		c, rec := newTestCoordinator(time.Hour, time.Hour)
		defer c.Close()

		c.InputChanged("c1", "h")
		c.Flush("c1")
		c.Flush("c1") // already idle, no second stop

		require.Equal(t, []emission{{"c1", true}, {"c1", false}}, rec.all())
	})
}

func TestCoordinator_Remote(t *testing.T) {
	t.Run("indicator self-expires without a stop event", func(t *testing.T) {
		c, _ := newTestCoordinator(time.Hour, 20*time.Millisecond)
		defer c.Close()

		c.SetRemote("c1", "peer", true)
		assert.True(t, c.IsTyping("c1"))

		time.Sleep(60 * time.Millisecond)
		assert.False(t, c.IsTyping("c1"))
	})

	t.Run("refresh rearms the expiry", func(t *testing.T) {
		c, _ := newTestCoordinator(time.Hour, 50*time.Millisecond)
		defer c.Close()

		c.SetRemote("c1", "peer", true)
		time.Sleep(30 * time.Millisecond)
		c.SetRemote("c1", "peer", true)
		time.Sleep(30 * time.Millisecond)

		// 60ms since first signal, 30ms since refresh: still typing
		assert.True(t, c.IsTyping("c1"))
	})

	t.Run("explicit stop clears immediately", func(t *testing.T) {
		c, _ := newTestCoordinator(time.Hour, time.Hour)
		defer c.Close()

		c.SetRemote("c1", "peer", true)
		c.SetRemote("c1", "peer", false)
		assert.False(t, c.IsTyping("c1"))
	})

	t.Run("typing users tracked per conversation", func(t *testing.T) {
		c, _ := newTestCoordinator(time.Hour, time.Hour)
		defer c.Close()

		c.SetRemote("c1", "peer_a", true)
		c.SetRemote("c2", "peer_b", true)

		assert.Equal(t, []string{"peer_a"}, c.TypingUsers("c1"))
		assert.Equal(t, []string{"peer_b"}, c.TypingUsers("c2"))
	})
}
