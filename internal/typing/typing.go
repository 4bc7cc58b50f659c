// Package typing tracks "is typing" state in both directions: the local
// user's debounced emission, and remote indicators that expire on their
// own so a dropped stop event can never leave a stuck indicator.
package typing

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EmitFunc sends a start/stop typing signal for a conversation
type EmitFunc func(conversationId string, typing bool)

type localState struct {
	typing bool
	timer  *time.Timer
}

// Coordinator is the per-conversation typing state machine.
// Local side: Idle -> Typing on a non-empty keystroke, back to Idle after
// the idle window or when the text is cleared. Remote side: an indicator
// is shown until an explicit stop arrives or the expiry window lapses
// with no refresh. One pending timer per key, always cancel-and-replace.
type Coordinator struct {
	mu     sync.Mutex
	idle   time.Duration
	expiry time.Duration
	emit   EmitFunc
	local  map[string]*localState
	remote map[string]map[string]*time.Timer
	log    *logrus.Entry
}

// NewCoordinator creates a typing coordinator
func NewCoordinator(idle, expiry time.Duration, emit EmitFunc, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		idle:   idle,
		expiry: expiry,
		emit:   emit,
		local:  make(map[string]*localState),
		remote: make(map[string]map[string]*time.Timer),
		log:    logger.WithField("component", "typing"),
	}
}

// InputChanged feeds the local state machine with the current input text.
// Every non-empty change restarts the idle timer; clearing the text
// transitions to Idle immediately.
func (c *Coordinator) InputChanged(conversationId, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.local[conversationId]
	if !ok {
		st = &localState{}
		c.local[conversationId] = st
	}

	if text == "" {
		c.stopLocalLocked(conversationId, st)
		return
	}

	if !st.typing {
		st.typing = true
		c.emit(conversationId, true)
	}

	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(c.idle, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.local[conversationId]; ok {
			c.stopLocalLocked(conversationId, cur)
		}
	})
}

// Flush forces an immediate Idle transition, signal included. Called on
// conversation switch and unmount regardless of timer state.
func (c *Coordinator) Flush(conversationId string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.local[conversationId]; ok {
		c.stopLocalLocked(conversationId, st)
	}
}

func (c *Coordinator) stopLocalLocked(conversationId string, st *localState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	if st.typing {
		st.typing = false
		c.emit(conversationId, false)
	}
}

// SetRemote records a remote typing indicator. A true signal (re)arms the
// self-expiry timer; false clears immediately.
func (c *Coordinator) SetRemote(conversationId, userId string, typing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, ok := c.remote[conversationId]
	if !ok {
		users = make(map[string]*time.Timer)
		c.remote[conversationId] = users
	}

	if t, ok := users[userId]; ok {
		t.Stop()
		delete(users, userId)
	}

	if !typing {
		return
	}

	users[userId] = time.AfterFunc(c.expiry, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if users, ok := c.remote[conversationId]; ok {
			delete(users, userId)
		}
	})
}

// IsTyping reports whether anyone is currently typing in a conversation
func (c *Coordinator) IsTyping(conversationId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.remote[conversationId]) > 0
}

// TypingUsers lists who is typing in a conversation
func (c *Coordinator) TypingUsers(conversationId string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []string
	for userId := range c.remote[conversationId] {
		result = append(result, userId)
	}
	return result
}

// Close stops every pending timer
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, st := range c.local {
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(c.local, id)
	}
	for id, users := range c.remote {
		for _, t := range users {
			t.Stop()
		}
		delete(c.remote, id)
	}
}
