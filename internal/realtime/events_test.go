package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("new message", func(t *testing.T) {
		f := &frame{
			Type: string(EventNewMessage),
			Data: []byte(`{"_id": "m1", "conversation_id": "c1", "sender_id": "u2", "content": "hello"}`),
		}

		ev, err := decodeEvent(f)
		require.NoError(t, err)
		assert.Equal(t, EventNewMessage, ev.Type)
		assert.Equal(t, "c1", ev.ConversationId)
		assert.Equal(t, "u2", ev.UserId)
		require.NotNil(t, ev.Message)
		assert.Equal(t, "m1", ev.Message.Id)
	})

	t.Run("message read", func(t *testing.T) {
		f := &frame{
			Type: string(EventMessageRead),
			Data: []byte(`{"conversation_id": "c1", "message_id": "m1", "user_id": "u2"}`),
		}

		ev, err := decodeEvent(f)
		require.NoError(t, err)
		assert.Equal(t, "c1", ev.ConversationId)
		assert.Equal(t, "m1", ev.MessageId)
	})

	t.Run("typing indicator", func(t *testing.T) {
		f := &frame{
			Type: string(EventTypingIndicator),
			Data: []byte(`{"conversation_id": "c1", "user_id": "u2", "is_typing": true}`),
		}

		ev, err := decodeEvent(f)
		require.NoError(t, err)
		assert.True(t, ev.IsTyping)
		assert.Equal(t, "u2", ev.UserId)
	})

	t.Run("user status change", func(t *testing.T) {
		f := &frame{
			Type: string(EventUserStatusChange),
			Data: []byte(`{"user_id": "u2", "is_online": true}`),
		}

		ev, err := decodeEvent(f)
		require.NoError(t, err)
		require.NotNil(t, ev.Presence)
		assert.True(t, ev.Presence.IsOnline)
	})

	t.Run("refresh has no payload", func(t *testing.T) {
		ev, err := decodeEvent(&frame{Type: string(EventRefresh)})
		require.NoError(t, err)
		assert.Equal(t, EventRefresh, ev.Type)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := decodeEvent(&frame{Type: "somethingElse"})
		assert.Error(t, err)
	})
}

func TestEncodeSignal(t *testing.T) {
	data, err := encodeSignal(SignalStartTyping, "c1", "op-1")
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, string(SignalStartTyping), f.Type)
	assert.Equal(t, "op-1", f.OperationId)

	var p signalPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	assert.Equal(t, "c1", p.ConversationId)
}
