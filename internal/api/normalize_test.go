package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConversation(t *testing.T) {
	t.Run("canonical fields", func(t *testing.T) {
		raw := []byte(`{
			"id": "c1",
			"otherUser": {"id": "u2", "display_name": "Asha"},
			"property": {"id": "p1", "title": "2BHK Anna Nagar", "price": 8500000},
			"last_message": {"text": "is it available?", "timestamp": 1700000000000},
			"unread_count": 2,
			"status": "unread",
			"updated_at": 1700000000000
		}`)

		conv, err := DecodeConversation(raw)
		require.NoError(t, err)
		assert.Equal(t, "c1", conv.Id)
		assert.Equal(t, "u2", conv.OtherParticipant.Id)
		assert.Equal(t, "Asha", conv.OtherParticipant.DisplayName)
		require.NotNil(t, conv.Property)
		assert.Equal(t, "2BHK Anna Nagar", conv.Property.Title)
		require.NotNil(t, conv.LastMessage)
		assert.Equal(t, "is it available?", conv.LastMessage.Text)
		assert.Equal(t, 2, conv.UnreadCount)
	})

	t.Run("underscore id and participant fallback", func(t *testing.T) {
		raw := []byte(`{
			"_id": "c2",
			"participant": {"_id": "u9", "name": "Ravi"},
			"unread_count": -1,
			"status": "active"
		}`)

		conv, err := DecodeConversation(raw)
		require.NoError(t, err)
		assert.Equal(t, "c2", conv.Id)
		assert.Equal(t, "u9", conv.OtherParticipant.Id)
		assert.Equal(t, "Ravi", conv.OtherParticipant.DisplayName)
		assert.Equal(t, 0, conv.UnreadCount, "negative unread is clamped")
		assert.Nil(t, conv.Property)
	})
}

func TestDecodeMessage(t *testing.T) {
	t.Run("read flag variants", func(t *testing.T) {
		read, err := DecodeMessage([]byte(`{"_id": "m1", "conversation_id": "c1", "sender_id": "u2", "content": "hi", "isRead": true}`))
		require.NoError(t, err)
		assert.Equal(t, "m1", read.Id)
		assert.True(t, read.Read)
		assert.Equal(t, DeliveryRead, read.DeliveryState)

		unread, err := DecodeMessage([]byte(`{"id": "m2", "conversation_id": "c1", "sender_id": "u2", "content": "hi"}`))
		require.NoError(t, err)
		assert.False(t, unread.Read)
		assert.Equal(t, DeliverySent, unread.DeliveryState)
	})

	t.Run("attachments", func(t *testing.T) {
		msg, err := DecodeMessage([]byte(`{
			"id": "m3",
			"conversation_id": "c1",
			"sender_id": "u2",
			"content": "[attachment]",
			"attachments": [{"type": "image", "url": "https://cdn/x.png", "name": "x.png", "size": 1024}]
		}`))
		require.NoError(t, err)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, KindImage, msg.Attachments[0].Type)
		assert.Equal(t, int64(1024), msg.Attachments[0].Size)
	})
}

func TestDecodePresence(t *testing.T) {
	rec, err := DecodePresence([]byte(`{"id": "u2", "online": true, "last_seen": 1700000000000}`))
	require.NoError(t, err)
	assert.Equal(t, "u2", rec.UserId)
	assert.True(t, rec.IsOnline)
	assert.Equal(t, int64(1700000000000), rec.LastSeen)
}
