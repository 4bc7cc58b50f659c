package realtime

import (
	"encoding/json"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// EventType identifies an inbound server-pushed event
type EventType string

// Inbound event types
const (
	EventNewMessage       EventType = "newMessage"
	EventMessageRead      EventType = "messageRead"
	EventConversationRead EventType = "conversationRead"
	EventTypingIndicator  EventType = "typingIndicator"
	EventUserStatusChange EventType = "userStatusChange"
	EventRefresh          EventType = "refreshConversations"
)

// Signal identifies an outbound client emission
type Signal string

// Outbound signals
const (
	SignalJoin        Signal = "joinConversation"
	SignalLeave       Signal = "leaveConversation"
	SignalStartTyping Signal = "startTyping"
	SignalStopTyping  Signal = "stopTyping"
	SignalMarkRead    Signal = "markConversationRead"
)

// Event is a normalized inbound event. Exactly which fields are set
// depends on Type; payload quirks are resolved before an Event is built.
type Event struct {
	Type           EventType
	ConversationId string
	UserId         string
	MessageId      string
	IsTyping       bool
	Message        *api.Message
	Presence       *api.PresenceRecord
}

// frame is the JSON envelope on the wire, both directions
type frame struct {
	Type        string          `json:"type"`
	OperationId string          `json:"operation_id,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// readPayload covers the flat fields shared by read/typing events
type readPayload struct {
	ConversationId string `json:"conversation_id"`
	MessageId      string `json:"message_id"`
	AltMessageId   string `json:"_id"`
	UserId         string `json:"user_id"`
	IsTyping       bool   `json:"is_typing"`
}

// signalPayload is the body of an outbound signal frame
type signalPayload struct {
	ConversationId string `json:"conversation_id"`
}

// decode decodes JSON bytes to struct
func decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// decodeEvent turns a wire frame into a normalized Event
func decodeEvent(f *frame) (*Event, error) {
	ev := &Event{Type: EventType(f.Type)}

	switch ev.Type {
	case EventNewMessage:
		msg, err := api.DecodeMessage(f.Data)
		if err != nil {
			return nil, err
		}
		ev.Message = msg
		ev.ConversationId = msg.ConversationId
		ev.UserId = msg.SenderId

	case EventMessageRead, EventConversationRead, EventTypingIndicator:
		var p readPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return nil, errcode.ErrInvalidProtocol.Wrap(err)
		}
		ev.ConversationId = p.ConversationId
		ev.UserId = p.UserId
		ev.IsTyping = p.IsTyping
		ev.MessageId = p.MessageId
		if ev.MessageId == "" {
			ev.MessageId = p.AltMessageId
		}

	case EventUserStatusChange:
		rec, err := api.DecodePresence(f.Data)
		if err != nil {
			return nil, err
		}
		ev.Presence = rec
		ev.UserId = rec.UserId

	case EventRefresh:
		// no payload

	default:
		return nil, errcode.ErrInvalidProtocol
	}

	return ev, nil
}

// encodeSignal builds the wire frame for an outbound signal
func encodeSignal(sig Signal, conversationId, operationId string) ([]byte, error) {
	data, err := json.Marshal(signalPayload{ConversationId: conversationId})
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{
		Type:        string(sig),
		OperationId: operationId,
		Data:        data,
	})
}
