package api

import (
	"encoding/json"

	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// DecodeConversation decodes a raw conversation payload into canonical shape
func DecodeConversation(raw []byte) (*Conversation, error) {
	var w conversationWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errcode.ErrInvalidProtocol.Wrap(err)
	}
	return w.normalize(), nil
}

// DecodeMessage decodes a raw message payload into canonical shape
func DecodeMessage(raw []byte) (*Message, error) {
	var w messageWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errcode.ErrInvalidProtocol.Wrap(err)
	}
	return w.normalize(), nil
}

// DecodePresence decodes a raw presence payload into canonical shape
func DecodePresence(raw []byte) (*PresenceRecord, error) {
	var w presenceWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errcode.ErrInvalidProtocol.Wrap(err)
	}
	return w.normalize(), nil
}
