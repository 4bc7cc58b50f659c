package api

import (
	"context"
	"strconv"
)

// ListMessages gets a message page for a conversation.
// markRead asks the server to flip inbound messages to read as part of the fetch.
func (c *Client) ListMessages(ctx context.Context, conversationId string, page, pageSize int, markRead bool) ([]*Message, error) {
	params := map[string]string{
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(pageSize),
	}
	if markRead {
		params["mark_read"] = "true"
	}

	var wires struct {
		Messages []*messageWire `json:"messages"`
	}
	if err := c.get(ctx, "/conversations/"+conversationId+"/messages", params, &wires); err != nil {
		return nil, err
	}

	result := make([]*Message, 0, len(wires.Messages))
	for _, w := range wires.Messages {
		result = append(result, w.normalize())
	}
	return result, nil
}

// SendMessage sends a message and returns the server-confirmed copy
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*Message, error) {
	var w messageWire
	if err := c.post(ctx, "/messages", req, &w); err != nil {
		return nil, err
	}
	msg := w.normalize()
	// the server may omit the echo; the caller relies on it for reconciliation
	if msg.ClientMsgId == "" {
		msg.ClientMsgId = req.ClientMsgId
	}
	return msg, nil
}

// DeleteMessage deletes a message
func (c *Client) DeleteMessage(ctx context.Context, messageId string) error {
	return c.delete(ctx, "/messages/"+messageId)
}
