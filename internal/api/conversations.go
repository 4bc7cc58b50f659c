package api

import (
	"context"
	"strconv"
)

// ListConversations gets the conversation list, optionally filtered server-side
func (c *Client) ListConversations(ctx context.Context, opts ListConversationsOptions) ([]*Conversation, error) {
	params := map[string]string{}
	if opts.Status != "" {
		params["status"] = opts.Status
	}
	if opts.Search != "" {
		params["search"] = opts.Search
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}

	var wires struct {
		Conversations []*conversationWire `json:"conversations"`
	}
	if err := c.get(ctx, "/conversations", params, &wires); err != nil {
		return nil, err
	}

	result := make([]*Conversation, 0, len(wires.Conversations))
	for _, w := range wires.Conversations {
		result = append(result, w.normalize())
	}
	return result, nil
}

// DeleteConversation deletes a conversation
func (c *Client) DeleteConversation(ctx context.Context, conversationId string) error {
	return c.delete(ctx, "/conversations/"+conversationId)
}

// UpdateConversationStatus updates the server-owned conversation status
func (c *Client) UpdateConversationStatus(ctx context.Context, conversationId, status string) error {
	body := map[string]string{"status": status}
	return c.put(ctx, "/conversations/"+conversationId+"/status", body, nil)
}
