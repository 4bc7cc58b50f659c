package api

import "context"

// GetUserStatus gets a single user's presence record
func (c *Client) GetUserStatus(ctx context.Context, userId string) (*PresenceRecord, error) {
	var w presenceWire
	if err := c.get(ctx, "/users/"+userId+"/status", nil, &w); err != nil {
		return nil, err
	}
	return w.normalize(), nil
}
