package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DHEENA0007/squares-messaging/internal/api"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()

	assert.False(t, tr.Tracked("u1"))
	assert.False(t, tr.IsOnline("u1"))
	assert.Zero(t, tr.LastSeen("u1"))

	tr.Upsert(&api.PresenceRecord{UserId: "u1", IsOnline: true, LastSeen: 100})
	assert.True(t, tr.Tracked("u1"))
	assert.True(t, tr.IsOnline("u1"))
	assert.Equal(t, int64(100), tr.LastSeen("u1"))

	// last write wins
	tr.Upsert(&api.PresenceRecord{UserId: "u1", IsOnline: false, LastSeen: 200})
	assert.False(t, tr.IsOnline("u1"))
	assert.Equal(t, int64(200), tr.LastSeen("u1"))

	// nil and anonymous records are ignored
	tr.Upsert(nil)
	tr.Upsert(&api.PresenceRecord{})
}
