package store

import (
	"sort"
	"sync"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// messageEntry pairs a message with its insertion sequence, the tie-break
// for equal timestamps. Sequence numbers only grow, so two messages with
// the same CreatedAt keep their arrival order forever.
type messageEntry struct {
	msg *api.Message
	seq uint64
}

// MessageStore holds the per-conversation ordered message logs.
// Messages are ordered by CreatedAt ascending, ties broken by insertion
// order. Pending optimistic entries live here until confirmed or failed.
type MessageStore struct {
	mu     sync.Mutex
	selfId string
	byConv map[string][]messageEntry
	seq    uint64
}

// NewMessageStore creates a message store for the given user
func NewMessageStore(selfId string) *MessageStore {
	return &MessageStore{
		selfId: selfId,
		byConv: make(map[string][]messageEntry),
	}
}

// Load replaces the cached page for a conversation
func (s *MessageStore) Load(conversationId string, messages []*api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]messageEntry, 0, len(messages))
	for _, m := range messages {
		s.seq++
		entries = append(entries, messageEntry{msg: m, seq: s.seq})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].msg.CreatedAt != entries[j].msg.CreatedAt {
			return entries[i].msg.CreatedAt < entries[j].msg.CreatedAt
		}
		return entries[i].seq < entries[j].seq
	})
	s.byConv[conversationId] = entries
}

// Append inserts a message preserving order. A message whose id is already
// present is a no-op (a REST fetch racing the push delivers duplicates).
// A push matching a pending entry's client message id confirms it instead.
func (s *MessageStore) Append(msg *api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byConv[msg.ConversationId]
	for _, e := range entries {
		if e.msg.Id == msg.Id {
			return
		}
	}

	if msg.ClientMsgId != "" {
		for _, e := range entries {
			if e.msg.DeliveryState == api.DeliveryPending && e.msg.ClientMsgId == msg.ClientMsgId {
				s.confirmLocked(e.msg, msg)
				return
			}
		}
	}

	s.seq++
	entry := messageEntry{msg: msg, seq: s.seq}

	// ordered insert: after every message with CreatedAt <= this one
	pos := sort.Search(len(entries), func(i int) bool {
		return entries[i].msg.CreatedAt > msg.CreatedAt
	})
	entries = append(entries, messageEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = entry
	s.byConv[msg.ConversationId] = entries
}

// confirmLocked swaps the server copy's fields into the pending message,
// keeping its position in the log
func (s *MessageStore) confirmLocked(pending, server *api.Message) {
	pending.Id = server.Id
	pending.Content = server.Content
	pending.Attachments = server.Attachments
	if server.CreatedAt != 0 {
		pending.CreatedAt = server.CreatedAt
	}
	pending.DeliveryState = api.DeliverySent
	if server.DeliveryState == api.DeliveryDelivered || server.DeliveryState == api.DeliveryRead {
		pending.DeliveryState = server.DeliveryState
	}
	pending.Read = server.Read
}

// Confirm replaces a pending entry with the server-confirmed message,
// same position, id swapped
func (s *MessageStore) Confirm(conversationId, clientMsgId string, server *api.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byConv[conversationId] {
		if e.msg.ClientMsgId == clientMsgId && e.msg.DeliveryState == api.DeliveryPending {
			s.confirmLocked(e.msg, server)
			return nil
		}
	}
	return errcode.ErrMessageNotFound
}

// Fail marks a pending entry failed. It is never silently removed.
func (s *MessageStore) Fail(conversationId, clientMsgId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byConv[conversationId] {
		if e.msg.ClientMsgId == clientMsgId && e.msg.DeliveryState == api.DeliveryPending {
			e.msg.DeliveryState = api.DeliveryFailed
			return
		}
	}
}

// MarkRead flips read flags. With a message id it flips that message;
// without, it flips every inbound message in the conversation.
func (s *MessageStore) MarkRead(conversationId, messageId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byConv[conversationId] {
		if messageId != "" && e.msg.Id != messageId {
			continue
		}
		if messageId == "" && e.msg.SenderIsSelf(s.selfId) {
			continue
		}
		e.msg.Read = true
		if e.msg.DeliveryState == api.DeliverySent || e.msg.DeliveryState == api.DeliveryDelivered {
			e.msg.DeliveryState = api.DeliveryRead
		}
	}
}

// MarkAllRead flips every message in the conversation to read, both
// directions: a conversation-level receipt covers inbound messages and
// confirms the peer has seen the outbound ones.
func (s *MessageStore) MarkAllRead(conversationId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byConv[conversationId] {
		e.msg.Read = true
		if e.msg.DeliveryState == api.DeliverySent || e.msg.DeliveryState == api.DeliveryDelivered {
			e.msg.DeliveryState = api.DeliveryRead
		}
	}
}

// Remove deletes a message. It reports the removed message so the caller
// can fix up the owning conversation's unread count.
func (s *MessageStore) Remove(conversationId, messageId string) *api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byConv[conversationId]
	for i, e := range entries {
		if e.msg.Id == messageId {
			s.byConv[conversationId] = append(entries[:i], entries[i+1:]...)
			return e.msg
		}
	}
	return nil
}

// Drop discards the whole log for a conversation
func (s *MessageStore) Drop(conversationId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byConv, conversationId)
}

// Messages returns the ordered log for a conversation
func (s *MessageStore) Messages(conversationId string) []*api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byConv[conversationId]
	result := make([]*api.Message, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.msg)
	}
	return result
}

// Get returns a single message by id
func (s *MessageStore) Get(conversationId, messageId string) *api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byConv[conversationId] {
		if e.msg.Id == messageId {
			return e.msg
		}
	}
	return nil
}

// UnreadCount counts inbound unread messages in a conversation
func (s *MessageStore) UnreadCount(conversationId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.byConv[conversationId] {
		if !e.msg.Read && !e.msg.SenderIsSelf(s.selfId) {
			count++
		}
	}
	return count
}
