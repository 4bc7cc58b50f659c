package store

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/DHEENA0007/squares-messaging/internal/api"
)

// ConversationStore holds the active conversation list with unread
// counters. Status is server-owned and stored verbatim; unread-derived
// views are a client convenience and divergence between the two is
// logged, not resolved.
type ConversationStore struct {
	mu    sync.Mutex
	convs map[string]*api.Conversation
	log   *logrus.Entry
}

// NewConversationStore creates a conversation store
func NewConversationStore(logger *logrus.Logger) *ConversationStore {
	return &ConversationStore{
		convs: make(map[string]*api.Conversation),
		log:   logger.WithField("component", "store"),
	}
}

// Upsert adds or replaces a conversation
func (s *ConversationStore) Upsert(conv *api.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.Status == api.StatusRead && conv.UnreadCount > 0 {
		s.log.Warnf("status/unread divergence: conversation_id=%s, status=%s, unread=%d",
			conv.Id, conv.Status, conv.UnreadCount)
	}

	s.convs[conv.Id] = conv
}

// Remove deletes a conversation and returns it for possible reinstatement
func (s *ConversationStore) Remove(conversationId string) *api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.convs[conversationId]
	delete(s.convs, conversationId)
	return conv
}

// Get returns a conversation by id
func (s *ConversationStore) Get(conversationId string) *api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convs[conversationId]
}

// List returns conversations sorted by UpdatedAt descending
func (s *ConversationStore) List() []*api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*api.Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt > result[j].UpdatedAt
	})
	return result
}

// ApplyIncomingMessage updates the owning conversation for a pushed
// message: bumps UpdatedAt, rewrites the preview, and increments the
// unread counter unless the conversation is the one being viewed or the
// message is the user's own.
func (s *ConversationStore) ApplyIncomingMessage(msg *api.Message, senderIsSelf, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[msg.ConversationId]
	if !ok {
		return false
	}

	if msg.CreatedAt > conv.UpdatedAt {
		conv.UpdatedAt = msg.CreatedAt
	}
	conv.LastMessage = &api.LastMessage{
		Text:         msg.Content,
		Timestamp:    msg.CreatedAt,
		SenderIsSelf: senderIsSelf,
	}

	if !senderIsSelf && !active {
		conv.UnreadCount++
	}

	return true
}

// Reconcile drops every conversation absent from a successful list
// fetch. The response is authoritative: a filtered query narrows the
// visible list, and entries deleted elsewhere must not linger.
func (s *ConversationStore) Reconcile(present map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.convs {
		if _, ok := present[id]; !ok {
			delete(s.convs, id)
		}
	}
}

// ApplyReadReceipt zeroes the unread counter for a conversation
func (s *ConversationStore) ApplyReadReceipt(conversationId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.convs[conversationId]; ok {
		conv.UnreadCount = 0
	}
}

// AdjustUnread shifts the unread counter, clamped at zero. Used when an
// unread inbound message is deleted.
func (s *ConversationStore) AdjustUnread(conversationId string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.convs[conversationId]; ok {
		conv.UnreadCount += delta
		if conv.UnreadCount < 0 {
			conv.UnreadCount = 0
		}
	}
}

// SetStatus stores a server-owned status value
func (s *ConversationStore) SetStatus(conversationId, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.convs[conversationId]; ok {
		conv.Status = status
	}
}

// TotalUnread sums all conversations' unread counters (the badge value)
func (s *ConversationStore) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, c := range s.convs {
		total += c.UnreadCount
	}
	return total
}
