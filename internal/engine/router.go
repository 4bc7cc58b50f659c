package engine

import (
	"github.com/DHEENA0007/squares-messaging/internal/realtime"
)

// handleEvent is the single ingress point for server-pushed events.
// Local state is always updated before the dependent list refresh is
// requested; refreshing first would let the UI briefly revert to stale
// unread counts while the fetch is in flight.
func (e *Engine) handleEvent(ev *realtime.Event) {
	switch ev.Type {
	case realtime.EventNewMessage:
		e.onNewMessage(ev)

	case realtime.EventMessageRead:
		if e.ActiveConversation() == ev.ConversationId {
			e.msgs.MarkRead(ev.ConversationId, ev.MessageId)
		}
		e.requestRefresh()

	case realtime.EventConversationRead:
		if e.ActiveConversation() == ev.ConversationId {
			e.msgs.MarkAllRead(ev.ConversationId)
		}
		e.convs.ApplyReadReceipt(ev.ConversationId)
		e.requestRefresh()

	case realtime.EventTypingIndicator:
		if ev.UserId == e.selfId {
			return
		}
		e.typing.SetRemote(ev.ConversationId, ev.UserId, ev.IsTyping)

	case realtime.EventUserStatusChange:
		e.presence.Upsert(ev.Presence)

	case realtime.EventRefresh:
		e.requestRefresh()

	default:
		e.log.Warnf("unhandled event: type=%s", ev.Type)
	}
}

func (e *Engine) onNewMessage(ev *realtime.Event) {
	if ev.Message == nil {
		return
	}

	active := e.ActiveConversation() == ev.ConversationId
	senderIsSelf := ev.Message.SenderIsSelf(e.selfId)

	// message page first, conversation preview second, refresh last
	if active {
		e.msgs.Append(ev.Message)
	}
	e.convs.ApplyIncomingMessage(ev.Message, senderIsSelf, active)

	if active && !senderIsSelf {
		// being viewed right now: unread stays 0, tell the server instead
		e.msgs.MarkRead(ev.ConversationId, ev.Message.Id)
		e.emit(realtime.SignalMarkRead, ev.ConversationId)
	}

	e.requestRefresh()
}

// requestRefresh queues a conversation-list refresh off the event path.
// The worker drains one request at a time; a burst of pushes collapses
// into at most one in-flight fetch plus one pending.
func (e *Engine) requestRefresh() {
	select {
	case e.refreshChan <- struct{}{}:
	default:
	}
}
