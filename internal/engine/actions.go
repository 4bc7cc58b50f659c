package engine

import (
	"context"
	"strings"
	"time"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/internal/realtime"
	"github.com/DHEENA0007/squares-messaging/internal/upload"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
	"github.com/DHEENA0007/squares-messaging/pkg/idgen"
)

// attachmentPlaceholder is the content of an attachment-only message
const attachmentPlaceholder = "[attachment]"

// SelectConversation makes a conversation the active one, fetches its
// message page and marks it read. The previous conversation gets a stop
// typing flush and a leave signal. The active id is updated before any
// side effect so a racing fetch for the old selection cannot win.
func (e *Engine) SelectConversation(ctx context.Context, conversationId string) error {
	e.mu.Lock()
	prev := e.activeConvId
	e.activeConvId = conversationId
	e.mu.Unlock()

	if prev != "" && prev != conversationId {
		e.typing.Flush(prev)
		e.emit(realtime.SignalLeave, prev)
	}

	e.emit(realtime.SignalJoin, conversationId)
	e.emit(realtime.SignalMarkRead, conversationId)

	messages, err := e.api.ListMessages(ctx, conversationId, 1, e.pageSize, true)
	if err != nil {
		e.log.Errorf("fetch messages failed: conversation_id=%s, error=%v", conversationId, err)
		e.notify(LevelError, "could not load messages", err)
		return errcode.ErrFetchFailed.Wrap(err)
	}

	// stale-fetch guard: the user may have moved on while the fetch was
	// in flight; a late page must not overwrite the newer selection
	if e.ActiveConversation() != conversationId {
		return nil
	}

	e.msgs.Load(conversationId, messages)
	e.convs.ApplyReadReceipt(conversationId)
	return nil
}

// SendMessage validates, uploads attachments one by one, inserts an
// optimistic pending entry and reconciles it with the server reply.
// A failed upload skips that file only; a failed send leaves the entry
// visibly failed, never silently removed.
func (e *Engine) SendMessage(ctx context.Context, conversationId, text string, files []api.UploadFile) error {
	text = strings.TrimSpace(text)
	if text == "" && len(files) == 0 {
		return errcode.ErrEmptyMessage
	}

	conv := e.convs.Get(conversationId)
	if conv == nil {
		// racing a deletion event, nothing to do
		e.log.Debugf("send to unknown conversation: conversation_id=%s", conversationId)
		return nil
	}

	var attachments []api.Attachment
	for _, f := range files {
		att, err := e.uploader.Upload(ctx, f, upload.KindForMIME(f.MIME))
		if err != nil {
			e.notify(LevelError, "could not attach "+f.Name, err)
			continue
		}
		attachments = append(attachments, *att)
	}

	content := text
	if content == "" {
		if len(attachments) == 0 {
			return errcode.ErrUploadFailed
		}
		content = attachmentPlaceholder
	}

	clientMsgId, err := idgen.NextID()
	if err != nil {
		return errcode.ErrSendFailed.Wrap(err)
	}

	pending := &api.Message{
		Id:             "local-" + clientMsgId,
		ConversationId: conversationId,
		SenderId:       e.selfId,
		ClientMsgId:    clientMsgId,
		Content:        content,
		Attachments:    attachments,
		CreatedAt:      time.Now().UnixMilli(),
		DeliveryState:  api.DeliveryPending,
	}
	e.msgs.Append(pending)
	e.convs.ApplyIncomingMessage(pending, true, true)

	server, err := e.api.SendMessage(ctx, &api.SendMessageRequest{
		ConversationId: conversationId,
		Content:        content,
		RecipientId:    conv.OtherParticipant.Id,
		ClientMsgId:    clientMsgId,
		Attachments:    attachments,
	})
	if err != nil {
		e.msgs.Fail(conversationId, clientMsgId)
		e.log.Errorf("send failed: conversation_id=%s, client_msg_id=%s, error=%v", conversationId, clientMsgId, err)
		e.notify(LevelError, "message not sent", err)
		return errcode.ErrSendFailed.Wrap(err)
	}

	// a push for this message may have confirmed the entry already;
	// Confirm reporting not-found is then expected
	if err := e.msgs.Confirm(conversationId, clientMsgId, server); err != nil {
		e.log.Debugf("confirm skipped: client_msg_id=%s, error=%v", clientMsgId, err)
	}
	return nil
}

// DeleteMessage removes a message, optimistically, behind the
// destructive-action gate. A late failure triggers a corrective re-fetch
// instead of a rollback.
func (e *Engine) DeleteMessage(ctx context.Context, conversationId, messageId string) error {
	if !e.caps.EnableDeletion {
		return errcode.ErrDeletionDisabled
	}
	// already gone: don't prompt over a guaranteed no-op
	if e.msgs.Get(conversationId, messageId) == nil {
		return nil
	}
	if e.confirm == nil || !e.confirm("deleteMessage", messageId) {
		return nil
	}

	removed := e.msgs.Remove(conversationId, messageId)
	if removed == nil {
		return nil
	}
	if !removed.Read && !removed.SenderIsSelf(e.selfId) {
		e.convs.AdjustUnread(conversationId, -1)
	}

	if err := e.api.DeleteMessage(ctx, messageId); err != nil {
		if errcode.IsNotFound(err) {
			return nil
		}
		e.notify(LevelError, "could not delete message", err)
		go e.refetchMessages(conversationId)
		return errcode.ErrNetwork.Wrap(err)
	}
	return nil
}

// DeleteConversation removes a conversation and its message log,
// optimistically, behind the destructive-action gate
func (e *Engine) DeleteConversation(ctx context.Context, conversationId string) error {
	if !e.caps.EnableDeletion {
		return errcode.ErrDeletionDisabled
	}
	// already gone: don't prompt over a guaranteed no-op
	if e.convs.Get(conversationId) == nil {
		return nil
	}
	if e.confirm == nil || !e.confirm("deleteConversation", conversationId) {
		return nil
	}

	if e.convs.Remove(conversationId) == nil {
		return nil
	}
	e.msgs.Drop(conversationId)

	e.mu.Lock()
	if e.activeConvId == conversationId {
		e.activeConvId = ""
	}
	e.mu.Unlock()
	e.emit(realtime.SignalLeave, conversationId)

	if err := e.api.DeleteConversation(ctx, conversationId); err != nil {
		if errcode.IsNotFound(err) {
			return nil
		}
		e.notify(LevelError, "could not delete conversation", err)
		go e.RefreshConversations(context.Background())
		return errcode.ErrNetwork.Wrap(err)
	}
	return nil
}

// Search schedules a debounced server-side filtered list re-fetch.
// A superseding call discards the pending one entirely.
func (e *Engine) Search(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.searchQuery = query
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	e.searchTimer = time.AfterFunc(e.searchDebounce, func() {
		_ = e.RefreshConversations(context.Background())
	})
}

// RefreshConversations pulls the conversation list and reconciles the
// store to it: upserts everything returned, drops everything that is
// not, so filtered queries narrow the view and server-side removals
// land. A fetch failure keeps the last-known-good list untouched.
// Participants seen for the first time get an on-demand presence fetch.
func (e *Engine) RefreshConversations(ctx context.Context) error {
	e.mu.Lock()
	query := e.searchQuery
	e.mu.Unlock()

	convs, err := e.api.ListConversations(ctx, api.ListConversationsOptions{
		Status: api.StatusActive,
		Search: query,
		Limit:  e.pageSize,
	})
	if err != nil {
		e.log.Errorf("refresh conversations failed: %v", err)
		e.notify(LevelError, "could not refresh conversations", err)
		return errcode.ErrFetchFailed.Wrap(err)
	}

	present := make(map[string]struct{}, len(convs))
	for _, conv := range convs {
		present[conv.Id] = struct{}{}

		if !e.caps.ShowPropertyInfo {
			conv.Property = nil
		}
		e.convs.Upsert(conv)

		if userId := conv.OtherParticipant.Id; userId != "" && !e.presence.Tracked(userId) {
			// claim the slot first so concurrent refreshes fetch once
			e.presence.Upsert(&api.PresenceRecord{UserId: userId})
			go e.fetchPresence(userId)
		}
	}
	e.convs.Reconcile(present)
	return nil
}

func (e *Engine) fetchPresence(userId string) {
	rec, err := e.api.GetUserStatus(context.Background(), userId)
	if err != nil {
		e.log.Debugf("presence fetch failed: user_id=%s, error=%v", userId, err)
		return
	}
	e.presence.Upsert(rec)
}

// refetchMessages reconciles a conversation's page after a failed
// destructive action, so the view converges on the server's truth
func (e *Engine) refetchMessages(conversationId string) {
	active := e.ActiveConversation() == conversationId
	messages, err := e.api.ListMessages(context.Background(), conversationId, 1, e.pageSize, active)
	if err != nil {
		e.log.Errorf("corrective refetch failed: conversation_id=%s, error=%v", conversationId, err)
		return
	}
	e.msgs.Load(conversationId, messages)
}
