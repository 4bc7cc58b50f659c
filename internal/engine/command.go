package engine

import (
	"context"
	"time"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// Command is an invertible user action. Undo is simply the inverted
// command executed again, so archive and unarchive share one code path.
type Command struct {
	Execute func(ctx context.Context) error
	Invert  func() *Command
}

// ArchiveConversation archives or unarchives a conversation
// optimistically and returns the undo command for the UI's affordance.
// A deferred re-fetch reconciles with the server regardless of outcome.
func (e *Engine) ArchiveConversation(ctx context.Context, conversationId string, archive bool) (*Command, error) {
	cmd := e.archiveCommand(conversationId, archive)
	err := cmd.Execute(ctx)
	return cmd.Invert(), err
}

func (e *Engine) archiveCommand(conversationId string, archive bool) *Command {
	return &Command{
		Execute: func(ctx context.Context) error {
			return e.applyArchive(ctx, conversationId, archive)
		},
		Invert: func() *Command {
			return e.archiveCommand(conversationId, !archive)
		},
	}
}

func (e *Engine) applyArchive(ctx context.Context, conversationId string, archive bool) error {
	var status string

	if archive {
		status = api.StatusArchived
		if conv := e.convs.Remove(conversationId); conv != nil {
			conv.Status = api.StatusArchived
			e.mu.Lock()
			e.archived[conversationId] = conv
			if e.activeConvId == conversationId {
				e.activeConvId = ""
			}
			e.mu.Unlock()
		}
	} else {
		e.mu.Lock()
		conv := e.archived[conversationId]
		delete(e.archived, conversationId)
		e.mu.Unlock()

		// unarchiving infers unread vs read from the counter
		status = api.StatusRead
		if conv != nil {
			if conv.UnreadCount > 0 {
				status = api.StatusUnread
			}
			conv.Status = status
			e.convs.Upsert(conv)
		}
	}

	err := e.api.UpdateConversationStatus(ctx, conversationId, status)
	if err != nil && !errcode.IsNotFound(err) {
		e.notify(LevelError, "could not update conversation", err)
		err = errcode.ErrNetwork.Wrap(err)
	} else {
		err = nil
	}

	e.scheduleReconcile(conversationId)
	return err
}

// scheduleReconcile arms the deferred post-archive re-fetch, one pending
// timer per conversation, cancelled-and-replaced
func (e *Engine) scheduleReconcile(conversationId string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.archTimers[conversationId]; ok {
		t.Stop()
	}
	e.archTimers[conversationId] = time.AfterFunc(e.archiveReconcile, func() {
		_ = e.RefreshConversations(context.Background())
	})
}
