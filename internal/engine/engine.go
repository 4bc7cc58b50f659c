// Package engine is the synchronization core behind the messaging
// surfaces: it owns the active-conversation selection, reconciles REST
// fetches with realtime events, coordinates optimistic sends, and exposes
// the read-model the UI renders. One engine instance serves one role
// (customer, vendor, admin), parametrized by Capabilities.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/internal/presence"
	"github.com/DHEENA0007/squares-messaging/internal/realtime"
	"github.com/DHEENA0007/squares-messaging/internal/store"
	"github.com/DHEENA0007/squares-messaging/internal/typing"
	"github.com/DHEENA0007/squares-messaging/internal/upload"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
	"github.com/DHEENA0007/squares-messaging/pkg/token"
)

// API is the REST boundary the engine depends on
type API interface {
	ListConversations(ctx context.Context, opts api.ListConversationsOptions) ([]*api.Conversation, error)
	ListMessages(ctx context.Context, conversationId string, page, pageSize int, markRead bool) ([]*api.Message, error)
	SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.Message, error)
	DeleteConversation(ctx context.Context, conversationId string) error
	DeleteMessage(ctx context.Context, messageId string) error
	UpdateConversationStatus(ctx context.Context, conversationId, status string) error
	GetUserStatus(ctx context.Context, userId string) (*api.PresenceRecord, error)
	UploadAttachment(ctx context.Context, file api.UploadFile) (*api.Attachment, error)
}

// Channel is the realtime boundary the engine depends on
type Channel interface {
	Events() <-chan realtime.Event
	Emit(sig realtime.Signal, conversationId string) error
	Close() error
}

// reconnectable is implemented by channels that redial on their own
type reconnectable interface {
	SetOnReconnect(fn func())
}

// Capabilities parametrizes the engine per inbox variant
type Capabilities struct {
	Role             string
	EnableDeletion   bool
	ShowPropertyInfo bool
}

// ConfirmFunc gates destructive actions. A nil func confirms nothing.
type ConfirmFunc func(action, id string) bool

// Options configures a new engine
type Options struct {
	// Token is the session bearer token; SelfId and Role are derived
	// from its claims when not set explicitly
	Token  string
	SelfId string

	Capabilities Capabilities

	PageSize         int
	SearchDebounce   time.Duration
	TypingIdle       time.Duration
	TypingExpiry     time.Duration
	ArchiveReconcile time.Duration

	Confirm ConfirmFunc
	Logger  *logrus.Logger
}

// Notification level
type Level string

// Notification levels
const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient message for the UI (toasts)
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Engine is the sync orchestrator
type Engine struct {
	api      API
	ch       Channel
	convs    *store.ConversationStore
	msgs     *store.MessageStore
	typing   *typing.Coordinator
	presence *presence.Tracker
	uploader *upload.Uploader

	selfId string
	caps   Capabilities

	pageSize         int
	searchDebounce   time.Duration
	archiveReconcile time.Duration

	confirm ConfirmFunc
	log     *logrus.Entry

	mu           sync.Mutex
	activeConvId string
	searchQuery  string
	searchTimer  *time.Timer
	archTimers   map[string]*time.Timer
	archived     map[string]*api.Conversation

	// refreshChan coalesces list-refresh requests from the event path;
	// one worker drains it so refreshes never interleave
	refreshChan chan struct{}
	done        chan struct{}
	closeOnce   sync.Once

	notifications chan Notification
}

// New creates an engine. An expired token is rejected before any network
// activity happens.
func New(apiClient API, ch Channel, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if opts.Token != "" {
		claims, err := token.Validate(opts.Token, time.Now())
		if err != nil {
			return nil, err
		}
		if opts.SelfId == "" {
			opts.SelfId = claims.UserId
		}
		if opts.Capabilities.Role == "" {
			opts.Capabilities.Role = claims.Role
		}
	}
	if opts.SelfId == "" {
		return nil, errcode.ErrInvalidParam.Wrap(errNoSelf)
	}

	if opts.PageSize == 0 {
		opts.PageSize = 50
	}
	if opts.SearchDebounce == 0 {
		opts.SearchDebounce = 500 * time.Millisecond
	}
	if opts.TypingIdle == 0 {
		opts.TypingIdle = 2 * time.Second
	}
	if opts.TypingExpiry == 0 {
		opts.TypingExpiry = 2 * time.Second
	}
	if opts.ArchiveReconcile == 0 {
		opts.ArchiveReconcile = 500 * time.Millisecond
	}

	e := &Engine{
		api:              apiClient,
		ch:               ch,
		convs:            store.NewConversationStore(logger),
		msgs:             store.NewMessageStore(opts.SelfId),
		presence:         presence.NewTracker(),
		uploader:         upload.NewUploader(apiClient, logger),
		selfId:           opts.SelfId,
		caps:             opts.Capabilities,
		pageSize:         opts.PageSize,
		searchDebounce:   opts.SearchDebounce,
		archiveReconcile: opts.ArchiveReconcile,
		confirm:          opts.Confirm,
		log:              logger.WithField("component", "engine").WithField("role", opts.Capabilities.Role),
		archTimers:       make(map[string]*time.Timer),
		archived:         make(map[string]*api.Conversation),
		refreshChan:      make(chan struct{}, 1),
		done:             make(chan struct{}),
		notifications:    make(chan Notification, 64),
	}

	e.typing = typing.NewCoordinator(opts.TypingIdle, opts.TypingExpiry, func(conversationId string, isTyping bool) {
		sig := realtime.SignalStopTyping
		if isTyping {
			sig = realtime.SignalStartTyping
		}
		e.emit(sig, conversationId)
	}, logger)

	if rc, ok := ch.(reconnectable); ok {
		rc.SetOnReconnect(e.resync)
	}

	go e.refreshLoop()

	return e, nil
}

var errNoSelf = errcode.New(1001, "self user id required")

// Run consumes the realtime event stream until ctx ends or the channel closes
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-e.ch.Events():
			if !ok {
				return nil
			}
			e.handleEvent(&ev)
		}
	}
}

// refreshLoop is the single consumer of coalesced refresh requests.
// A request arriving while one is in flight parks in the channel's
// buffer; more than one pending request collapses into it.
func (e *Engine) refreshLoop() {
	for {
		select {
		case <-e.done:
			return
		case <-e.refreshChan:
			_ = e.RefreshConversations(context.Background())
		}
	}
}

// Close releases timers and the channel
func (e *Engine) Close() error {
	e.closeOnce.Do(func() { close(e.done) })

	e.mu.Lock()
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	for _, t := range e.archTimers {
		t.Stop()
	}
	e.mu.Unlock()

	e.typing.Close()
	return e.ch.Close()
}

// resync runs after a channel reconnect: rejoin the active conversation
// and pull a fresh list, the cheapest way to recover missed pushes
func (e *Engine) resync() {
	if active := e.ActiveConversation(); active != "" {
		e.emit(realtime.SignalJoin, active)
	}
	_ = e.RefreshConversations(context.Background())
}

// emit sends a signal, logging rather than failing: ephemeral signals
// (typing, join/leave) are safe to lose
func (e *Engine) emit(sig realtime.Signal, conversationId string) {
	if err := e.ch.Emit(sig, conversationId); err != nil {
		e.log.Debugf("emit %s failed: conversation_id=%s, error=%v", sig, conversationId, err)
	}
}

// notify pushes a transient notification, dropping when nobody drains
func (e *Engine) notify(level Level, message string, err error) {
	select {
	case e.notifications <- Notification{Level: level, Message: message, Err: err}:
	default:
	}
}

// Notifications returns the transient notification stream for the UI
func (e *Engine) Notifications() <-chan Notification {
	return e.notifications
}

// ===== Read model =====

// ActiveConversation returns the currently selected conversation id
func (e *Engine) ActiveConversation() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeConvId
}

// Conversations returns the conversation list, newest activity first
func (e *Engine) Conversations() []*api.Conversation {
	return e.convs.List()
}

// Messages returns the ordered message log for a conversation
func (e *Engine) Messages(conversationId string) []*api.Message {
	return e.msgs.Messages(conversationId)
}

// TotalUnread returns the badge value across all conversations
func (e *Engine) TotalUnread() int {
	return e.convs.TotalUnread()
}

// IsTyping reports whether the other side is typing in a conversation
func (e *Engine) IsTyping(conversationId string) bool {
	return e.typing.IsTyping(conversationId)
}

// IsOnline reports a participant's presence
func (e *Engine) IsOnline(userId string) bool {
	return e.presence.IsOnline(userId)
}

// LastSeen returns a participant's last-seen timestamp
func (e *Engine) LastSeen(userId string) int64 {
	return e.presence.LastSeen(userId)
}

// InputChanged feeds the local typing state machine
func (e *Engine) InputChanged(conversationId, text string) {
	e.typing.InputChanged(conversationId, text)
}
