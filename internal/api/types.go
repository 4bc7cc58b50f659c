package api

// Response represents the standard API envelope
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Conversation status values (server-owned)
const (
	StatusActive   = "active"
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// AttachmentKind classifies an attachment for validation purposes
type AttachmentKind string

// Attachment kinds
const (
	KindImage    AttachmentKind = "image"
	KindDocument AttachmentKind = "document"
)

// DeliveryState tracks a message through send/confirm/read.
// Pending and failed exist only client-side for optimistic sends.
type DeliveryState string

// Delivery states
const (
	DeliveryPending   DeliveryState = "pending"
	DeliverySent      DeliveryState = "sent"
	DeliveryDelivered DeliveryState = "delivered"
	DeliveryRead      DeliveryState = "read"
	DeliveryFailed    DeliveryState = "failed"
)

// UserSummary represents the other participant of a conversation
type UserSummary struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// PropertySummary represents the listing a conversation is about
type PropertySummary struct {
	Id     string   `json:"id"`
	Title  string   `json:"title"`
	Price  int64    `json:"price"`
	Images []string `json:"images,omitempty"`
}

// LastMessage is the preview shown in the conversation list
type LastMessage struct {
	Text         string `json:"text"`
	Timestamp    int64  `json:"timestamp"`
	SenderIsSelf bool   `json:"sender_is_self"`
}

// Conversation represents a conversation in canonical client shape
type Conversation struct {
	Id               string           `json:"id"`
	OtherParticipant UserSummary      `json:"other_participant"`
	Property         *PropertySummary `json:"property,omitempty"`
	LastMessage      *LastMessage     `json:"last_message,omitempty"`
	UnreadCount      int              `json:"unread_count"`
	Status           string           `json:"status"`
	UpdatedAt        int64            `json:"updated_at"`
}

// Attachment represents a hosted file reference
type Attachment struct {
	Type AttachmentKind `json:"type"`
	Url  string         `json:"url"`
	Name string         `json:"name"`
	Size int64          `json:"size,omitempty"`
}

// Message represents a message in canonical client shape
type Message struct {
	Id             string        `json:"id"`
	ConversationId string        `json:"conversation_id"`
	SenderId       string        `json:"sender_id"`
	ClientMsgId    string        `json:"client_msg_id,omitempty"`
	Content        string        `json:"content"`
	Attachments    []Attachment  `json:"attachments,omitempty"`
	CreatedAt      int64         `json:"created_at"`
	DeliveryState  DeliveryState `json:"delivery_state"`
	Read           bool          `json:"read"`
}

// SenderIsSelf reports whether the message was sent by the given user
func (m *Message) SenderIsSelf(selfId string) bool {
	return m.SenderId == selfId
}

// PresenceRecord represents a user's online status
type PresenceRecord struct {
	UserId   string `json:"user_id"`
	IsOnline bool   `json:"is_online"`
	LastSeen int64  `json:"last_seen"`
}

// ListConversationsOptions filters the conversation list server-side
type ListConversationsOptions struct {
	Status string
	Search string
	Limit  int
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	ConversationId string       `json:"conversation_id"`
	Content        string       `json:"content"`
	RecipientId    string       `json:"recipient_id"`
	ClientMsgId    string       `json:"client_msg_id"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// ListMessagesResponse represents a message page
type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

// ListConversationsResponse represents the conversation list
type ListConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
}
