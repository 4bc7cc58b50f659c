package api

// Wire shapes as the backend actually emits them. Payloads are not entirely
// uniform: ids arrive as "id" or "_id" depending on the endpoint, the other
// participant may come as "otherUser" or "participant", and read flags show
// up as "read" or "isRead". Everything is normalized here, at the boundary;
// nothing past this package branches on raw field presence.

type userWire struct {
	Id          string `json:"id"`
	AltId       string `json:"_id"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
}

type propertyWire struct {
	Id     string   `json:"id"`
	AltId  string   `json:"_id"`
	Title  string   `json:"title"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
}

type lastMessageWire struct {
	Text         string `json:"text"`
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"`
	SenderIsSelf bool   `json:"sender_is_self"`
}

type conversationWire struct {
	Id          string           `json:"id"`
	AltId       string           `json:"_id"`
	OtherUser   *userWire        `json:"otherUser"`
	Participant *userWire        `json:"participant"`
	Property    *propertyWire    `json:"property"`
	LastMessage *lastMessageWire `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
	Status      string           `json:"status"`
	UpdatedAt   int64            `json:"updated_at"`
}

type attachmentWire struct {
	Type string `json:"type"`
	Url  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type messageWire struct {
	Id             string           `json:"id"`
	AltId          string           `json:"_id"`
	ConversationId string           `json:"conversation_id"`
	SenderId       string           `json:"sender_id"`
	ClientMsgId    string           `json:"client_msg_id"`
	Content        string           `json:"content"`
	Attachments    []attachmentWire `json:"attachments"`
	CreatedAt      int64            `json:"created_at"`
	Read           bool             `json:"read"`
	IsRead         bool             `json:"isRead"`
}

type presenceWire struct {
	UserId   string `json:"user_id"`
	Id       string `json:"id"`
	IsOnline bool   `json:"is_online"`
	Online   bool   `json:"online"`
	LastSeen int64  `json:"last_seen"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (w *userWire) normalize() UserSummary {
	if w == nil {
		return UserSummary{}
	}
	return UserSummary{
		Id:          firstNonEmpty(w.Id, w.AltId),
		DisplayName: firstNonEmpty(w.DisplayName, w.Name),
		Phone:       w.Phone,
		Avatar:      w.Avatar,
	}
}

func (w *conversationWire) normalize() *Conversation {
	conv := &Conversation{
		Id:          firstNonEmpty(w.Id, w.AltId),
		UnreadCount: w.UnreadCount,
		Status:      w.Status,
		UpdatedAt:   w.UpdatedAt,
	}

	other := w.OtherUser
	if other == nil {
		other = w.Participant
	}
	conv.OtherParticipant = other.normalize()

	if w.Property != nil {
		conv.Property = &PropertySummary{
			Id:     firstNonEmpty(w.Property.Id, w.Property.AltId),
			Title:  w.Property.Title,
			Price:  w.Property.Price,
			Images: w.Property.Images,
		}
	}

	if w.LastMessage != nil {
		conv.LastMessage = &LastMessage{
			Text:         firstNonEmpty(w.LastMessage.Text, w.LastMessage.Content),
			Timestamp:    w.LastMessage.Timestamp,
			SenderIsSelf: w.LastMessage.SenderIsSelf,
		}
	}

	if conv.UnreadCount < 0 {
		conv.UnreadCount = 0
	}

	return conv
}

func (w *messageWire) normalize() *Message {
	msg := &Message{
		Id:             firstNonEmpty(w.Id, w.AltId),
		ConversationId: w.ConversationId,
		SenderId:       w.SenderId,
		ClientMsgId:    w.ClientMsgId,
		Content:        w.Content,
		CreatedAt:      w.CreatedAt,
		Read:           w.Read || w.IsRead,
		DeliveryState:  DeliverySent,
	}
	if msg.Read {
		msg.DeliveryState = DeliveryRead
	}
	for _, a := range w.Attachments {
		msg.Attachments = append(msg.Attachments, Attachment{
			Type: AttachmentKind(a.Type),
			Url:  a.Url,
			Name: a.Name,
			Size: a.Size,
		})
	}
	return msg
}

func (w *presenceWire) normalize() *PresenceRecord {
	return &PresenceRecord{
		UserId:   firstNonEmpty(w.UserId, w.Id),
		IsOnline: w.IsOnline || w.Online,
		LastSeen: w.LastSeen,
	}
}
