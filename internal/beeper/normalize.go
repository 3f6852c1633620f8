package beeper

// Alternate field names per logical field, in resolution order.
var (
	messageIDFields  = []string{"messageID", "message_id", "id"}
	senderNameFields = []string{"senderName", "sender_name", "sender", "author"}
	fromMeFields     = []string{"isSender", "is_sender"}
	textFields       = []string{"text", "body"}
	timestampFields  = []string{"timestampMs", "timestamp_ms", "timestamp"}

	chatIDFields  = []string{"chatID", "chat_id", "id"}
	titleFields   = []string{"title", "name"}
	unreadFields  = []string{"unreadCount", "unread_count"}
	previewFields = []string{"preview", "lastMessage", "last_message"}
	mutedFields   = []string{"isMuted", "is_muted", "muted"}
)

const noTitle = "(no title)"

// normalizeMessage maps a loose message record to a Message, defaulting
// each missing field independently. A partially-missing record still
// yields a usable message.
func normalizeMessage(r record) Message {
	return Message{
		ID:              r.stringOr("", messageIDFields...),
		SenderName:      r.stringOr("Unknown", senderNameFields...),
		IsFromMe:        r.boolOr(false, fromMeFields...),
		Text:            r.stringOr("", textFields...),
		TimestampMillis: r.millisOr(0, timestampFields...),
	}
}

// normalizeChat maps a loose chat record to a Chat. The preview-sender
// flag lives on the nested preview record when one is present.
func normalizeChat(r record) Chat {
	unread := r.intOr(0, unreadFields...)
	if unread < 0 {
		unread = 0
	}
	return Chat{
		ID:                r.stringOr("", chatIDFields...),
		Title:             r.stringOr(noTitle, titleFields...),
		UnreadCount:       unread,
		LastPreviewFromMe: r.sub(previewFields...).boolOr(false, fromMeFields...),
		Muted:             r.boolOr(false, mutedFields...),
	}
}
