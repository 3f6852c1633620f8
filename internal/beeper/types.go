package beeper

// Message is one normalized chat message.
type Message struct {
	ID              string `json:"id"`
	SenderName      string `json:"senderName"`
	IsFromMe        bool   `json:"isFromMe"`
	Text            string `json:"text"`
	TimestampMillis int64  `json:"timestampMillis"`
}

// Chat is one normalized chat summary.
type Chat struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	UnreadCount       int    `json:"unreadCount"`
	LastPreviewFromMe bool   `json:"lastPreviewFromMe"`
	Muted             bool   `json:"muted"`
}
