// Package beeper is a client for the Beeper Desktop API: loosely-typed
// chat and message records in, normalized summaries out. Message listing
// walks the cursor-paginated source and applies count and time-window
// bounds while fetching as few pages as possible.
package beeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Desktop API address on the local machine.
const DefaultBaseURL = "http://localhost:23373"

// Client talks to the Beeper Desktop API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.Logger
}

// NewClient creates a Desktop API client. An empty baseURL selects the
// default local address.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		log:        log,
	}
}

// ListChats fetches all chat summaries and normalizes them.
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/v0/get-chats", nil, nil)
	if err != nil {
		return nil, opErr("list chats", err)
	}
	recs := items(resp)
	chats := make([]Chat, 0, len(recs))
	for _, r := range recs {
		chats = append(chats, normalizeChat(r))
	}
	c.log.Info("listed chats", zap.Int("count", len(chats)))
	return chats, nil
}

// GetChat fetches one chat summary.
func (c *Client) GetChat(ctx context.Context, chatID string) (Chat, error) {
	q := url.Values{"chatID": {chatID}}
	resp, err := c.doJSON(ctx, http.MethodGet, "/v0/get-chat", q, nil)
	if err != nil {
		return Chat{}, opErr("get chat", err)
	}
	m, ok := resp.(map[string]any)
	if !ok {
		return Chat{}, opErr("get chat", errors.New("unexpected response shape"))
	}
	return normalizeChat(record(m)), nil
}

// ListMessages returns chatID's messages in source order, applying limit
// (<= 0 means uncapped) and sinceMillis (<= 0 means unbounded; strictly
// older messages are excluded). Page ordering direction is unknown a
// priori and inferred per page; a descending page that crosses the since
// boundary ends pagination early, as does reaching limit or an empty
// page. Survivors keep source concatenation order; callers re-sort when
// they need chronology.
func (c *Client) ListMessages(ctx context.Context, chatID string, limit int, sinceMillis int64) ([]Message, error) {
	out := make([]Message, 0)
	cursor := ""
	pages := 0

	for {
		recs, next, err := c.messagePage(ctx, chatID, cursor)
		if err != nil {
			return nil, opErr("list messages", err)
		}
		if len(recs) == 0 {
			break
		}
		pages++

		msgs := make([]Message, 0, len(recs))
		stamps := make([]int64, 0, len(recs))
		for _, r := range recs {
			m := normalizeMessage(r)
			msgs = append(msgs, m)
			stamps = append(stamps, m.TimestampMillis)
		}

		// Direction is inferred from the page endpoints; short and
		// single-item pages are treated as descending.
		descending := len(stamps) < 2 || stamps[0] >= stamps[len(stamps)-1]

		stopped := false
		for _, m := range msgs {
			if sinceMillis > 0 && m.TimestampMillis < sinceMillis {
				if descending {
					// Everything after this point is older still.
					stopped = true
					break
				}
				// Ascending: newer messages may follow in this page.
				continue
			}
			out = append(out, m)
			if limit > 0 && len(out) >= limit {
				break
			}
		}

		if (limit > 0 && len(out) >= limit) || stopped {
			break
		}
		// Re-check the raw page floor: a descending page whose minimum fell
		// below the bound means every remaining page is older still.
		if sinceMillis > 0 && descending && len(stamps) > 0 && minMillis(stamps) < sinceMillis {
			break
		}
		if next == "" {
			break
		}
		cursor = next
	}

	c.log.Info("listed messages",
		zap.String("chat_id", chatID),
		zap.Int("count", len(out)),
		zap.Int("pages", pages),
	)
	return out, nil
}

type sendRequest struct {
	ChatID           string `json:"chatID"`
	Text             string `json:"text"`
	ReplyToMessageID string `json:"replyToMessageID,omitempty"`
	TransactionID    string `json:"transactionID"`
}

// SendMessage sends text to a chat, optionally as a reply to an earlier
// message. It returns the server-assigned message id when the response
// carries one.
func (c *Client) SendMessage(ctx context.Context, chatID, text, replyToID string) (string, error) {
	body := sendRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: replyToID,
		TransactionID:    uuid.NewString(),
	}
	resp, err := c.doJSON(ctx, http.MethodPost, "/v0/send-message", nil, body)
	if err != nil {
		return "", opErr("send message", err)
	}

	msgID := ""
	if m, ok := resp.(map[string]any); ok {
		msgID = record(m).stringOr("", messageIDFields...)
	}
	c.log.Info("message sent", zap.String("chat_id", chatID), zap.String("message_id", msgID))
	return msgID, nil
}

// messagePage fetches one page of raw message records and the next cursor.
func (c *Client) messagePage(ctx context.Context, chatID, cursor string) ([]record, string, error) {
	q := url.Values{"chatID": {chatID}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	resp, err := c.doJSON(ctx, http.MethodGet, "/v0/list-messages", q, nil)
	if err != nil {
		return nil, "", err
	}
	return items(resp), nextCursor(resp), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

var cursorFields = []string{"nextCursor", "cursor", "next_cursor"}

// items pulls the record list out of a response that is either a bare
// array or an object carrying the list under "items". Entries that are
// not objects are dropped rather than aborting the batch.
func items(v any) []record {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case map[string]any:
		if l, ok := t["items"].([]any); ok {
			raw = l
		}
	}
	out := make([]record, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, record(m))
		}
	}
	return out
}

func nextCursor(v any) string {
	if m, ok := v.(map[string]any); ok {
		return record(m).stringOr("", cursorFields...)
	}
	return ""
}

func minMillis(stamps []int64) int64 {
	m := stamps[0]
	for _, ts := range stamps[1:] {
		if ts < m {
			m = ts
		}
	}
	return m
}
