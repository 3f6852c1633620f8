package beeper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", zap.NewNop())
}

func msg(id string, ts int64) map[string]any {
	return map[string]any{
		"messageID":   id,
		"senderName":  "Alice",
		"text":        "text-" + id,
		"timestampMs": ts,
	}
}

// servePages serves scripted message pages. Page 0 answers the cursorless
// request; page i links forward with cursor "p<i+1>". fetches counts page
// requests so tests can assert early termination.
func servePages(t *testing.T, pages [][]map[string]any, fetches *int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/list-messages" {
			t.Errorf("path = %q, want /v0/list-messages", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		if got := r.URL.Query().Get("chatID"); got != "chat-1" {
			t.Errorf("chatID = %q, want chat-1", got)
		}

		idx := 0
		if cur := r.URL.Query().Get("cursor"); cur != "" {
			idx, _ = strconv.Atoi(strings.TrimPrefix(cur, "p"))
		}
		*fetches++

		resp := map[string]any{"items": pages[idx]}
		if idx+1 < len(pages) {
			resp["nextCursor"] = "p" + strconv.Itoa(idx+1)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func wantIDs(t *testing.T, msgs []Message, want ...string) {
	t.Helper()
	got := make([]string, len(msgs))
	for i, m := range msgs {
		got[i] = m.ID
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("message ids = %v, want %v", got, want)
	}
}

// A descending page crossing the since boundary stops pagination: the
// below-bound message and everything after it are dropped, and no further
// page is fetched.
func TestListMessagesDescendingEarlyStop(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 100), msg("b", 90), msg("c", 80)},
		{msg("x", 70)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 85)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a", "b")
	if fetches != 1 {
		t.Errorf("pages fetched = %d, want 1 (early termination)", fetches)
	}
}

// On an ascending page an out-of-window message is skipped individually;
// newer messages later in the same page (and later pages) still arrive.
func TestListMessagesAscendingSkips(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 80), msg("b", 90), msg("c", 100)},
		{msg("d", 110), msg("e", 120)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 85)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "b", "c", "d", "e")
	if fetches != 2 {
		t.Errorf("pages fetched = %d, want 2", fetches)
	}
}

// limit caps the result exactly and stops fetching at the page containing
// the limit-th match.
func TestListMessagesLimit(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 100), msg("b", 90)},
		{msg("c", 80), msg("d", 70)},
		{msg("e", 60), msg("f", 50)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 3, 0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a", "b", "c")
	if fetches != 2 {
		t.Errorf("pages fetched = %d, want 2 (stop at the page with the 3rd match)", fetches)
	}
}

// An empty page terminates pagination regardless of limit and window.
func TestListMessagesEmptyPageStops(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 100), msg("b", 90)},
		{},
		{msg("z", 80)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 10, 0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a", "b")
	if fetches != 2 {
		t.Errorf("pages fetched = %d, want 2 (empty page consumed, nothing after)", fetches)
	}
}

// A single-item page has no measurable direction and is treated as
// descending, so a below-bound item ends pagination.
func TestListMessagesSingleItemPageDescending(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 50)},
		{msg("b", 40)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 60)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got)
	if fetches != 1 {
		t.Errorf("pages fetched = %d, want 1", fetches)
	}
}

// sinceMillis is a strict lower bound: a message stamped exactly at the
// boundary stays in.
func TestListMessagesSinceBoundaryInclusive(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 85)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 85)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a")
}

// Without limit or window the walk concatenates all pages in fetch order.
func TestListMessagesAllPages(t *testing.T) {
	fetches := 0
	pages := [][]map[string]any{
		{msg("a", 100), msg("b", 90)},
		{msg("c", 80), msg("d", 70)},
	}
	c := newTestClient(t, servePages(t, pages, &fetches))

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a", "b", "c", "d")
	if fetches != 2 {
		t.Errorf("pages fetched = %d, want 2", fetches)
	}
}

// The source may answer with a bare JSON array and no cursor envelope.
func TestListMessagesBareArray(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{msg("a", 100), msg("b", 90)})
	})
	c := newTestClient(t, handler)

	got, err := c.ListMessages(context.Background(), "chat-1", 0, 0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	wantIDs(t, got, "a", "b")
}

func TestListMessagesBackendError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bridge unavailable", http.StatusInternalServerError)
	})
	c := newTestClient(t, handler)

	_, err := c.ListMessages(context.Background(), "chat-1", 0, 0)
	if err == nil {
		t.Fatal("ListMessages() expected error")
	}

	var opError *OpError
	if !errors.As(err, &opError) {
		t.Fatalf("error type = %T, want *OpError", err)
	}
	if opError.Op != "list messages" {
		t.Errorf("Op = %q, want list messages", opError.Op)
	}
	cause := opError.Unwrap()
	if cause == nil || !strings.Contains(cause.Error(), "500") || !strings.Contains(cause.Error(), "bridge unavailable") {
		t.Errorf("cause = %v, want status and body text", cause)
	}
}

func TestListChats(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/get-chats" {
			t.Errorf("path = %q, want /v0/get-chats", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"chatID": "c1", "title": "Team", "unreadCount": 2},
				{"id": "c2", "name": "Bob", "muted": true, "preview": map[string]any{"is_sender": true}},
				{"id": "c3"},
			},
		})
	})
	c := newTestClient(t, handler)

	chats, err := c.ListChats(context.Background())
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(chats) != 3 {
		t.Fatalf("len(chats) = %d, want 3", len(chats))
	}
	if chats[0].ID != "c1" || chats[0].Title != "Team" || chats[0].UnreadCount != 2 {
		t.Errorf("chats[0] = %+v", chats[0])
	}
	if chats[1].ID != "c2" || !chats[1].Muted || !chats[1].LastPreviewFromMe {
		t.Errorf("chats[1] = %+v", chats[1])
	}
	if chats[2].Title != "(no title)" {
		t.Errorf("chats[2].Title = %q, want (no title)", chats[2].Title)
	}
}

func TestGetChat(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/get-chat" {
			t.Errorf("path = %q, want /v0/get-chat", r.URL.Path)
		}
		if got := r.URL.Query().Get("chatID"); got != "c1" {
			t.Errorf("chatID = %q, want c1", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"chatID": "c1", "title": "Team", "unread_count": 5})
	})
	c := newTestClient(t, handler)

	chat, err := c.GetChat(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if chat.ID != "c1" || chat.Title != "Team" || chat.UnreadCount != 5 {
		t.Errorf("chat = %+v", chat)
	}
}

func TestSendMessage(t *testing.T) {
	var body sendRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v0/send-message" {
			t.Errorf("request = %s %s, want POST /v0/send-message", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"messageID": "srv-1"})
	})
	c := newTestClient(t, handler)

	id, err := c.SendMessage(context.Background(), "c1", "hello", "m9")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if id != "srv-1" {
		t.Errorf("message id = %q, want srv-1", id)
	}
	if body.ChatID != "c1" || body.Text != "hello" || body.ReplyToMessageID != "m9" {
		t.Errorf("request body = %+v", body)
	}
	if body.TransactionID == "" {
		t.Error("TransactionID is empty, want a generated id")
	}
}

func TestSendMessageError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not connected", http.StatusBadGateway)
	})
	c := newTestClient(t, handler)

	_, err := c.SendMessage(context.Background(), "c1", "hello", "")
	var opError *OpError
	if !errors.As(err, &opError) || opError.Op != "send message" {
		t.Fatalf("error = %v, want *OpError with op send message", err)
	}
}
