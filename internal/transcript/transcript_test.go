package transcript

import (
	"fmt"
	"testing"
	"time"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

func TestRenderPlain(t *testing.T) {
	msgs := []beeper.Message{
		{ID: "m2", SenderName: "Alice", Text: "how are you?", TimestampMillis: 2000},
		{ID: "m1", SenderName: "Alice", Text: "hi", TimestampMillis: 1000},
		{ID: "m3", IsFromMe: true, Text: "good thanks", TimestampMillis: 3000},
	}

	got := Render(msgs, false)
	want := "Alice: hi\nAlice: how are you?\nYou: good thanks"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderStamped(t *testing.T) {
	ts := time.Date(2025, 6, 15, 14, 32, 0, 0, time.Local).UnixMilli()
	msgs := []beeper.Message{
		{ID: "m1", SenderName: "Alice", Text: "hi", TimestampMillis: ts},
	}

	got := Render(msgs, true)
	want := fmt.Sprintf("[%s] Alice: hi", time.UnixMilli(ts).Format("2006-01-02 15:04"))
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderSkipsEmptyText(t *testing.T) {
	msgs := []beeper.Message{
		{ID: "m1", SenderName: "Alice", Text: "hi", TimestampMillis: 1000},
		{ID: "m2", SenderName: "Alice", Text: "   ", TimestampMillis: 2000},
		{ID: "m3", SenderName: "Alice", Text: "", TimestampMillis: 3000},
		{ID: "m4", SenderName: "Alice", Text: "bye", TimestampMillis: 4000},
	}

	got := Render(msgs, false)
	want := "Alice: hi\nAlice: bye"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if got := Render(msgs[1:3], false); got != "" {
		t.Errorf("Render() of empty-only messages = %q, want empty", got)
	}
}

func TestRenderEqualStampsKeepInputOrder(t *testing.T) {
	msgs := []beeper.Message{
		{ID: "m1", SenderName: "Alice", Text: "first", TimestampMillis: 1000},
		{ID: "m2", SenderName: "Bob", Text: "second", TimestampMillis: 1000},
	}

	got := Render(msgs, false)
	want := "Alice: first\nBob: second"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderUnknownSender(t *testing.T) {
	msgs := []beeper.Message{{ID: "m1", Text: "hello", TimestampMillis: 1000}}

	if got := Render(msgs, false); got != "Unknown: hello" {
		t.Errorf("Render() = %q, want Unknown: hello", got)
	}
}

func TestLastInboundID(t *testing.T) {
	tests := []struct {
		name string
		msgs []beeper.Message
		want string
	}{
		{
			"newest inbound wins",
			[]beeper.Message{
				{ID: "m1", TimestampMillis: 1000},
				{ID: "m2", TimestampMillis: 2000},
				{ID: "m3", IsFromMe: true, TimestampMillis: 3000},
			},
			"m2",
		},
		{
			"unsorted input",
			[]beeper.Message{
				{ID: "m2", TimestampMillis: 2000},
				{ID: "m1", TimestampMillis: 1000},
			},
			"m2",
		},
		{
			"all outbound",
			[]beeper.Message{
				{ID: "m1", IsFromMe: true, TimestampMillis: 1000},
			},
			"",
		},
		{
			"no messages",
			nil,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastInboundID(tt.msgs); got != tt.want {
				t.Errorf("LastInboundID() = %q, want %q", got, tt.want)
			}
		})
	}
}
