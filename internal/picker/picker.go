// Package picker provides the interactive chat selection screen.
package picker

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

// PickChat shows a filterable chat table and blocks until the user selects a
// chat or cancels. ok is false on cancel.
func PickChat(chats []beeper.Chat) (picked beeper.Chat, ok bool, err error) {
	app := tview.NewApplication()

	list := newChatTable()
	list.update(chats)

	filter := tview.NewInputField().SetLabel("Filter: ")
	filter.SetChangedFunc(func(text string) {
		list.update(match(chats, text))
	})
	filter.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter, tcell.KeyTab:
			app.SetFocus(list.Table)
		case tcell.KeyEscape:
			app.Stop()
		}
	})

	list.Table.SetSelectedFunc(func(row, col int) {
		if c, found := list.chatAt(row); found {
			picked = c
			ok = true
		}
		app.Stop()
	})

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(filter, 1, 0, true).
		AddItem(list.Table, 0, 1, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(root, true).Run(); err != nil {
		return beeper.Chat{}, false, fmt.Errorf("run picker: %w", err)
	}
	return picked, ok, nil
}

type chatTable struct {
	*tview.Table
	chats []beeper.Chat
}

func newChatTable() *chatTable {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats needing reply ")
	return &chatTable{Table: table}
}

// update refreshes the table with new data.
func (ct *chatTable) update(chats []beeper.Chat) {
	ct.chats = chats
	ct.Clear()

	// Header row.
	ct.SetCell(0, 0, tview.NewTableCell(" Chat").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	ct.SetCell(0, 1, tview.NewTableCell(" Unread").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, chat := range chats {
		row := i + 1
		title := chat.Title
		if chat.Muted {
			title += " (muted)"
		}
		unread := ""
		if chat.UnreadCount > 0 {
			unread = fmt.Sprintf("%d", chat.UnreadCount)
		}
		ct.SetCell(row, 0, tview.NewTableCell(" "+title).SetMaxWidth(50).SetExpansion(1))
		ct.SetCell(row, 1, tview.NewTableCell(" "+unread).SetMaxWidth(8))
	}
	if len(chats) > 0 {
		ct.Select(1, 0)
	}
}

// chatAt maps a table row back to its chat, accounting for the header.
func (ct *chatTable) chatAt(row int) (beeper.Chat, bool) {
	idx := row - 1
	if idx >= 0 && idx < len(ct.chats) {
		return ct.chats[idx], true
	}
	return beeper.Chat{}, false
}

// match keeps chats whose title contains every space-separated term,
// case-insensitively. An empty query keeps everything.
func match(chats []beeper.Chat, query string) []beeper.Chat {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return chats
	}

	var out []beeper.Chat
	for _, c := range chats {
		title := strings.ToLower(c.Title)
		keep := true
		for _, term := range terms {
			if !strings.Contains(title, term) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}
