package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
	"github.com/BosTheCoder/beeper-triage/internal/clipboard"
	"github.com/BosTheCoder/beeper-triage/internal/config"
	"github.com/BosTheCoder/beeper-triage/internal/editor"
	"github.com/BosTheCoder/beeper-triage/internal/export"
	"github.com/BosTheCoder/beeper-triage/internal/llm"
	"github.com/BosTheCoder/beeper-triage/internal/picker"
	"github.com/BosTheCoder/beeper-triage/internal/transcript"
	"github.com/BosTheCoder/beeper-triage/internal/triage"
	"github.com/BosTheCoder/beeper-triage/internal/window"
)

// Options are the per-run knobs set by command-line flags.
type Options struct {
	MaxChats     int
	MaxMessages  int
	IncludeMuted bool
	DryRun       bool
	NoLLM        bool
	Refresh      bool
}

const (
	actionReply  = "reply"
	actionCopy   = "copy"
	actionExport = "export"
)

// Flow runs one interactive triage session from chat listing to reply.
type Flow struct {
	settings config.Settings
	opts     Options
	svc      *triage.Service
	llm      *llm.Client
	log      *zap.Logger

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// Seams for the pieces that need a terminal or the host system.
	pickChat   func([]beeper.Chat) (beeper.Chat, bool, error)
	edit       func(editorCmd, initial string) (string, error)
	copyText   func(text string) error
	exportRoot string
}

// NewFlow builds a Flow wired to the real terminal, editor and clipboard.
func NewFlow(settings config.Settings, opts Options, svc *triage.Service, llmClient *llm.Client, log *zap.Logger) *Flow {
	return &Flow{
		settings:   settings,
		opts:       opts,
		svc:        svc,
		llm:        llmClient,
		log:        log,
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		errOut:     os.Stderr,
		pickChat:   picker.PickChat,
		edit:       editor.Edit,
		copyText:   clipboard.Copy,
		exportRoot: export.DefaultRoot,
	}
}

// Run drives the triage session and returns the process exit code.
func (f *Flow) Run(ctx context.Context) int {
	chats, err := f.svc.Chats(ctx, f.opts.Refresh)
	if err != nil {
		return f.fail(err)
	}

	candidates := triage.NeedsReply(chats, f.opts.IncludeMuted, f.opts.MaxChats)
	if len(candidates) == 0 {
		fmt.Fprintln(f.out, "No chats need reply.")
		return 0
	}

	picked, ok, err := f.pickChat(candidates)
	if err != nil {
		return f.fail(err)
	}
	if !ok {
		fmt.Fprintln(f.out, "No chat selected.")
		return 0
	}
	f.log.Info("chat picked", zap.String("chat_id", picked.ID))

	// The list we filtered on may be a cached snapshot, so refresh the
	// picked chat's header before going further.
	if fresh, err := f.svc.Chat(ctx, picked.ID); err == nil {
		picked = fresh
	} else {
		f.log.Warn("chat refresh failed", zap.Error(err))
	}

	key := f.settings.Window
	if key == "" {
		key, ok = f.askWindow()
		if !ok {
			fmt.Fprintln(f.out, "Cancelled.")
			return 0
		}
	}
	sinceMillis := window.SinceMillis(key, time.Now())

	msgs, err := f.svc.Messages(ctx, picked.ID, f.opts.MaxMessages, sinceMillis)
	if err != nil {
		return f.fail(err)
	}

	plain := transcript.Render(msgs, false)
	if plain == "" {
		if sinceMillis > 0 {
			fmt.Fprintln(f.out, "No messages found in the selected time window.")
		} else {
			fmt.Fprintln(f.out, "No message content available.")
		}
		return 0
	}
	replyTo := transcript.LastInboundID(msgs)

	action, ok := f.askAction()
	if !ok {
		fmt.Fprintln(f.out, "Cancelled.")
		return 0
	}

	switch action {
	case actionCopy:
		return f.runCopy(msgs)
	case actionExport:
		return f.runExport(picked.Title, msgs)
	default:
		return f.runReply(ctx, picked.ID, plain, replyTo)
	}
}

func (f *Flow) runCopy(msgs []beeper.Message) int {
	stamped := transcript.Render(msgs, true)
	if err := f.copyText(stamped); err != nil {
		if errors.Is(err, clipboard.ErrNoTool) {
			fmt.Fprintln(f.out, "No clipboard tool found. Install one of: clip.exe (WSL), wl-copy, xclip, xsel")
			return 1
		}
		return f.fail(err)
	}
	fmt.Fprintln(f.out, "Transcript copied to clipboard.")
	return 0
}

func (f *Flow) runExport(chatTitle string, msgs []beeper.Message) int {
	stamped := transcript.Render(msgs, true)
	dir, err := export.Write(f.exportRoot, chatTitle, stamped, msgs)
	if err != nil {
		return f.fail(err)
	}
	f.log.Info("transcript exported", zap.String("dir", dir))
	fmt.Fprintln(f.out, "Exported transcript to:", dir)
	return 0
}

func (f *Flow) runReply(ctx context.Context, chatID, plainTranscript, replyTo string) int {
	draft := ""
	if !f.opts.NoLLM {
		if f.settings.Model == "" {
			fmt.Fprintln(f.out, "OPENROUTER_MODEL or --model is required.")
			return 1
		}
		if f.settings.OpenRouterKey == "" {
			fmt.Fprintln(f.out, "Missing env var: OPENROUTER_API_KEY")
			return 1
		}
		var err error
		draft, err = f.llm.DraftReply(ctx, f.settings.Model, plainTranscript)
		if err != nil {
			return f.fail(err)
		}
	}

	edited, err := f.edit(f.settings.Editor, draft)
	if err != nil {
		return f.fail(err)
	}
	if edited == "" {
		fmt.Fprintln(f.out, "Empty message, aborting.")
		return 0
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Draft reply:")
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, edited)

	if !f.confirm("\nSend this message?") {
		fmt.Fprintln(f.out, "Cancelled.")
		return 0
	}
	if f.opts.DryRun {
		fmt.Fprintln(f.out, "Dry run enabled. Not sending.")
		return 0
	}

	msgID, err := f.svc.Send(ctx, chatID, edited, replyTo)
	if err != nil {
		return f.fail(err)
	}
	f.log.Info("reply sent", zap.String("chat_id", chatID), zap.String("message_id", msgID))
	fmt.Fprintln(f.out, "Message sent.")
	return 0
}

// askWindow prints the window menu and reads a choice. ok is false when the
// user cancels with EOF.
func (f *Flow) askWindow() (string, bool) {
	for {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, "Message window:")
		for i, key := range window.Keys {
			marker := ""
			if key == config.DefaultWindow {
				marker = " (default)"
			}
			fmt.Fprintf(f.out, "  [%d] %s%s\n", i+1, window.Labels[key], marker)
		}

		line, err := f.readLine("> ")
		if err != nil {
			return "", false
		}
		choice := strings.TrimSpace(line)
		if choice == "" {
			return config.DefaultWindow, true
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(window.Keys) {
			return window.Keys[n-1], true
		}
		if key, err := window.Normalize(choice); err == nil {
			return key, true
		}
		fmt.Fprintln(f.out, "Invalid choice. Try again.")
	}
}

// askAction reads one of the post-transcript actions. ok is false when the
// user cancels with EOF.
func (f *Flow) askAction() (string, bool) {
	for {
		line, err := f.readLine("\nAction: [1] Reply  [2] Copy to clipboard  [3] Export to folder\n> ")
		if err != nil {
			return "", false
		}
		switch strings.TrimSpace(line) {
		case "", "1":
			return actionReply, true
		case "2":
			return actionCopy, true
		case "3":
			return actionExport, true
		}
		fmt.Fprintln(f.out, "Invalid choice. Enter 1, 2, or 3.")
	}
}

// confirm asks a yes/no question, defaulting to no.
func (f *Flow) confirm(prompt string) bool {
	line, err := f.readLine(prompt + " [y/N]: ")
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (f *Flow) readLine(prompt string) (string, error) {
	fmt.Fprint(f.out, prompt)
	line, err := f.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// fail logs err and reports it on stderr as `error: <msg>`.
func (f *Flow) fail(err error) int {
	f.log.Error("triage failed", zap.Error(err))
	fmt.Fprintln(f.errOut, "error:", err)
	return 1
}
