package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/BosTheCoder/beeper-triage/internal/app"
	"github.com/BosTheCoder/beeper-triage/internal/config"
	"github.com/BosTheCoder/beeper-triage/internal/paths"
	"github.com/BosTheCoder/beeper-triage/internal/window"
)

func newRootCmd() *cobra.Command {
	var (
		model         string
		messageWindow string
		maxChats      int
		maxMessages   int
		includeMuted  bool
		dryRun        bool
		noLLM         bool
		refresh       bool
	)

	cmd := &cobra.Command{
		Use:   "beeper-triage",
		Short: "Triage Beeper chats and draft replies",
		Long: "beeper-triage lists chats still waiting on you, lets you pick one,\n" +
			"shows its recent history, and drafts a reply you can edit and send.",
		// main prints returned errors itself as `error: <msg>` on stderr.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return errors.New("triage is interactive; run it from a terminal")
			}
			if maxChats < 1 {
				return errors.New("--max-chats must be at least 1")
			}
			if maxMessages < 0 {
				return errors.New("--max-messages cannot be negative")
			}

			settings, err := resolveSettings(config.Overrides{Model: model, Window: messageWindow})
			if err != nil {
				return err
			}
			if settings.AccessToken == "" {
				return errors.New("missing env var: BEEPER_ACCESS_TOKEN")
			}
			if settings.Window != "" {
				key, err := window.Normalize(settings.Window)
				if err != nil {
					return err
				}
				settings.Window = key
			}

			p := app.Params{
				Settings: settings,
				Options: app.Options{
					MaxChats:     maxChats,
					MaxMessages:  maxMessages,
					IncludeMuted: includeMuted,
					DryRun:       dryRun,
					NoLLM:        noLLM,
					Refresh:      refresh,
				},
			}

			// Run exits the process with the flow's code once it shuts down.
			fx.New(app.Module(p)).Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "OpenRouter model override")
	cmd.Flags().StringVar(&messageWindow, "message-window", "", "time window for messages (today, 2d, 7d, 14d, 30d, 60d, 365d, all)")
	cmd.Flags().IntVar(&maxChats, "max-chats", 50, "maximum chats offered for triage")
	cmd.Flags().IntVar(&maxMessages, "max-messages", 0, "safety cap for fetched messages (0 = no cap)")
	cmd.Flags().BoolVar(&includeMuted, "include-muted", false, "offer muted chats too")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "stop right before sending")
	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip drafting and open an empty editor")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached chat list")

	cmd.AddCommand(newChatsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// resolveSettings merges flag overrides, the environment and the config
// file. A missing config file is fine.
func resolveSettings(ov config.Overrides) (config.Settings, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, err
	}

	file, err := config.Load(paths.ConfigPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config.Settings{}, fmt.Errorf("read config: %w", err)
		}
		file = nil
	}
	return config.Resolve(ov, env, file), nil
}
