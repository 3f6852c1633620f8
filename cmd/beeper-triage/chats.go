package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
	"github.com/BosTheCoder/beeper-triage/internal/cache"
	"github.com/BosTheCoder/beeper-triage/internal/config"
	"github.com/BosTheCoder/beeper-triage/internal/logging"
	"github.com/BosTheCoder/beeper-triage/internal/paths"
	"github.com/BosTheCoder/beeper-triage/internal/triage"
)

func newChatsCmd() *cobra.Command {
	var (
		all          bool
		includeMuted bool
		maxChats     int
		asJSON       bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats needing reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(config.Overrides{})
			if err != nil {
				return err
			}
			if settings.AccessToken == "" {
				return errors.New("missing env var: BEEPER_ACCESS_TOKEN")
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			log, err := logging.New(paths.LogPath(), uuid.NewString())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client := beeper.NewClient(settings.BaseURL, settings.AccessToken, log)
			var db *cache.DB
			if opened, openErr := cache.Open(paths.CacheDBPath()); openErr == nil {
				if _, migErr := opened.Migrate(); migErr == nil {
					db = opened
					defer func() { _ = db.Close() }()
				} else {
					_ = opened.Close()
				}
			}
			svc := triage.NewService(client, db, settings.CacheTTL, log)

			chats, err := svc.Chats(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			if !all {
				chats = triage.NeedsReply(chats, includeMuted, maxChats)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(out, chats)
			}
			for _, c := range chats {
				marker := " "
				if c.UnreadCount > 0 {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-40s %s\n", marker, c.Title, c.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include chats that do not need a reply")
	cmd.Flags().BoolVar(&includeMuted, "include-muted", false, "include muted chats")
	cmd.Flags().IntVar(&maxChats, "max-chats", 0, "limit the list (0 = no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached chat list")

	return cmd
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
