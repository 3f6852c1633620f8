package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/BosTheCoder/beeper-triage/internal/config"
	"github.com/BosTheCoder/beeper-triage/internal/paths"
	"github.com/BosTheCoder/beeper-triage/internal/window"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the config file",
	}

	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), paths.ConfigPath())
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.ConfigPath())
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					fmt.Fprintln(cmd.OutOrStdout(), "No config file yet. Set a value with: beeper-triage config set <key> <value>")
					return nil
				}
				return fmt.Errorf("read config: %w", err)
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (model, window, base_url, cache_ttl, editor)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			cfg, err := config.Load(paths.ConfigPath())
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("read config: %w", err)
				}
				cfg = &config.Config{}
			}

			switch key {
			case "model":
				cfg.Model = value
			case "window":
				normalized, err := window.Normalize(value)
				if err != nil {
					return err
				}
				cfg.Window = normalized
			case "base_url":
				cfg.BaseURL = value
			case "cache_ttl":
				if d, err := time.ParseDuration(value); err != nil || d <= 0 {
					return fmt.Errorf("invalid cache_ttl %q (want a positive duration like 2m)", value)
				}
				cfg.CacheTTL = value
			case "editor":
				cfg.Editor = value
			default:
				return fmt.Errorf("unknown key %q (choose from model, window, base_url, cache_ttl, editor)", key)
			}

			if err := config.Save(paths.ConfigPath(), cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s.\n", key)
			return nil
		},
	}
}
