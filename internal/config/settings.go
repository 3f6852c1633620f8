package config

import (
	"time"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

const (
	// DefaultWindow is the message window the interactive menu preselects.
	DefaultWindow = "7d"

	// DefaultCacheTTL bounds the age of a usable chat snapshot.
	DefaultCacheTTL = 2 * time.Minute
)

// Overrides carries flag-level settings that take precedence over the
// environment and the config file.
type Overrides struct {
	Model  string
	Window string
}

// Settings is the fully resolved runtime configuration.
type Settings struct {
	AccessToken   string
	BaseURL       string
	Model         string
	Window        string
	Editor        string
	OpenRouterKey string
	CacheTTL      time.Duration
}

// Resolve merges sources using precedence: flag > environment > config file
// > built-in default. file may be nil (no config file present).
func Resolve(ov Overrides, env Env, file *Config) Settings {
	if file == nil {
		file = &Config{}
	}

	s := Settings{
		AccessToken: env.AccessToken,
		BaseURL:     firstNonEmpty(env.BaseURL, file.BaseURL, beeper.DefaultBaseURL),
		Model:       firstNonEmpty(ov.Model, env.OpenRouterModel, file.Model),
		// Window stays empty when nothing sets it; the flow then asks
		// interactively.
		Window:        firstNonEmpty(ov.Window, file.Window),
		Editor:        firstNonEmpty(env.Editor, file.Editor),
		OpenRouterKey: env.OpenRouterKey,
		CacheTTL:      file.TTL(DefaultCacheTTL),
	}

	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
