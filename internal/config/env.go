package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds environment-sourced settings.
type Env struct {
	AccessToken     string `envconfig:"BEEPER_ACCESS_TOKEN"`
	BaseURL         string `envconfig:"BEEPER_BASE_URL"`
	OpenRouterKey   string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterModel string `envconfig:"OPENROUTER_MODEL"`
	Editor          string `envconfig:"EDITOR"`
}

// LoadEnv reads settings from the environment, sourcing a local .env file
// first when one exists.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	return e, nil
}
