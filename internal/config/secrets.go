package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Secrets are the channel credentials. They are read once at startup and
// never reloaded.
type Secrets struct {
	ChannelSecret      string `env:"LINE_CHANNEL_SECRET,required,notEmpty"`
	ChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN,required,notEmpty"`
}

// LoadSecrets reads the credentials from the environment. When envFile is
// set and exists it is loaded first; variables already set win.
func LoadSecrets(envFile string) (Secrets, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("parse secrets: %w", err)
	}
	return s, nil
}
