package bindings

import (
	"fmt"
	"os"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Secrets holds the credential strings an environment needs, decoded
// from REWIND_-prefixed variables. Values already present in the process
// environment take precedence over .env files.
type Secrets struct {
	// AccountsToken authenticates against the user-account service.
	AccountsToken string `env:"REWIND_ACCOUNTS_TOKEN" json:"accounts_token"`

	// AnthropicKey is the Anthropic API key.
	AnthropicKey string `env:"REWIND_ANTHROPIC_KEY" json:"anthropic_key"`

	// OpenAIKey is the OpenAI API key.
	OpenAIKey string `env:"REWIND_OPENAI_KEY" json:"openai_key"`

	// OAuthClientID and OAuthClientSecret form the OAuth client pair.
	OAuthClientID     string `env:"REWIND_OAUTH_CLIENT_ID" json:"oauth_client_id"`
	OAuthClientSecret string `env:"REWIND_OAUTH_CLIENT_SECRET" json:"oauth_client_secret"`

	// RedisPassword unlocks the redis object store backend, when used.
	RedisPassword string `env:"REWIND_REDIS_PASSWORD" json:"redis_password"`
}

// LoadSecrets layers the given .env files into the process environment
// (existing variables win, missing files are skipped) and then decodes
// the Secrets struct.
func LoadSecrets(files ...string) (Secrets, error) {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Secrets{}, fmt.Errorf("bindings: load env file %s: %w", f, err)
		}
	}

	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("bindings: parse environment: %w", err)
	}
	return s, nil
}
