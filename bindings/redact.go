package bindings

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// secretPaths are the JSON fields of Secrets that never appear in logs.
// The OAuth client id is an identifier, not a credential, and stays
// visible.
var secretPaths = []string{
	"accounts_token",
	"anthropic_key",
	"openai_key",
	"oauth_client_secret",
	"redis_password",
}

// Redacted renders the secrets as JSON with every credential value
// overwritten. Fields that were never set stay empty, so the output
// still shows which credentials are configured.
func (s Secrets) Redacted() ([]byte, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bindings: encode secrets: %w", err)
	}

	for _, path := range secretPaths {
		if gjson.GetBytes(doc, path).String() == "" {
			continue
		}
		doc, err = sjson.SetBytes(doc, path, "[redacted]")
		if err != nil {
			return nil, fmt.Errorf("bindings: redact %s: %w", path, err)
		}
	}
	return doc, nil
}
