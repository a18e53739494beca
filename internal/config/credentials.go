package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// credentials is the scheduler credentials file shape. Extra keys are
// tolerated; only api_key matters.
type credentials struct {
	APIKey string `json:"api_key"`
}

// DefaultCredentialsPath returns ~/.config/moltbook/credentials.json.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "moltbook", "credentials.json")
}

// LoadAPIKey reads the api_key from the credentials file at path.
// Missing file, malformed JSON, or an empty key are all fatal for the
// caller; no network call should be attempted after a failure here.
func LoadAPIKey(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("credentials not found: %s", path)
		}
		return "", fmt.Errorf("read credentials %s: %w", path, err)
	}
	var c credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return "", fmt.Errorf("parse credentials %s: %w", path, err)
	}
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return "", fmt.Errorf("api_key missing in credentials file %s", path)
	}
	return key, nil
}
