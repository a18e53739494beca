package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
)

// DefaultAgentPath is where the binding helper keeps its config,
// relative to the working directory.
const DefaultAgentPath = ".moltbook-agent.json"

// DefaultAPIBase is the production Moltbook endpoint.
const DefaultAPIBase = "https://www.moltbook.com"

// Agent is the persisted binding config.
//
// The file is a flat JSON mapping; BotAPIKey is optional and only
// written when bound explicitly.
type Agent struct {
	AppKey    string `json:"app_key,omitempty"`
	APIBase   string `json:"api_base,omitempty"`
	BotAPIKey string `json:"bot_api_key,omitempty"`
}

// LoadAgent reads the binding config from path.
//
// A missing or unreadable file yields an empty config rather than an
// error: the helper commands each decide whether a particular field is
// required and report that instead.
func LoadAgent(path string) Agent {
	b, err := os.ReadFile(path)
	if err != nil {
		return Agent{}
	}
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return Agent{}
	}
	var a Agent
	if err := json.Unmarshal(jb, &a); err != nil {
		return Agent{}
	}
	return a
}

// SaveAgent writes the binding config as indented JSON.
func SaveAgent(path string, a Agent) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// ResolveAPIBase returns the bound API base, or the default when the
// config has none, normalized either way.
func (a Agent) ResolveAPIBase() (string, error) {
	base := strings.TrimSpace(a.APIBase)
	if base == "" {
		base = DefaultAPIBase
	}
	return NormalizeAPIBase(base)
}
