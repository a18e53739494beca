package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAPIKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	t.Run("ok", func(t *testing.T) {
		path := write("ok.json", `{"api_key":"moltbook_k1","agent_name":"claw"}`)
		key, err := LoadAPIKey(path)
		if err != nil {
			t.Fatalf("LoadAPIKey: %v", err)
		}
		if key != "moltbook_k1" {
			t.Fatalf("key = %q", key)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAPIKey(filepath.Join(dir, "nope.json"))
		if err == nil || !strings.Contains(err.Error(), "credentials not found") {
			t.Fatalf("want credentials-not-found error, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := write("bad.json", `{"api_key": `)
		if _, err := LoadAPIKey(path); err == nil {
			t.Fatal("want parse error")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		path := write("nokey.json", `{"agent_name":"claw"}`)
		_, err := LoadAPIKey(path)
		if err == nil || !strings.Contains(err.Error(), "api_key missing") {
			t.Fatalf("want api_key-missing error, got %v", err)
		}
	})

	t.Run("blank key", func(t *testing.T) {
		path := write("blank.json", `{"api_key":"   "}`)
		if _, err := LoadAPIKey(path); err == nil {
			t.Fatal("want api_key-missing error")
		}
	})
}
