// Package prefs persists the console's two client-local values: the theme
// preference and the queue-view filter. Both are best effort: a missing or
// invalid file degrades to defaults, and save failures are reported but never
// block the UI.
package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const fileName = "prefs.json"

type Prefs struct {
	Version int `json:"version"`

	// Theme is "light", "dark" or "" (auto-detect).
	Theme string `json:"theme,omitempty"`

	// QueueFilter restricts the queue view ("active", "archived", "" for all).
	QueueFilter string `json:"queueFilter,omitempty"`
}

func defaults() *Prefs {
	return &Prefs{Version: 1}
}

// Dir returns the prefs directory, honoring TASKDECK_HOME for fixtures/tests.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("TASKDECK_HOME")); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// Load reads prefs, returning defaults when the file is missing or malformed.
func Load() *Prefs {
	dir, err := Dir()
	if err != nil {
		return defaults()
	}
	b, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return defaults()
	}
	p := defaults()
	if err := json.Unmarshal(b, p); err != nil {
		return defaults()
	}
	if p.Theme != "light" && p.Theme != "dark" && p.Theme != "" {
		p.Theme = ""
	}
	return p
}

// Save writes prefs atomically (temp file + rename).
func Save(p *Prefs) error {
	if p == nil {
		return errors.New("nil prefs")
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	p.Version = 1
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, fileName))
}
