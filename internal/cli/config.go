package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// cliState holds login state persisted to disk between commands.
type cliState struct {
	Token string `yaml:"token,omitempty"`
}

// statePath returns the path to the CLI state file.
func statePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "realty", "session.yaml"), nil
}

// loadState reads the CLI state from disk.
// Returns a zero-value state if the file doesn't exist.
func loadState() (cliState, error) {
	path, err := statePath()
	if err != nil {
		return cliState{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cliState{}, nil
	}
	if err != nil {
		return cliState{}, fmt.Errorf("reading session state: %w", err)
	}

	var st cliState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return cliState{}, fmt.Errorf("parsing session state: %w", err)
	}

	return st, nil
}

// saveState writes the CLI state to disk.
func saveState(st cliState) error {
	path, err := statePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}
