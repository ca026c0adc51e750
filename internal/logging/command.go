package logging

import (
	"log/slog"
	"time"
)

// quiet lists commands that only print local information.
var quiet = map[string]bool{
	"realty version": true,
	"realty status":  true,
	"realty help":    true,
}

// Command runs fn and logs the command path, outcome and duration.
// Failed commands log at warn with the error.
func Command(path string, fn func() error) error {
	if quiet[path] {
		return fn()
	}

	start := time.Now()
	err := fn()
	duration := time.Since(start)

	if err != nil {
		slog.Warn("command failed",
			"command", path,
			"duration", duration.String(),
			"error", err,
		)
		return err
	}

	slog.Debug("command",
		"command", path,
		"duration", duration.String(),
	)
	return nil
}
