package util

import (
	"os"
)

// IsStdoutPiped returns true if stdout is being piped to another command,
// e.g. `runpod status --all | grep running`.
func IsStdoutPiped() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
