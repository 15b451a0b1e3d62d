package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath replaces a leading ~ with the home directory and expands $VAR
// references. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// StateDir is where petal keeps files it writes: the TUI log and the
// serve certificate. $XDG_STATE_HOME wins over ~/.local/state.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "petal")
	}
	return ExpandPath(filepath.Join("~", ".local", "state", "petal"))
}

// StatePath joins name onto StateDir.
func StatePath(name string) string {
	return filepath.Join(StateDir(), name)
}
