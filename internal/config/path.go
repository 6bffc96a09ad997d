// Package config loads linguaflow's pricing configuration and resolves
// user-supplied filesystem paths.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the current user's home directory and
// expands $VAR references, so flags like --database accept paths the way a
// shell would. An unresolvable home directory leaves the tilde in place.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
