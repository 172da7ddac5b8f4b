// Package kanbandir provides names for the files kanban keeps under its
// data directory.
package kanbandir

import "path/filepath"

const (
	// Dir is the name of the default data directory, relative to the home directory.
	Dir = ".kanban"

	// ConfigFile is the config file name, both in the data directory and
	// in a project directory.
	ConfigFile = "kanban.toml"

	// LogFile receives log output while the TUI owns the terminal.
	LogFile = "kanban.log"
)

// DirPath returns the data directory under home.
func DirPath(home string) string {
	if home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the user config file under home.
func ConfigPath(home string) string {
	return filepath.Join(DirPath(home), ConfigFile)
}

// LogPath returns the log file inside a data directory.
func LogPath(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, LogFile)
}
