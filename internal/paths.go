package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-user directories
const AppName = "newschat"

// StatePaths holds the per-user file locations
type StatePaths struct {
	ConfigFile string // optional YAML config
	StateDB    string // SQLite database holding the session id slot
	LogFile    string // log destination for the interactive screen
}

// DetectStatePaths resolves the XDG locations for config, state and logs
func DetectStatePaths() (StatePaths, error) {
	stateDB, err := xdg.DataFile(filepath.Join(AppName, "state.db"))
	if err != nil {
		return StatePaths{}, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	logFile, err := xdg.StateFile(filepath.Join(AppName, AppName+".log"))
	if err != nil {
		return StatePaths{}, fmt.Errorf("failed to resolve state directory: %w", err)
	}

	return StatePaths{
		ConfigFile: filepath.Join(xdg.ConfigHome, AppName, "config.yaml"),
		StateDB:    stateDB,
		LogFile:    logFile,
	}, nil
}

// ConfigExists reports whether the config file is present
func (sp StatePaths) ConfigExists() bool {
	_, err := os.Stat(sp.ConfigFile)
	return err == nil
}

// StateDBExists reports whether the state database has been created
func (sp StatePaths) StateDBExists() bool {
	_, err := os.Stat(sp.StateDB)
	return err == nil
}
