package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataPaths holds the resolved locations of the local SQLite stores
type DataPaths struct {
	Dir        string
	StudentsDB string
	CarsDB     string
}

// DetectDataDir returns the per-user data directory for voice-desk based on the operating system
func DetectDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "voice-desk"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library/Application Support/voice-desk"), nil
	case "linux":
		return filepath.Join(home, ".local/share/voice-desk"), nil
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "voice-desk"), nil
		}
		return filepath.Join(home, "AppData", "Local", "voice-desk"), nil
	default:
		return filepath.Join(home, ".voice-desk"), nil
	}
}

// Paths returns the data paths resolved from the configuration
func (c *Config) Paths() DataPaths {
	return DataPaths{
		Dir:        c.Data.Dir,
		StudentsDB: c.Data.StudentsDB,
		CarsDB:     c.Data.CarsDB,
	}
}

// StudentsDBExists checks if the students database file exists
func (p DataPaths) StudentsDBExists() bool {
	return fileExists(p.StudentsDB)
}

// CarsDBExists checks if the cars database file exists
func (p DataPaths) CarsDBExists() bool {
	return fileExists(p.CarsDB)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
