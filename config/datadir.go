package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileForDataDir returns the path of the abicodec config file in the data
// directory, or the empty string when there is none. Finding the file with more
// than one extension is an error.
func ConfigFileForDataDir(dataDir string) (string, error) {
	fi, err := os.Stat(dataDir)
	if err != nil {
		return "", fmt.Errorf("ConfigFileForDataDir(): %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("ConfigFileForDataDir(): %s is not a directory", dataDir)
	}

	found := ""
	for _, fileType := range FileTypes {
		candidate := filepath.Join(dataDir, FileName+"."+fileType)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("config filename (%s) in data directory (%s) matched more than one filetype: %v",
				FileName, dataDir, FileTypes)
		}
		found = candidate
	}
	return found, nil
}
