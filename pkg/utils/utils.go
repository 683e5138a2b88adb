package utils

import (
	"os"
	"path/filepath"
)

// GetDefaultHistoryDir returns the directory used for the local history store
// when none is configured.
func GetDefaultHistoryDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// If we can't resolve a cache directory, fall back to local directory
		return "snaptext-history"
	}
	return filepath.Join(cacheDir, "snaptext", "history")
}
