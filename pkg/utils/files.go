package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource reads a program file and returns its text together with the
// directory it lives in, which is where gobf.toml lookup starts.
func ReadSource(relPath string) (source string, baseDir string, err error) {
	fullPath, baseDir, err := GetPathInfo(relPath)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read source file %q: %w", relPath, err)
	}
	return string(data), baseDir, nil
}
