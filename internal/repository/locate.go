package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
)

// Locate walks upward from startDir and returns the path of the first
// metadata directory found as a direct child of startDir or one of its ancestors.
func Locate(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errdefs.ErrInvalidStart, startDir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errdefs.ErrInvalidStart, startDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", errdefs.ErrInvalidStart, startDir)
	}

	for {
		gitDir := filepath.Join(dir, constants.GitDir)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return gitDir, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to inspect %s: %w", gitDir, err)
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s directory not found in %s or any parent directory",
				errdefs.ErrNotFound, constants.GitDir, startDir)
		}
		dir = parent
	}
}

// Root returns the working tree root that encloses gitDir.
func Root(gitDir string) string {
	return filepath.Dir(gitDir)
}
