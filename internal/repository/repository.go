package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
	"go.uber.org/zap"
)

// InitRepository creates the metadata directory layout under path with HEAD
// pointing at defaultBranch. An existing repository is never overwritten.
func InitRepository(path, defaultBranch string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	// Resolves and adds OS specific separator
	gitDir := filepath.Join(path, constants.GitDir)

	if err := checkRepositoryDoesNotExist(gitDir); err != nil {
		return err
	}

	// Track if initialization of directories and files was successful.
	// Anything created before a failure is removed by the deferred cleanup.
	var initSuccess bool
	defer func() {
		if !initSuccess {
			cleanupRepository(gitDir, log)
		}
	}()

	directories := []string{
		gitDir,
		filepath.Join(gitDir, constants.Objects),
		filepath.Join(gitDir, constants.Refs),
		filepath.Join(gitDir, constants.Refs, constants.Heads),
		filepath.Join(gitDir, constants.Refs, constants.Tags),
	}

	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("%w: failed to create directory %s: %w", errdefs.ErrWriteFailure, directory, err)
		}
	}

	// Create HEAD file pointing to the default branch
	headFile := filepath.Join(gitDir, constants.Head)
	headContent := constants.DefaultRefPrefix + defaultBranch + "\n"

	if err := os.WriteFile(headFile, []byte(headContent), constants.FilePerms); err != nil {
		return fmt.Errorf("%w: failed to create %s file: %w", errdefs.ErrWriteFailure, constants.Head, err)
	}

	log.Debug("initialized repository",
		zap.String("path", gitDir),
		zap.String("branch", defaultBranch))

	initSuccess = true
	return nil
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fmt.Errorf("repository already exists at %s", path)
}

// Removes the entire metadata directory if it exists
func cleanupRepository(gitDir string, log *zap.Logger) {
	if _, err := os.Stat(gitDir); err == nil {
		log.Debug("cleaning up partial repository initialization",
			zap.String("path", gitDir))

		if err := os.RemoveAll(gitDir); err != nil {
			log.Warn("failed to cleanup repository directory",
				zap.String("path", gitDir),
				zap.Error(err))
		} else {
			log.Debug("successfully cleaned up repository directory",
				zap.String("path", gitDir))
		}
	}
}
