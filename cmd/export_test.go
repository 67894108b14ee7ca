package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// createTestRootCmd creates fresh root command with the given subcommand.
// Flag values of the shared subcommand are reset to their defaults and
// config discovery is pointed at an empty directory.
func createTestRootCmd(t *testing.T, cmd *cobra.Command) *cobra.Command {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	cmd.SilenceUsage = true

	testRootCmd := &cobra.Command{Use: constants.AppName}
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// setConfig overrides a configuration key for the duration of the test.
func setConfig(t *testing.T, key string, value any) {
	t.Helper()

	viper.Set(key, value)
	t.Cleanup(func() {
		viper.Set(key, nil)
	})
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}

// openTestStore opens the object store of the repository at repoPath.
func openTestStore(repoPath string) *objects.ObjectStore {
	return objects.NewObjectStore(filepath.Join(repoPath, constants.GitDir))
}

// writeTestTree stores a blob and a tree referencing it, returning both identifiers.
func writeTestTree(t *testing.T, repoPath string) (blobHash, treeHash string) {
	t.Helper()

	store := openTestStore(repoPath)

	blobHash, err := store.Write(objects.BlobObjectType, []byte("package main\n"))
	if err != nil {
		t.Fatalf("Failed to write blob: %v", err)
	}

	fileEntry, err := objects.NewTreeEntry(objects.ModeRegularFile, "main.go", blobHash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}
	dirEntry, err := objects.NewTreeEntry(objects.ModeDirectory, "docs", objects.HashObject(objects.TreeObjectType, nil))
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	tree, err := objects.NewTree([]objects.TreeEntry{*fileEntry, *dirEntry})
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}
	if err := store.Store(tree); err != nil {
		t.Fatalf("Failed to store tree: %v", err)
	}

	return blobHash, tree.Hash()
}
