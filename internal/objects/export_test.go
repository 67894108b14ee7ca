package objects

import (
	"path/filepath"
	"testing"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/testutils"
	"go.uber.org/zap/zaptest"
)

// newTestStore creates a repository skeleton and a store over its metadata directory.
func newTestStore(t *testing.T, opts ...Option) (*ObjectStore, string) {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithGitDir(t)
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)

	return NewObjectStore(filepath.Join(repoPath, constants.GitDir), opts...), repoPath
}

// assertBlobHash verifies blob hash matches expected value for given content.
func assertBlobHash(t *testing.T, blob *Blob, content []byte) {
	t.Helper()

	expectedHash := HashObject(BlobObjectType, content)
	if blob.Hash() != expectedHash {
		t.Fatalf("Expected hash [%s], got [%s]", expectedHash, blob.Hash())
	}
}

// assertBlobContent verifies blob stores exact content and correct size.
func assertBlobContent(t *testing.T, blob *Blob, expectedContent []byte) {
	t.Helper()

	if blob.Size() != len(expectedContent) {
		t.Fatalf("Expected size %d, got %d", len(expectedContent), blob.Size())
	}

	if string(blob.Content()) != string(expectedContent) {
		t.Fatalf("Expected content [%q], got [%q]", expectedContent, blob.Content())
	}
}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, mode FileMode, name, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(mode, name, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	return *entry
}

// createTree creates tree from entries and fails test on error.
func createTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()

	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	return tree
}

// createAndStoreTree creates tree from entries, stores it, and returns tree.
func createAndStoreTree(t *testing.T, store *ObjectStore, entries []TreeEntry) *Tree {
	t.Helper()

	tree := createTree(t, entries)
	if err := store.Store(tree); err != nil {
		t.Fatalf("Failed to store tree: %v", err)
	}

	return tree
}

// assertTreeEntryEqual verifies two tree entries match.
func assertTreeEntryEqual(t *testing.T, actual, expected TreeEntry) {
	t.Helper()

	if actual.Name() != expected.Name() {
		t.Errorf("Entry name mismatch: expected %s, got %s", expected.Name(), actual.Name())
	}
	if actual.Hash() != expected.Hash() {
		t.Errorf("Entry hash mismatch: expected %s, got %s", expected.Hash(), actual.Hash())
	}
	if actual.Mode() != expected.Mode() {
		t.Errorf("Entry mode mismatch: expected %s, got %s", expected.Mode(), actual.Mode())
	}
}
