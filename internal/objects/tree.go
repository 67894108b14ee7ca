package objects

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
	"github.com/KostasZigo/gitodb/utils"
)

type FileMode string

// Modes as written in tree objects. Directories carry no leading zero on disk.
const (
	ModeRegularFile FileMode = "100644" // Regular non-executable file
	ModeExecutable  FileMode = "100755" // Executable file
	ModeSymlink     FileMode = "120000" // Symbolic link
	ModeDirectory   FileMode = "40000"  // Directory (tree)
	ModeSubmodule   FileMode = "160000" // Gitlink
)

func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// Padded returns the mode zero-padded to six digits, as ls-tree prints it.
func (m FileMode) Padded() string {
	if len(m) >= 6 {
		return string(m)
	}
	return strings.Repeat("0", 6-len(m)) + string(m)
}

// ObjectType returns the type of object an entry with this mode references.
func (m FileMode) ObjectType() string {
	switch m {
	case ModeDirectory, "040000":
		return string(TreeObjectType)
	case ModeSubmodule:
		return "commit"
	default:
		return string(BlobObjectType)
	}
}

// TreeEntry represents a single entry in a tree object
type TreeEntry struct {
	mode FileMode
	name string
	hash string // hex identifier of the referenced object
}

func NewTreeEntry(mode FileMode, name string, hash string) (*TreeEntry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid file mode: %s", mode)
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return nil, fmt.Errorf("invalid entry name: %q", name)
	}
	if !IsValidID(hash) {
		return nil, fmt.Errorf("invalid object hash for %s: %q", name, hash)
	}
	return &TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}, nil
}

func (e *TreeEntry) Mode() FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name
}

func (e *TreeEntry) Hash() string {
	return e.hash
}

func (e *TreeEntry) IsDirectory() bool {
	return e.mode.ObjectType() == string(TreeObjectType)
}

func (e *TreeEntry) IsExecutable() bool {
	return e.mode == ModeExecutable
}

// Tree represents a tree object (directory)
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of Tree Entries.
// Entries are sorted into git order before encoding.
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	entries := slices.Clone(treeEntries)
	slices.SortStableFunc(entries, compareTreeEntries)

	for i := 1; i < len(entries); i++ {
		if entries[i].name == entries[i-1].name {
			return nil, fmt.Errorf("duplicate tree entry: %s", entries[i].name)
		}
	}

	return &Tree{
		entries: entries,
		hash:    HashObject(TreeObjectType, EncodeTree(entries)),
	}, nil
}

// compareTreeEntries implements git's tree entry sorting rules:
// - Entries are sorted by name
// - Directory names are treated as if they have a trailing "/" for comparison
func compareTreeEntries(a, b TreeEntry) int {
	return strings.Compare(getSortableName(a), getSortableName(b))
}

// getSortableName returns the name used for sorting.
func getSortableName(entry TreeEntry) string {
	if entry.IsDirectory() {
		return entry.Name() + "/"
	}
	return entry.Name()
}

// EncodeTree writes entries in the given order using the binary tree layout
// <mode> <name>\0<20-byte binary SHA>, ex:
// 100644 README.md\0[binary SHA for README blob]
// 40000 src\0[binary SHA for src/ tree]
func EncodeTree(entries []TreeEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(string(entry.mode))
		buf.WriteByte(constants.SpaceByte)
		buf.WriteString(entry.name)
		buf.WriteByte(constants.NullByte)

		// Entries are validated on construction so the hash is always 40 hex chars
		hashBytes, _ := hex.DecodeString(entry.hash)
		buf.Write(hashBytes)
	}

	return buf.Bytes()
}

// ParseTree decodes a tree body into its entries in on-disk order.
// Empty content is a valid empty directory.
func ParseTree(content []byte) ([]TreeEntry, error) {
	entries := make([]TreeEntry, 0)

	for offset := 0; offset < len(content); {
		spaceIndex := bytes.IndexByte(content[offset:], constants.SpaceByte)
		if spaceIndex == -1 {
			return nil, fmt.Errorf("%w: entry at offset %d has no mode separator", errdefs.ErrMalformedTree, offset)
		}
		mode := content[offset : offset+spaceIndex]
		if !utils.IsOctal(mode) {
			return nil, fmt.Errorf("%w: invalid mode %q at offset %d", errdefs.ErrMalformedTree, mode, offset)
		}

		nameStart := offset + spaceIndex + 1
		nullByteIndex := bytes.IndexByte(content[nameStart:], constants.NullByte)
		if nullByteIndex == -1 {
			return nil, fmt.Errorf("%w: entry at offset %d has no name terminator", errdefs.ErrMalformedTree, offset)
		}
		name := content[nameStart : nameStart+nullByteIndex]
		if len(name) == 0 {
			return nil, fmt.Errorf("%w: empty name at offset %d", errdefs.ErrMalformedTree, offset)
		}

		hashStart := nameStart + nullByteIndex + 1
		if len(content)-hashStart < constants.HashByteLength {
			return nil, fmt.Errorf("%w: truncated entry %q: %d of %d hash bytes",
				errdefs.ErrMalformedTree, name, len(content)-hashStart, constants.HashByteLength)
		}
		hashEnd := hashStart + constants.HashByteLength

		entries = append(entries, TreeEntry{
			mode: FileMode(mode),
			name: string(name),
			hash: hex.EncodeToString(content[hashStart:hashEnd]),
		})
		offset = hashEnd
	}

	return entries, nil
}

// Hash returns the SHA-1 hash of the tree
func (t *Tree) Hash() string {
	return t.hash
}

func (t *Tree) Type() ObjectType {
	return TreeObjectType
}

// Entries returns all tree entries
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Size returns the size of the tree content
func (t *Tree) Size() int {
	return len(t.Content())
}

// Content returns the raw tree content
func (t *Tree) Content() []byte {
	return EncodeTree(t.entries)
}

func (t *Tree) Data() []byte {
	return Encode(TreeObjectType, t.Content())
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by name
func (t *Tree) FindEntry(name string) (*TreeEntry, bool) {
	for i := range t.entries {
		if t.entries[i].Name() == name {
			return &t.entries[i], true
		}
	}
	return nil, false
}
