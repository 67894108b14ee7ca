package objects

import (
	"fmt"
	"io"
	"os"
)

// Blob is an opaque file payload.
type Blob struct {
	content []byte
	hash    string
}

func NewBlob(content []byte) *Blob {
	return &Blob{
		content: content,
		hash:    HashObject(BlobObjectType, content),
	}
}

// NewBlobFromReader consumes r entirely and wraps the bytes as a blob.
func NewBlobFromReader(r io.Reader) (*Blob, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBlob(content), nil
}

func NewBlobFromFile(path string) (*Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer f.Close()

	blob, err := NewBlobFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return blob, nil
}

func (b *Blob) Type() ObjectType { return BlobObjectType }
func (b *Blob) Hash() string     { return b.hash }
func (b *Blob) Content() []byte  { return b.content }
func (b *Blob) Size() int        { return len(b.content) }

// Data returns the canonical encoding the identifier is computed over.
func (b *Blob) Data() []byte {
	return Encode(BlobObjectType, b.content)
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob{hash: %s, size: %d bytes}", b.hash, b.Size())
}
