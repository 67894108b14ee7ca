package objects

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/compression"
	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// tempObjectPattern names in-flight writes inside the fan-out directory.
const tempObjectPattern = "tmp_obj_*"

type cachedObject struct {
	objectType ObjectType
	content    []byte
}

// ObjectStore manages storage of objects under <gitDir>/objects.
// It is safe for concurrent use.
type ObjectStore struct {
	objectsDir string
	compressor compression.Compressor
	cache      *lru.Cache[string, cachedObject]
	log        *zap.Logger
}

// Option configures an ObjectStore.
type Option func(*ObjectStore)

// WithCompressor replaces the default zlib compressor.
func WithCompressor(c compression.Compressor) Option {
	return func(s *ObjectStore) { s.compressor = c }
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *ObjectStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCacheSize keeps up to n decoded objects in memory. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(s *ObjectStore) {
		if n <= 0 {
			s.cache = nil
			return
		}
		// lru.New only fails for non-positive sizes
		s.cache, _ = lru.New[string, cachedObject](n)
	}
}

// NewObjectStore returns a store rooted at the metadata directory gitDir.
func NewObjectStore(gitDir string, opts ...Option) *ObjectStore {
	zlib, _ := compression.NewZlib(compression.DefaultCompression)

	store := &ObjectStore{
		objectsDir: filepath.Join(gitDir, constants.Objects),
		compressor: zlib,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}

	return store
}

// objectPath returns <objects>/<first 2 chars>/<remaining 38 chars>.
func (store *ObjectStore) objectPath(hash string) string {
	return filepath.Join(store.objectsDir, hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// Write stores content as an object of the given type and returns its identifier.
// Writing content that is already stored is a no-op.
func (store *ObjectStore) Write(objectType ObjectType, content []byte) (string, error) {
	if !objectType.IsValid() {
		return "", fmt.Errorf("%w: invalid object type %q", errdefs.ErrMalformedObject, objectType)
	}

	data := Encode(objectType, content)
	hash := Hash(data)
	objectFile := store.objectPath(hash)

	// Content-addressed: an existing file already holds these exact bytes
	_, err := os.Stat(objectFile)
	if err == nil {
		store.log.Debug("object already exists", zap.String("hash", hash))
		return hash, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: failed to check object %s: %w", errdefs.ErrWriteFailure, hash, err)
	}

	compressedData, err := store.compressor.Compress(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to compress object %s: %w", errdefs.ErrWriteFailure, hash, err)
	}

	objectDir := filepath.Dir(objectFile)
	if err := os.MkdirAll(objectDir, constants.DirPerms); err != nil {
		return "", fmt.Errorf("%w: failed to create object directory: %w", errdefs.ErrWriteFailure, err)
	}

	if err := store.writeAtomic(objectDir, objectFile, compressedData); err != nil {
		return "", fmt.Errorf("%w: failed to write object %s: %w", errdefs.ErrWriteFailure, hash, err)
	}

	store.log.Debug("stored object",
		zap.String("hash", hash),
		zap.String("type", string(objectType)),
		zap.Int("size", len(content)),
		zap.Int("compressed", len(compressedData)))

	return hash, nil
}

// writeAtomic writes data to a temporary file in dir and renames it to target,
// so readers never observe a partially written object.
func (store *ObjectStore) writeAtomic(dir, target string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, tempObjectPattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				store.log.Warn("failed to remove temporary object file",
					zap.String("path", tmpName),
					zap.Error(rmErr))
			}
		}
	}()

	n, err := tmp.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("wrote %d of %d bytes: %w", n, len(data), io.ErrShortWrite)
	}

	if err = tmp.Chmod(constants.ObjectFilePerms); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Rename(tmpName, target); err != nil {
		// A concurrent writer of the same object won the rename
		if _, statErr := os.Stat(target); statErr == nil {
			store.log.Debug("object stored concurrently", zap.String("path", target))
			os.Remove(tmpName)
			return nil
		}
		return err
	}

	return nil
}

// Store writes a constructed object and checks the resulting identifier.
func (store *ObjectStore) Store(obj Object) error {
	hash, err := store.Write(obj.Type(), obj.Content())
	if err != nil {
		return err
	}
	if hash != obj.Hash() {
		return fmt.Errorf("%w: stored %s but object reports %s", errdefs.ErrCorruptObject, hash, obj.Hash())
	}
	return nil
}

// Read loads, decompresses and decodes the object with the given identifier.
// The decoded payload must hash back to hash.
func (store *ObjectStore) Read(hash string) (ObjectType, []byte, error) {
	if !IsValidID(hash) {
		return "", nil, fmt.Errorf("%w: not a valid object name %q", errdefs.ErrNotFound, hash)
	}

	if store.cache != nil {
		if obj, ok := store.cache.Get(hash); ok {
			return obj.objectType, bytes.Clone(obj.content), nil
		}
	}

	compressedData, err := os.ReadFile(store.objectPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: object %s: %w", errdefs.ErrNotFound, hash, err)
		}
		return "", nil, fmt.Errorf("failed to read object file %s: %w", hash, err)
	}

	data, err := store.compressor.Decompress(compressedData)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to decompress object %s: %w", errdefs.ErrCorruptObject, hash, err)
	}

	objectType, content, err := Decode(data)
	if err != nil {
		return "", nil, fmt.Errorf("object %s: %w", hash, err)
	}

	if actual := Hash(data); actual != hash {
		return "", nil, fmt.Errorf("%w: hash mismatch: expected %s, got %s", errdefs.ErrCorruptObject, hash, actual)
	}

	if store.cache != nil {
		store.cache.Add(hash, cachedObject{objectType: objectType, content: bytes.Clone(content)})
	}

	return objectType, content, nil
}

// ReadRaw returns only the content of the object with the given identifier.
func (store *ObjectStore) ReadRaw(hash string) ([]byte, error) {
	_, content, err := store.Read(hash)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// ReadBlob reads a blob object by hash
func (store *ObjectStore) ReadBlob(hash string) (*Blob, error) {
	objectType, content, err := store.Read(hash)
	if err != nil {
		return nil, err
	}
	if objectType != BlobObjectType {
		return nil, fmt.Errorf("%w: object %s is a %s, not a blob", errdefs.ErrMalformedObject, hash, objectType)
	}
	return &Blob{content: content, hash: hash}, nil
}

// ReadTree reads a tree object by hash, keeping entries in stored order
func (store *ObjectStore) ReadTree(hash string) (*Tree, error) {
	objectType, content, err := store.Read(hash)
	if err != nil {
		return nil, err
	}
	if objectType != TreeObjectType {
		return nil, fmt.Errorf("%w: object %s is a %s, not a tree", errdefs.ErrMalformedTree, hash, objectType)
	}

	entries, err := ParseTree(content)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}

	return &Tree{entries: entries, hash: hash}, nil
}

// Exists checks if an object exists in storage
func (store *ObjectStore) Exists(hash string) bool {
	if !IsValidID(hash) {
		return false
	}
	_, err := os.Stat(store.objectPath(hash))
	return err == nil
}
