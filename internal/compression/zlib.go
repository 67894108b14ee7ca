package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compressor is the byte-compression capability used by the object store.
// Decompress must be the exact inverse of Compress.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Zlib compression levels accepted by NewZlib.
const (
	HuffmanOnly        = zlib.HuffmanOnly
	DefaultCompression = zlib.DefaultCompression
	NoCompression      = zlib.NoCompression
	BestSpeed          = zlib.BestSpeed
	BestCompression    = zlib.BestCompression
)

// Zlib produces the zlib streams git uses for loose objects.
type Zlib struct {
	level int
}

func NewZlib(level int) (*Zlib, error) {
	if level < HuffmanOnly || level > BestCompression {
		return nil, fmt.Errorf("invalid zlib compression level %d", level)
	}
	return &Zlib{level: level}, nil
}

func (z *Zlib) Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer

	writer, err := zlib.NewWriterLevel(&buffer, z.level)
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}

	// Close flushes buffered data and writes the adler32 trailer
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func (z *Zlib) Decompress(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// Nop passes bytes through unchanged.
type Nop struct{}

func (Nop) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (Nop) Decompress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}
