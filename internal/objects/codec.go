package objects

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
	"github.com/KostasZigo/gitodb/utils"
)

// Encode returns the canonical encoding "<type> <size>\0<content>".
// The result is both the hash input and the payload stored on disk.
func Encode(objectType ObjectType, content []byte) []byte {
	header := strconv.AppendInt([]byte(objectType+" "), int64(len(content)), 10)

	data := make([]byte, 0, len(header)+1+len(content))
	data = append(data, header...)
	data = append(data, constants.NullByte)
	return append(data, content...)
}

// Decode splits a canonical encoding into its type tag and content.
// The declared size must match the number of bytes after the header exactly.
func Decode(data []byte) (ObjectType, []byte, error) {
	nullByteIndex := bytes.IndexByte(data, constants.NullByte)
	if nullByteIndex == -1 {
		return "", nil, fmt.Errorf("%w: no null byte found", errdefs.ErrMalformedObject)
	}

	header := data[:nullByteIndex]
	spaceIndex := bytes.LastIndexByte(header, constants.SpaceByte)
	if spaceIndex == -1 {
		return "", nil, fmt.Errorf("%w: header %q has no size", errdefs.ErrMalformedObject, header)
	}

	typeTag, sizeField := header[:spaceIndex], header[spaceIndex+1:]
	if !utils.IsAlpha(typeTag) || !utils.IsDigits(sizeField) {
		return "", nil, fmt.Errorf("%w: invalid header %q", errdefs.ErrMalformedObject, header)
	}

	size, err := strconv.Atoi(string(sizeField))
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid size %q: %w", errdefs.ErrMalformedObject, sizeField, err)
	}

	content := data[nullByteIndex+1:]
	if size != len(content) {
		return "", nil, fmt.Errorf("%w: declared size %d, actual %d",
			errdefs.ErrMalformedObject, size, len(content))
	}

	return ObjectType(typeTag), content, nil
}
