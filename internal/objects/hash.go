package objects

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/utils"
)

// Hash returns the hex SHA-1 of an encoded object. It must be given the
// canonical encoding, never bare content or compressed bytes.
func Hash(encoded []byte) string {
	sum := sha1.Sum(encoded)
	return hex.EncodeToString(sum[:])
}

// HashObject encodes content as objectType and returns its identifier.
func HashObject(objectType ObjectType, content []byte) string {
	return Hash(Encode(objectType, content))
}

// IsValidID reports whether id is a full 40-character lowercase hex identifier.
func IsValidID(id string) bool {
	return len(id) == constants.HashStringLength && utils.IsHex(id)
}
