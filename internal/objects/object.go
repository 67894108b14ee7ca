package objects

// ObjectType is the type tag written in an object header.
type ObjectType string

const (
	BlobObjectType ObjectType = "blob"
	TreeObjectType ObjectType = "tree"
)

// IsValid reports whether the store can create objects of this type.
func (ot ObjectType) IsValid() bool {
	switch ot {
	case BlobObjectType, TreeObjectType:
		return true
	default:
		return false
	}
}

// Object represents any object that can be stored.
type Object interface {
	// Type returns the header type tag
	Type() ObjectType

	// Hash returns the SHA-1 identifier of the object
	Hash() string

	// Content returns the object body without header
	Content() []byte

	// Data returns the complete object data including header
	// Format: "<type> <size>\0<content>"
	Data() []byte
}
