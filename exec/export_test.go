package exec

// Sanitize exposes sanitize for testing.
var Sanitize = sanitize

// TailLines exposes tailLines for testing.
var TailLines = tailLines

// NewTailBuffer exposes tailBuffer for testing.
func NewTailBuffer(max int) interface {
	Write([]byte) (int, error)
	String() string
} {
	return newTailBuffer(max)
}
