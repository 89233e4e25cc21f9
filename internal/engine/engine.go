// Package engine holds the token model shared by the root package and the
// pluggable sources. Keeping it separate lets a source depend on the token
// types without importing the handler machinery.
package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// String names the token kind the way handlers name event kinds in mismatch
// messages.
func (k Kind) String() string {
	switch k {
	case KindBeginObject, KindEndObject:
		return "object"
	case KindBeginArray, KindEndArray:
		return "array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string // key and string tokens
	Number string // number tokens, kept as text
	Bool   bool
	Offset int64 // byte offset when known, -1 otherwise
}

// TokenSource is the minimal pull interface a source must provide.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}
