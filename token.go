package typestream

import (
	eng "github.com/typestream/typestream/internal/engine"
)

// Exported aliases so sources and callers can reference token kinds without
// importing internal packages. The alias and constants mirror engine.Kind.
type Kind = eng.Kind

const (
	KindBeginObject Kind = eng.KindBeginObject
	KindEndObject   Kind = eng.KindEndObject
	KindBeginArray  Kind = eng.KindBeginArray
	KindEndArray    Kind = eng.KindEndArray
	KindKey         Kind = eng.KindKey
	KindString      Kind = eng.KindString
	KindNumber      Kind = eng.KindNumber
	KindBool        Kind = eng.KindBool
	KindNull        Kind = eng.KindNull
)

// Token describes one token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// Source abstracts over polymorphic input sources. A Source must deliver a
// well-formed balanced token sequence for one logical document; the handlers
// only verify nesting locally through their own depth counters.
type Source = eng.TokenSource
