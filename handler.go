package typestream

import (
	js "github.com/typestream/typestream/jsonschema"
)

// Sink receives one streamed document as an ordered sequence of events.
// Implementations include output writers (jsonw), tracing decorators, and
// every Handler's decode side. A method returning a non-nil error aborts the
// pass; the caller must stop delivering events for the current document.
//
// The n argument of EndArray and EndObject carries the element or member
// count of the closing container. Sinks may ignore it.
type Sink interface {
	Null() error
	Bool(b bool) error
	Int(i int) error
	Uint(u uint) error
	Int64(i int64) error
	Uint64(u uint64) error
	Double(f float64) error
	String(s string) error
	Key(k string) error
	BeginArray() error
	EndArray(n int) error
	BeginObject() error
	EndObject(n int) error
}

// Handler binds one in-memory value to the event contract for the duration
// of one decode, encode, or schema pass. A Handler never owns the bound
// value; it mutates it in place during decode and walks it during Write.
//
// Handlers are strictly sequential: one pass must finish (or fail) before
// Reset begins the next. No concurrent use is supported.
type Handler interface {
	Sink

	// Parsed reports whether the bound value's event sub-sequence is
	// syntactically complete for the current pass.
	Parsed() bool

	// Reset prepares the handler for another decode pass over the same bound
	// value. It clears internal state, any partially built element, and the
	// bound value's prior contents.
	Reset()

	// Write replays the bound value into out as a balanced event sequence.
	Write(out Sink) error

	// Schema describes the accepted document shape. It is derived purely
	// from the type composition; no decoded data is required.
	Schema() *js.Schema

	// TypeName names the bound Go type as it appears in mismatch messages.
	TypeName() string
}

// Binding constructs a Handler bound to a value of type T. Bindings compose:
// Slice(Int()) binds []int, Ptr(Slice(Int())) binds *[]int, and so on. The
// returned Handler is valid for as long as the value it was bound to.
type Binding[T any] func(v *T) Handler
