package typestream

import (
	"fmt"
	"reflect"

	js "github.com/typestream/typestream/jsonschema"
)

// Object starts a builder for a fixed-shape binding of the struct type T.
// Fields are declared by name with a handler factory, typically built from a
// field accessor via At:
//
//	type User struct {
//		Name string
//		Age  int
//	}
//
//	bind := typestream.Object[User]().
//		Field("name", typestream.At(func(u *User) *string { return &u.Name }, typestream.String())).
//		Field("age", typestream.At(func(u *User) *int { return &u.Age }, typestream.Int())).
//		Require("name").
//		MustBind()
func Object[T any]() *ObjectBuilder[T] { return &ObjectBuilder[T]{} }

// At adapts a field accessor and an element binding into the field handler
// factory Field expects. The accessor ties the declared name to the struct
// field at compile time.
func At[T, F any](get func(*T) *F, bind Binding[F]) func(*T) Handler {
	return func(v *T) Handler { return bind(get(v)) }
}

// ObjectBuilder accumulates field declarations for Object[T]. Builder errors
// are deferred to Bind so declarations chain cleanly.
type ObjectBuilder[T any] struct {
	fields []objectFieldSpec[T]
	strict bool
	err    error
}

type objectFieldSpec[T any] struct {
	name     string
	make     func(*T) Handler
	required bool
}

// Field declares a named member handled by the given factory. Declaring the
// same name twice is a builder error.
func (b *ObjectBuilder[T]) Field(name string, make func(*T) Handler) *ObjectBuilder[T] {
	for _, f := range b.fields {
		if f.name == name {
			if b.err == nil {
				b.err = fmt.Errorf("typestream: duplicate field %q", name)
			}
			return b
		}
	}
	b.fields = append(b.fields, objectFieldSpec[T]{name: name, make: make})
	return b
}

// Require marks previously declared fields as required; decoding fails when
// any of them never arrives.
func (b *ObjectBuilder[T]) Require(names ...string) *ObjectBuilder[T] {
	for _, n := range names {
		found := false
		for i := range b.fields {
			if b.fields[i].name == n {
				b.fields[i].required = true
				found = true
			}
		}
		if !found && b.err == nil {
			b.err = fmt.Errorf("typestream: Require(%q): no such field", n)
		}
	}
	return b
}

// UnknownStrict rejects keys that match no declared field.
func (b *ObjectBuilder[T]) UnknownStrict() *ObjectBuilder[T] { b.strict = true; return b }

// UnknownStrip silently discards unknown members. This is the default.
func (b *ObjectBuilder[T]) UnknownStrip() *ObjectBuilder[T] { b.strict = false; return b }

// Bind finalizes the builder into a Binding, reporting any declaration error.
func (b *ObjectBuilder[T]) Bind() (Binding[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	specs := append([]objectFieldSpec[T](nil), b.fields...)
	strict := b.strict
	name := reflect.TypeOf((*T)(nil)).Elem().String()
	return func(v *T) Handler {
		fields := make([]boundField, len(specs))
		for i, f := range specs {
			fields[i] = boundField{name: f.name, required: f.required, h: f.make(v)}
		}
		return newObjectHandler(name, fields, strict)
	}, nil
}

// MustBind is Bind that panics on declaration errors.
func (b *ObjectBuilder[T]) MustBind() Binding[T] {
	bind, err := b.Bind()
	if err != nil {
		panic(err)
	}
	return bind
}

type boundField struct {
	name     string
	required bool
	h        Handler
	seen     bool
}

// objectHandler runs the fixed-shape object state machine. It is shared by
// the builder above and the reflection binding in auto.go, which differ only
// in how they produce the bound field handlers.
type objectHandler struct {
	name     string
	fields   []boundField
	strict   bool
	current  Handler // active member handler; nil between members
	curIndex int     // index into fields, -1 while discarding an unknown member
	curName  string
	skip     skipHandler
	depth    int
	parsed   bool
}

func newObjectHandler(name string, fields []boundField, strict bool) *objectHandler {
	return &objectHandler{name: name, fields: fields, strict: strict, curIndex: -1}
}

func (h *objectHandler) mismatch(actual string) error {
	return &TypeMismatchError{Expected: h.name, Actual: actual}
}

func (h *objectHandler) post(err error) error {
	if err != nil {
		return &MemberError{Key: h.curName, Err: err}
	}
	if h.current.Parsed() {
		if h.curIndex >= 0 {
			h.fields[h.curIndex].seen = true
		}
		h.current = nil
		h.curIndex = -1
	}
	return nil
}

// forward routes an event to the active member handler.
func (h *objectHandler) forward(actual string, ev func(Handler) error) error {
	if h.depth <= 0 || h.current == nil {
		return h.mismatch(actual)
	}
	return h.post(ev(h.current))
}

func (h *objectHandler) Null() error {
	return h.forward("null", func(c Handler) error { return c.Null() })
}

func (h *objectHandler) Bool(b bool) error {
	return h.forward("bool", func(c Handler) error { return c.Bool(b) })
}

func (h *objectHandler) Int(i int) error {
	return h.forward("int", func(c Handler) error { return c.Int(i) })
}

func (h *objectHandler) Uint(u uint) error {
	return h.forward("uint", func(c Handler) error { return c.Uint(u) })
}

func (h *objectHandler) Int64(i int64) error {
	return h.forward("int64", func(c Handler) error { return c.Int64(i) })
}

func (h *objectHandler) Uint64(u uint64) error {
	return h.forward("uint64", func(c Handler) error { return c.Uint64(u) })
}

func (h *objectHandler) Double(f float64) error {
	return h.forward("double", func(c Handler) error { return c.Double(f) })
}

func (h *objectHandler) String(s string) error {
	return h.forward("string", func(c Handler) error { return c.String(s) })
}

func (h *objectHandler) Key(k string) error {
	if h.depth <= 0 {
		return h.mismatch("key")
	}
	if h.depth == 1 && h.current == nil {
		for i := range h.fields {
			if h.fields[i].name == k {
				h.current = h.fields[i].h
				h.curIndex = i
				h.curName = k
				return nil
			}
		}
		if h.strict {
			return &UnknownKeyError{Key: k}
		}
		h.skip.Reset()
		h.current = &h.skip
		h.curIndex = -1
		h.curName = k
		return nil
	}
	return h.forward("key", func(c Handler) error { return c.Key(k) })
}

func (h *objectHandler) BeginArray() error {
	return h.forward("array", func(c Handler) error { return c.BeginArray() })
}

func (h *objectHandler) EndArray(n int) error {
	return h.forward("array", func(c Handler) error { return c.EndArray(n) })
}

func (h *objectHandler) BeginObject() error {
	h.depth++
	if h.depth > 1 {
		if h.current == nil {
			return h.mismatch("object")
		}
		return h.post(h.current.BeginObject())
	}
	return nil
}

func (h *objectHandler) EndObject(n int) error {
	h.depth--
	if h.depth > 0 {
		if h.current == nil {
			return h.mismatch("object")
		}
		return h.post(h.current.EndObject(n))
	}
	for i := range h.fields {
		if h.fields[i].required && !h.fields[i].seen {
			return &MemberError{Key: h.fields[i].name, Err: &RequiredError{}}
		}
	}
	h.parsed = true
	return nil
}

func (h *objectHandler) Parsed() bool { return h.parsed }

func (h *objectHandler) Reset() {
	for i := range h.fields {
		h.fields[i].seen = false
		h.fields[i].h.Reset()
	}
	h.skip.Reset()
	h.current = nil
	h.curIndex = -1
	h.curName = ""
	h.depth = 0
	h.parsed = false
}

func (h *objectHandler) Write(out Sink) error {
	if err := out.BeginObject(); err != nil {
		return err
	}
	for i := range h.fields {
		if err := out.Key(h.fields[i].name); err != nil {
			return err
		}
		if err := h.fields[i].h.Write(out); err != nil {
			return err
		}
	}
	return out.EndObject(len(h.fields))
}

func (h *objectHandler) Schema() *js.Schema {
	props := make(map[string]*js.Schema, len(h.fields))
	var required []string
	for i := range h.fields {
		props[h.fields[i].name] = h.fields[i].h.Schema()
		if h.fields[i].required {
			required = append(required, h.fields[i].name)
		}
	}
	return &js.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: !h.strict,
	}
}

func (h *objectHandler) TypeName() string { return h.name }

// skipHandler consumes and discards one complete value, matching nested
// structures by depth. It serves unknown members under UnknownStrip.
type skipHandler struct {
	depth  int
	parsed bool
}

func (s *skipHandler) leaf() error {
	if s.depth == 0 {
		s.parsed = true
	}
	return nil
}

func (s *skipHandler) Null() error          { return s.leaf() }
func (s *skipHandler) Bool(bool) error      { return s.leaf() }
func (s *skipHandler) Int(int) error        { return s.leaf() }
func (s *skipHandler) Uint(uint) error      { return s.leaf() }
func (s *skipHandler) Int64(int64) error    { return s.leaf() }
func (s *skipHandler) Uint64(uint64) error  { return s.leaf() }
func (s *skipHandler) Double(float64) error { return s.leaf() }
func (s *skipHandler) String(string) error  { return s.leaf() }
func (s *skipHandler) Key(string) error     { return nil }

func (s *skipHandler) BeginArray() error  { s.depth++; return nil }
func (s *skipHandler) BeginObject() error { s.depth++; return nil }

func (s *skipHandler) EndArray(int) error {
	s.depth--
	if s.depth == 0 {
		s.parsed = true
	}
	return nil
}

func (s *skipHandler) EndObject(int) error {
	s.depth--
	if s.depth == 0 {
		s.parsed = true
	}
	return nil
}

func (s *skipHandler) Parsed() bool { return s.parsed }
func (s *skipHandler) Reset()       { s.depth = 0; s.parsed = false }

// skipHandler binds no value; Write and Schema exist only to satisfy Handler.
func (s *skipHandler) Write(out Sink) error { return out.Null() }
func (s *skipHandler) Schema() *js.Schema   { return &js.Schema{} }
func (s *skipHandler) TypeName() string     { return "any" }
