package typestream

import (
	js "github.com/typestream/typestream/jsonschema"
)

// Ptr binds a handler for *E, the nullable form of E. A nil slot decodes
// from and encodes to a null event. The held value and its handler are
// allocated lazily on the first non-null event, so decoding a null (the
// common case for optional fields) allocates nothing, and a non-null value
// costs exactly one allocation per pass.
func Ptr[E any](elem Binding[E]) Binding[*E] {
	return func(v **E) Handler { return &ptrHandler[E]{slot: v, bind: elem} }
}

type ptrHandler[E any] struct {
	slot   **E
	bind   Binding[E]
	inner  Handler
	depth  int
	parsed bool
}

func (h *ptrHandler[E]) init() {
	if h.inner == nil {
		*h.slot = new(E)
		h.inner = h.bind(*h.slot)
	}
}

func (h *ptrHandler[E]) post(err error) error {
	if err != nil {
		return err
	}
	h.parsed = h.inner.Parsed()
	return nil
}

func (h *ptrHandler[E]) Null() error {
	if h.depth == 0 {
		*h.slot = nil
		h.parsed = true
		return nil
	}
	// A nested null inside the held value, e.g. an optional field of E.
	h.init()
	return h.post(h.inner.Null())
}

func (h *ptrHandler[E]) Bool(b bool) error {
	h.init()
	return h.post(h.inner.Bool(b))
}

func (h *ptrHandler[E]) Int(i int) error {
	h.init()
	return h.post(h.inner.Int(i))
}

func (h *ptrHandler[E]) Uint(u uint) error {
	h.init()
	return h.post(h.inner.Uint(u))
}

func (h *ptrHandler[E]) Int64(i int64) error {
	h.init()
	return h.post(h.inner.Int64(i))
}

func (h *ptrHandler[E]) Uint64(u uint64) error {
	h.init()
	return h.post(h.inner.Uint64(u))
}

func (h *ptrHandler[E]) Double(f float64) error {
	h.init()
	return h.post(h.inner.Double(f))
}

func (h *ptrHandler[E]) String(s string) error {
	h.init()
	return h.post(h.inner.String(s))
}

func (h *ptrHandler[E]) Key(k string) error {
	h.init()
	return h.post(h.inner.Key(k))
}

func (h *ptrHandler[E]) BeginArray() error {
	h.init()
	h.depth++
	return h.post(h.inner.BeginArray())
}

func (h *ptrHandler[E]) EndArray(n int) error {
	h.init()
	h.depth--
	return h.post(h.inner.EndArray(n))
}

func (h *ptrHandler[E]) BeginObject() error {
	h.init()
	h.depth++
	return h.post(h.inner.BeginObject())
}

func (h *ptrHandler[E]) EndObject(n int) error {
	h.init()
	h.depth--
	return h.post(h.inner.EndObject(n))
}

func (h *ptrHandler[E]) Parsed() bool { return h.parsed }

func (h *ptrHandler[E]) Reset() {
	h.depth = 0
	h.inner = nil
	*h.slot = nil
	h.parsed = false
}

// Write treats the emptiness of the slot as the sole source of truth for
// null-ness: handler construction state is never consulted.
func (h *ptrHandler[E]) Write(out Sink) error {
	if *h.slot == nil {
		return out.Null()
	}
	return h.bind(*h.slot).Write(out)
}

func (h *ptrHandler[E]) Schema() *js.Schema {
	var tmp E
	return &js.Schema{AnyOf: []*js.Schema{
		{Type: "null"},
		h.bind(&tmp).Schema(),
	}}
}

func (h *ptrHandler[E]) TypeName() string {
	if h.inner != nil {
		return "*" + h.inner.TypeName()
	}
	var tmp E
	return "*" + h.bind(&tmp).TypeName()
}
