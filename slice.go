package typestream

import (
	js "github.com/typestream/typestream/jsonschema"
)

// Slice binds a handler for []E. The handler keeps one element buffer and
// one element handler for the whole pass: each time the element handler
// completes, the buffer is moved to the back of the bound slice, zeroed, and
// the element handler is reset to accept the next element. Deeply nested
// types therefore never allocate per element.
func Slice[E any](elem Binding[E]) Binding[[]E] {
	return func(v *[]E) Handler {
		h := &sliceHandler[E]{out: v, bind: elem}
		h.inner = elem(&h.elem)
		return h
	}
}

type sliceHandler[E any] struct {
	out    *[]E
	elem   E
	bind   Binding[E]
	inner  Handler
	depth  int
	parsed bool
}

// precheck rejects any event arriving before this handler's own opening
// bracket: a bare scalar cannot stand in for an array.
func (h *sliceHandler[E]) precheck(actual string) error {
	if h.depth <= 0 {
		return &TypeMismatchError{Expected: h.TypeName(), Actual: actual}
	}
	return nil
}

// post harvests a completed element after a successfully forwarded event and
// wraps failures with the element's index.
func (h *sliceHandler[E]) post(err error) error {
	if err != nil {
		return &ElementError{Index: len(*h.out), Err: err}
	}
	if h.inner.Parsed() {
		*h.out = append(*h.out, h.elem)
		var zero E
		h.elem = zero
		h.inner.Reset()
	}
	return nil
}

func (h *sliceHandler[E]) Null() error {
	if err := h.precheck("null"); err != nil {
		return err
	}
	return h.post(h.inner.Null())
}

func (h *sliceHandler[E]) Bool(b bool) error {
	if err := h.precheck("bool"); err != nil {
		return err
	}
	return h.post(h.inner.Bool(b))
}

func (h *sliceHandler[E]) Int(i int) error {
	if err := h.precheck("int"); err != nil {
		return err
	}
	return h.post(h.inner.Int(i))
}

func (h *sliceHandler[E]) Uint(u uint) error {
	if err := h.precheck("uint"); err != nil {
		return err
	}
	return h.post(h.inner.Uint(u))
}

func (h *sliceHandler[E]) Int64(i int64) error {
	if err := h.precheck("int64"); err != nil {
		return err
	}
	return h.post(h.inner.Int64(i))
}

func (h *sliceHandler[E]) Uint64(u uint64) error {
	if err := h.precheck("uint64"); err != nil {
		return err
	}
	return h.post(h.inner.Uint64(u))
}

func (h *sliceHandler[E]) Double(f float64) error {
	if err := h.precheck("double"); err != nil {
		return err
	}
	return h.post(h.inner.Double(f))
}

func (h *sliceHandler[E]) String(s string) error {
	if err := h.precheck("string"); err != nil {
		return err
	}
	return h.post(h.inner.String(s))
}

func (h *sliceHandler[E]) Key(k string) error {
	if err := h.precheck("key"); err != nil {
		return err
	}
	return h.post(h.inner.Key(k))
}

func (h *sliceHandler[E]) BeginObject() error {
	if err := h.precheck("object"); err != nil {
		return err
	}
	return h.post(h.inner.BeginObject())
}

func (h *sliceHandler[E]) EndObject(n int) error {
	if err := h.precheck("object"); err != nil {
		return err
	}
	return h.post(h.inner.EndObject(n))
}

func (h *sliceHandler[E]) BeginArray() error {
	h.depth++
	if h.depth > 1 {
		// Inside an element that is itself an array.
		return h.post(h.inner.BeginArray())
	}
	return nil
}

func (h *sliceHandler[E]) EndArray(n int) error {
	h.depth--
	if h.depth > 0 {
		return h.post(h.inner.EndArray(n))
	}
	h.parsed = true
	return nil
}

func (h *sliceHandler[E]) Parsed() bool { return h.parsed }

func (h *sliceHandler[E]) Reset() {
	var zero E
	h.elem = zero
	h.inner.Reset()
	h.depth = 0
	h.parsed = false
	*h.out = nil
}

func (h *sliceHandler[E]) Write(out Sink) error {
	if err := out.BeginArray(); err != nil {
		return err
	}
	for i := range *h.out {
		if err := h.bind(&(*h.out)[i]).Write(out); err != nil {
			return err
		}
	}
	return out.EndArray(len(*h.out))
}

func (h *sliceHandler[E]) Schema() *js.Schema {
	return &js.Schema{Type: "array", Items: h.inner.Schema()}
}

func (h *sliceHandler[E]) TypeName() string { return "[]" + h.inner.TypeName() }
