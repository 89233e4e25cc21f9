package typestream

import (
	"sort"

	js "github.com/typestream/typestream/jsonschema"
)

// Map binds a handler for map[string]V. Duplicate keys follow the
// container's own insert rule: plain map assignment, so the last value wins.
func Map[V any](elem Binding[V]) Binding[map[string]V] {
	return func(v *map[string]V) Handler {
		h := &mapHandler[V]{out: v}
		h.bind = elem
		h.inner = elem(&h.elem)
		h.name = "map[string]" + h.inner.TypeName()
		h.insert = func(k string, val V) {
			if *v == nil {
				*v = make(map[string]V)
			}
			(*v)[k] = val
		}
		return h
	}
}

// MultiMap binds a handler for map[string][]V that preserves every duplicate
// key: each decoded entry appends to its key's slice in arrival order. The
// handler itself never special-cases duplicates; the append is simply this
// container's insert rule.
func MultiMap[V any](elem Binding[V]) Binding[map[string][]V] {
	return func(v *map[string][]V) Handler {
		h := &multiMapHandler[V]{out: v}
		h.bind = elem
		h.inner = elem(&h.elem)
		h.name = "multimap[string]" + h.inner.TypeName()
		h.insert = func(k string, val V) {
			if *v == nil {
				*v = make(map[string][]V)
			}
			(*v)[k] = append((*v)[k], val)
		}
		return h
	}
}

// mapCore is the keyed-map state machine shared by every string-keyed
// container variant. It distinguishes this object's own entry keys (depth 1)
// from keys belonging to a nested value (depth > 1), and harvests
// opportunistically after every successfully forwarded event so that
// scalar-valued entries are inserted as soon as their single value event
// lands, not only at the closing brace.
type mapCore[V any] struct {
	elem   V
	bind   Binding[V]
	inner  Handler
	key    string
	depth  int
	parsed bool
	name   string
	insert func(key string, v V)
}

func (c *mapCore[V]) precheck(actual string) error {
	if c.depth <= 0 {
		return &TypeMismatchError{Expected: c.name, Actual: actual}
	}
	return nil
}

func (c *mapCore[V]) post(err error) error {
	if err != nil {
		return &MemberError{Key: c.key, Err: err}
	}
	if c.inner.Parsed() {
		c.insert(c.key, c.elem)
		var zero V
		c.elem = zero
		c.key = ""
		c.inner.Reset()
	}
	return nil
}

func (c *mapCore[V]) Null() error {
	if err := c.precheck("null"); err != nil {
		return err
	}
	return c.post(c.inner.Null())
}

func (c *mapCore[V]) Bool(b bool) error {
	if err := c.precheck("bool"); err != nil {
		return err
	}
	return c.post(c.inner.Bool(b))
}

func (c *mapCore[V]) Int(i int) error {
	if err := c.precheck("int"); err != nil {
		return err
	}
	return c.post(c.inner.Int(i))
}

func (c *mapCore[V]) Uint(u uint) error {
	if err := c.precheck("uint"); err != nil {
		return err
	}
	return c.post(c.inner.Uint(u))
}

func (c *mapCore[V]) Int64(i int64) error {
	if err := c.precheck("int64"); err != nil {
		return err
	}
	return c.post(c.inner.Int64(i))
}

func (c *mapCore[V]) Uint64(u uint64) error {
	if err := c.precheck("uint64"); err != nil {
		return err
	}
	return c.post(c.inner.Uint64(u))
}

func (c *mapCore[V]) Double(f float64) error {
	if err := c.precheck("double"); err != nil {
		return err
	}
	return c.post(c.inner.Double(f))
}

func (c *mapCore[V]) String(s string) error {
	if err := c.precheck("string"); err != nil {
		return err
	}
	return c.post(c.inner.String(s))
}

func (c *mapCore[V]) Key(k string) error {
	if err := c.precheck("key"); err != nil {
		return err
	}
	if c.depth > 1 {
		// A nested key belonging to the value's own internal structure.
		return c.post(c.inner.Key(k))
	}
	c.key = k
	return nil
}

func (c *mapCore[V]) BeginArray() error {
	if err := c.precheck("array"); err != nil {
		return err
	}
	return c.post(c.inner.BeginArray())
}

func (c *mapCore[V]) EndArray(n int) error {
	if err := c.precheck("array"); err != nil {
		return err
	}
	return c.post(c.inner.EndArray(n))
}

func (c *mapCore[V]) BeginObject() error {
	c.depth++
	if c.depth > 1 {
		return c.post(c.inner.BeginObject())
	}
	return nil
}

func (c *mapCore[V]) EndObject(n int) error {
	c.depth--
	if c.depth > 0 {
		return c.post(c.inner.EndObject(n))
	}
	c.parsed = true
	return nil
}

func (c *mapCore[V]) Parsed() bool { return c.parsed }

func (c *mapCore[V]) reset() {
	var zero V
	c.elem = zero
	c.key = ""
	c.inner.Reset()
	c.depth = 0
	c.parsed = false
}

func (c *mapCore[V]) TypeName() string { return c.name }

func (c *mapCore[V]) schema() *js.Schema {
	return &js.Schema{
		Type:                 "object",
		Properties:           map[string]*js.Schema{},
		AdditionalProperties: c.inner.Schema(),
	}
}

type mapHandler[V any] struct {
	mapCore[V]
	out *map[string]V
}

func (h *mapHandler[V]) Reset() {
	h.mapCore.reset()
	*h.out = nil
}

// Write emits entries in sorted key order so output is deterministic.
func (h *mapHandler[V]) Write(out Sink) error {
	if err := out.BeginObject(); err != nil {
		return err
	}
	keys := make([]string, 0, len(*h.out))
	for k := range *h.out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := out.Key(k); err != nil {
			return err
		}
		v := (*h.out)[k]
		if err := h.bind(&v).Write(out); err != nil {
			return err
		}
	}
	return out.EndObject(len(*h.out))
}

func (h *mapHandler[V]) Schema() *js.Schema { return h.schema() }

type multiMapHandler[V any] struct {
	mapCore[V]
	out *map[string][]V
}

func (h *multiMapHandler[V]) Reset() {
	h.mapCore.reset()
	*h.out = nil
}

// Write repeats the key for each of its values, reproducing the duplicate
// keys the entries arrived with.
func (h *multiMapHandler[V]) Write(out Sink) error {
	if err := out.BeginObject(); err != nil {
		return err
	}
	keys := make([]string, 0, len(*h.out))
	for k := range *h.out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	total := 0
	for _, k := range keys {
		vs := (*h.out)[k]
		total += len(vs)
		for i := range vs {
			if err := out.Key(k); err != nil {
				return err
			}
			if err := h.bind(&vs[i]).Write(out); err != nil {
				return err
			}
		}
	}
	return out.EndObject(total)
}

func (h *multiMapHandler[V]) Schema() *js.Schema { return h.schema() }
