package typestream

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"

	js "github.com/typestream/typestream/jsonschema"
)

// Auto derives a Binding for T from its Go type: structs (honoring `json`
// tags for member names), pointers, slices, string-keyed maps, and the
// scalar kinds. It trades the compile-time linkage of the explicit builders
// for convenience, the way a tag-driven unmarshaler does.
//
// Auto panics when T contains a kind it cannot bind (channels, functions,
// interfaces, non-string map keys). Unknown object members are discarded.
func Auto[T any]() Binding[T] {
	vb := valueBindingFor(reflect.TypeOf((*T)(nil)).Elem())
	return func(v *T) Handler { return vb(reflect.ValueOf(v).Elem()) }
}

// valueBinding builds a Handler over an addressable reflect.Value.
type valueBinding func(v reflect.Value) Handler

var jsonNumberType = reflect.TypeOf(json.Number(""))

func valueBindingFor(t reflect.Type) valueBinding {
	if t == jsonNumberType {
		return func(v reflect.Value) Handler {
			return Number()(v.Addr().Interface().(*json.Number))
		}
	}
	switch t.Kind() {
	case reflect.Bool:
		return func(v reflect.Value) Handler {
			return &reflectBoolHandler{scalarBase{name: t.String()}, v}
		}
	case reflect.String:
		return func(v reflect.Value) Handler {
			return &reflectStringHandler{scalarBase{name: t.String()}, v}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v reflect.Value) Handler {
			return &reflectIntHandler{scalarBase{name: t.String()}, v}
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(v reflect.Value) Handler {
			return &reflectUintHandler{scalarBase{name: t.String()}, v}
		}
	case reflect.Float32, reflect.Float64:
		return func(v reflect.Value) Handler {
			return &reflectFloatHandler{scalarBase{name: t.String()}, v}
		}
	case reflect.Pointer:
		elem := valueBindingFor(t.Elem())
		return func(v reflect.Value) Handler {
			return &reflectPtrHandler{slot: v, elemBind: elem, name: t.String()}
		}
	case reflect.Slice:
		elem := valueBindingFor(t.Elem())
		et := t.Elem()
		return func(v reflect.Value) Handler {
			h := &reflectSliceHandler{out: v, elemBind: elem, name: t.String()}
			h.elem = reflect.New(et).Elem()
			h.inner = elem(h.elem)
			return h
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			panic("typestream: Auto: map key type " + t.Key().String() + " is not a string kind")
		}
		elem := valueBindingFor(t.Elem())
		return func(v reflect.Value) Handler {
			h := &reflectMapHandler{out: v, elemBind: elem}
			h.elem = reflect.New(t.Elem()).Elem()
			h.inner = elem(h.elem)
			h.name = t.String()
			h.insert = func(k string, ev reflect.Value) {
				if v.IsNil() {
					v.Set(reflect.MakeMap(t))
				}
				kv := reflect.ValueOf(k).Convert(t.Key())
				v.SetMapIndex(kv, ev)
			}
			return h
		}
	case reflect.Struct:
		specs := structFieldSpecs(t)
		return func(v reflect.Value) Handler {
			fields := make([]boundField, len(specs))
			for i, sp := range specs {
				fields[i] = boundField{name: sp.name, h: sp.bind(v.Field(sp.index))}
			}
			return newObjectHandler(t.String(), fields, false)
		}
	default:
		panic("typestream: Auto: cannot bind kind " + t.Kind().String())
	}
}

type structFieldSpec struct {
	name  string
	index int
	bind  valueBinding
}

func structFieldSpecs(t reflect.Type) []structFieldSpec {
	var specs []structFieldSpec
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			base, _, _ := strings.Cut(tag, ",")
			if base == "-" {
				continue
			}
			if base != "" {
				name = base
			}
		}
		specs = append(specs, structFieldSpec{name: name, index: i, bind: valueBindingFor(sf.Type)})
	}
	return specs
}

// ---- reflect scalar handlers ----

type reflectBoolHandler struct {
	scalarBase
	v reflect.Value
}

func (h *reflectBoolHandler) Bool(b bool) error {
	h.v.SetBool(b)
	h.parsed = true
	return nil
}

func (h *reflectBoolHandler) Write(out Sink) error { return out.Bool(h.v.Bool()) }
func (h *reflectBoolHandler) Schema() *js.Schema   { return &js.Schema{Type: "boolean"} }

type reflectStringHandler struct {
	scalarBase
	v reflect.Value
}

func (h *reflectStringHandler) String(s string) error {
	h.v.SetString(s)
	h.parsed = true
	return nil
}

func (h *reflectStringHandler) Write(out Sink) error { return out.String(h.v.String()) }
func (h *reflectStringHandler) Schema() *js.Schema   { return &js.Schema{Type: "string"} }

type reflectIntHandler struct {
	scalarBase
	v reflect.Value
}

func (h *reflectIntHandler) set(i int64) error {
	if h.v.OverflowInt(i) {
		return &OverflowError{Type: h.name, Value: strconv.FormatInt(i, 10)}
	}
	h.v.SetInt(i)
	h.parsed = true
	return nil
}

func (h *reflectIntHandler) Int(i int) error     { return h.set(int64(i)) }
func (h *reflectIntHandler) Int64(i int64) error { return h.set(i) }
func (h *reflectIntHandler) Uint(u uint) error   { return h.Uint64(uint64(u)) }
func (h *reflectIntHandler) Uint64(u uint64) error {
	if u > 1<<63-1 {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(u, 10)}
	}
	return h.set(int64(u))
}

func (h *reflectIntHandler) Write(out Sink) error { return out.Int64(h.v.Int()) }
func (h *reflectIntHandler) Schema() *js.Schema   { return &js.Schema{Type: "integer"} }

type reflectUintHandler struct {
	scalarBase
	v reflect.Value
}

func (h *reflectUintHandler) set(u uint64) error {
	if h.v.OverflowUint(u) {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(u, 10)}
	}
	h.v.SetUint(u)
	h.parsed = true
	return nil
}

func (h *reflectUintHandler) Int(i int) error { return h.Int64(int64(i)) }
func (h *reflectUintHandler) Int64(i int64) error {
	if i < 0 {
		return &OverflowError{Type: h.name, Value: strconv.FormatInt(i, 10)}
	}
	return h.set(uint64(i))
}
func (h *reflectUintHandler) Uint(u uint) error     { return h.set(uint64(u)) }
func (h *reflectUintHandler) Uint64(u uint64) error { return h.set(u) }

func (h *reflectUintHandler) Write(out Sink) error { return out.Uint64(h.v.Uint()) }
func (h *reflectUintHandler) Schema() *js.Schema   { return &js.Schema{Type: "integer"} }

type reflectFloatHandler struct {
	scalarBase
	v reflect.Value
}

func (h *reflectFloatHandler) set(f float64) error {
	if h.v.OverflowFloat(f) {
		return &OverflowError{Type: h.name, Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	h.v.SetFloat(f)
	h.parsed = true
	return nil
}

func (h *reflectFloatHandler) Int(i int) error        { return h.set(float64(i)) }
func (h *reflectFloatHandler) Uint(u uint) error      { return h.set(float64(u)) }
func (h *reflectFloatHandler) Int64(i int64) error    { return h.set(float64(i)) }
func (h *reflectFloatHandler) Uint64(u uint64) error  { return h.set(float64(u)) }
func (h *reflectFloatHandler) Double(f float64) error { return h.set(f) }

func (h *reflectFloatHandler) Write(out Sink) error { return out.Double(h.v.Float()) }
func (h *reflectFloatHandler) Schema() *js.Schema   { return &js.Schema{Type: "number"} }

// ---- reflect container handlers ----
//
// These mirror the generic slice/pointer/map handlers over reflect.Value;
// the transition rules are identical, only element storage differs.

type reflectPtrHandler struct {
	slot     reflect.Value // addressable pointer value
	elemBind valueBinding
	inner    Handler
	name     string
	depth    int
	parsed   bool
}

func (h *reflectPtrHandler) init() {
	if h.inner == nil {
		h.slot.Set(reflect.New(h.slot.Type().Elem()))
		h.inner = h.elemBind(h.slot.Elem())
	}
}

func (h *reflectPtrHandler) post(err error) error {
	if err != nil {
		return err
	}
	h.parsed = h.inner.Parsed()
	return nil
}

func (h *reflectPtrHandler) Null() error {
	if h.depth == 0 {
		h.slot.SetZero()
		h.parsed = true
		return nil
	}
	h.init()
	return h.post(h.inner.Null())
}

func (h *reflectPtrHandler) Bool(b bool) error      { h.init(); return h.post(h.inner.Bool(b)) }
func (h *reflectPtrHandler) Int(i int) error        { h.init(); return h.post(h.inner.Int(i)) }
func (h *reflectPtrHandler) Uint(u uint) error      { h.init(); return h.post(h.inner.Uint(u)) }
func (h *reflectPtrHandler) Int64(i int64) error    { h.init(); return h.post(h.inner.Int64(i)) }
func (h *reflectPtrHandler) Uint64(u uint64) error  { h.init(); return h.post(h.inner.Uint64(u)) }
func (h *reflectPtrHandler) Double(f float64) error { h.init(); return h.post(h.inner.Double(f)) }
func (h *reflectPtrHandler) String(s string) error  { h.init(); return h.post(h.inner.String(s)) }
func (h *reflectPtrHandler) Key(k string) error     { h.init(); return h.post(h.inner.Key(k)) }

func (h *reflectPtrHandler) BeginArray() error {
	h.init()
	h.depth++
	return h.post(h.inner.BeginArray())
}

func (h *reflectPtrHandler) EndArray(n int) error {
	h.init()
	h.depth--
	return h.post(h.inner.EndArray(n))
}

func (h *reflectPtrHandler) BeginObject() error {
	h.init()
	h.depth++
	return h.post(h.inner.BeginObject())
}

func (h *reflectPtrHandler) EndObject(n int) error {
	h.init()
	h.depth--
	return h.post(h.inner.EndObject(n))
}

func (h *reflectPtrHandler) Parsed() bool { return h.parsed }

func (h *reflectPtrHandler) Reset() {
	h.depth = 0
	h.inner = nil
	h.slot.SetZero()
	h.parsed = false
}

func (h *reflectPtrHandler) Write(out Sink) error {
	if h.slot.IsNil() {
		return out.Null()
	}
	return h.elemBind(h.slot.Elem()).Write(out)
}

func (h *reflectPtrHandler) Schema() *js.Schema {
	tmp := reflect.New(h.slot.Type().Elem()).Elem()
	return &js.Schema{AnyOf: []*js.Schema{
		{Type: "null"},
		h.elemBind(tmp).Schema(),
	}}
}

func (h *reflectPtrHandler) TypeName() string { return h.name }

type reflectSliceHandler struct {
	out      reflect.Value // addressable slice value
	elem     reflect.Value // persistent element buffer
	elemBind valueBinding
	inner    Handler
	name     string
	depth    int
	parsed   bool
}

func (h *reflectSliceHandler) precheck(actual string) error {
	if h.depth <= 0 {
		return &TypeMismatchError{Expected: h.name, Actual: actual}
	}
	return nil
}

func (h *reflectSliceHandler) post(err error) error {
	if err != nil {
		return &ElementError{Index: h.out.Len(), Err: err}
	}
	if h.inner.Parsed() {
		h.out.Set(reflect.Append(h.out, h.elem))
		h.elem.SetZero()
		h.inner.Reset()
	}
	return nil
}

func (h *reflectSliceHandler) event(actual string, ev func(Handler) error) error {
	if err := h.precheck(actual); err != nil {
		return err
	}
	return h.post(ev(h.inner))
}

func (h *reflectSliceHandler) Null() error {
	return h.event("null", func(c Handler) error { return c.Null() })
}
func (h *reflectSliceHandler) Bool(b bool) error {
	return h.event("bool", func(c Handler) error { return c.Bool(b) })
}
func (h *reflectSliceHandler) Int(i int) error {
	return h.event("int", func(c Handler) error { return c.Int(i) })
}
func (h *reflectSliceHandler) Uint(u uint) error {
	return h.event("uint", func(c Handler) error { return c.Uint(u) })
}
func (h *reflectSliceHandler) Int64(i int64) error {
	return h.event("int64", func(c Handler) error { return c.Int64(i) })
}
func (h *reflectSliceHandler) Uint64(u uint64) error {
	return h.event("uint64", func(c Handler) error { return c.Uint64(u) })
}
func (h *reflectSliceHandler) Double(f float64) error {
	return h.event("double", func(c Handler) error { return c.Double(f) })
}
func (h *reflectSliceHandler) String(s string) error {
	return h.event("string", func(c Handler) error { return c.String(s) })
}
func (h *reflectSliceHandler) Key(k string) error {
	return h.event("key", func(c Handler) error { return c.Key(k) })
}
func (h *reflectSliceHandler) BeginObject() error {
	return h.event("object", func(c Handler) error { return c.BeginObject() })
}
func (h *reflectSliceHandler) EndObject(n int) error {
	return h.event("object", func(c Handler) error { return c.EndObject(n) })
}

func (h *reflectSliceHandler) BeginArray() error {
	h.depth++
	if h.depth > 1 {
		return h.post(h.inner.BeginArray())
	}
	return nil
}

func (h *reflectSliceHandler) EndArray(n int) error {
	h.depth--
	if h.depth > 0 {
		return h.post(h.inner.EndArray(n))
	}
	h.parsed = true
	return nil
}

func (h *reflectSliceHandler) Parsed() bool { return h.parsed }

func (h *reflectSliceHandler) Reset() {
	h.elem.SetZero()
	h.inner.Reset()
	h.depth = 0
	h.parsed = false
	h.out.SetZero()
}

func (h *reflectSliceHandler) Write(out Sink) error {
	if err := out.BeginArray(); err != nil {
		return err
	}
	n := h.out.Len()
	for i := 0; i < n; i++ {
		if err := h.elemBind(h.out.Index(i)).Write(out); err != nil {
			return err
		}
	}
	return out.EndArray(n)
}

func (h *reflectSliceHandler) Schema() *js.Schema {
	return &js.Schema{Type: "array", Items: h.inner.Schema()}
}

func (h *reflectSliceHandler) TypeName() string { return h.name }

type reflectMapHandler struct {
	elem     reflect.Value // persistent element buffer
	elemBind valueBinding
	inner    Handler
	out      reflect.Value // addressable map value
	key      string
	depth    int
	parsed   bool
	name     string
	insert   func(key string, v reflect.Value)
}

func (h *reflectMapHandler) precheck(actual string) error {
	if h.depth <= 0 {
		return &TypeMismatchError{Expected: h.name, Actual: actual}
	}
	return nil
}

func (h *reflectMapHandler) post(err error) error {
	if err != nil {
		return &MemberError{Key: h.key, Err: err}
	}
	if h.inner.Parsed() {
		// SetMapIndex copies the value, so the shared buffer is safe to reuse.
		h.insert(h.key, h.elem)
		h.elem.SetZero()
		h.key = ""
		h.inner.Reset()
	}
	return nil
}

func (h *reflectMapHandler) event(actual string, ev func(Handler) error) error {
	if err := h.precheck(actual); err != nil {
		return err
	}
	return h.post(ev(h.inner))
}

func (h *reflectMapHandler) Null() error {
	return h.event("null", func(c Handler) error { return c.Null() })
}
func (h *reflectMapHandler) Bool(b bool) error {
	return h.event("bool", func(c Handler) error { return c.Bool(b) })
}
func (h *reflectMapHandler) Int(i int) error {
	return h.event("int", func(c Handler) error { return c.Int(i) })
}
func (h *reflectMapHandler) Uint(u uint) error {
	return h.event("uint", func(c Handler) error { return c.Uint(u) })
}
func (h *reflectMapHandler) Int64(i int64) error {
	return h.event("int64", func(c Handler) error { return c.Int64(i) })
}
func (h *reflectMapHandler) Uint64(u uint64) error {
	return h.event("uint64", func(c Handler) error { return c.Uint64(u) })
}
func (h *reflectMapHandler) Double(f float64) error {
	return h.event("double", func(c Handler) error { return c.Double(f) })
}
func (h *reflectMapHandler) String(s string) error {
	return h.event("string", func(c Handler) error { return c.String(s) })
}

func (h *reflectMapHandler) Key(k string) error {
	if err := h.precheck("key"); err != nil {
		return err
	}
	if h.depth > 1 {
		return h.post(h.inner.Key(k))
	}
	h.key = k
	return nil
}

func (h *reflectMapHandler) BeginArray() error {
	return h.event("array", func(c Handler) error { return c.BeginArray() })
}
func (h *reflectMapHandler) EndArray(n int) error {
	return h.event("array", func(c Handler) error { return c.EndArray(n) })
}

func (h *reflectMapHandler) BeginObject() error {
	h.depth++
	if h.depth > 1 {
		return h.post(h.inner.BeginObject())
	}
	return nil
}

func (h *reflectMapHandler) EndObject(n int) error {
	h.depth--
	if h.depth > 0 {
		return h.post(h.inner.EndObject(n))
	}
	h.parsed = true
	return nil
}

func (h *reflectMapHandler) Parsed() bool { return h.parsed }

func (h *reflectMapHandler) Reset() {
	h.elem.SetZero()
	h.key = ""
	h.inner.Reset()
	h.depth = 0
	h.parsed = false
	h.out.SetZero()
}

func (h *reflectMapHandler) Write(out Sink) error {
	if err := out.BeginObject(); err != nil {
		return err
	}
	keys := make([]string, 0, h.out.Len())
	for _, kv := range h.out.MapKeys() {
		keys = append(keys, kv.String())
	}
	sort.Strings(keys)
	kt := h.out.Type().Key()
	buf := reflect.New(h.out.Type().Elem()).Elem()
	for _, k := range keys {
		if err := out.Key(k); err != nil {
			return err
		}
		buf.Set(h.out.MapIndex(reflect.ValueOf(k).Convert(kt)))
		if err := h.elemBind(buf).Write(out); err != nil {
			return err
		}
	}
	return out.EndObject(h.out.Len())
}

func (h *reflectMapHandler) Schema() *js.Schema {
	return &js.Schema{
		Type:                 "object",
		Properties:           map[string]*js.Schema{},
		AdditionalProperties: h.inner.Schema(),
	}
}

func (h *reflectMapHandler) TypeName() string { return h.name }
