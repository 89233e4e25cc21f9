package typestream

import (
	"encoding/json"
	"math"
	"strconv"

	js "github.com/typestream/typestream/jsonschema"
)

// Scalar bindings: the leaves of the type tree. Each accepts exactly the
// numeric events its Go type can represent losslessly; anything else is a
// type mismatch or, for representable-kind-but-out-of-range values, an
// overflow.

// scalarBase supplies the reject-everything defaults; concrete scalar
// handlers shadow the events they accept.
type scalarBase struct {
	name   string
	parsed bool
}

func (b *scalarBase) mismatch(actual string) error {
	return &TypeMismatchError{Expected: b.name, Actual: actual}
}

func (b *scalarBase) Null() error          { return b.mismatch("null") }
func (b *scalarBase) Bool(bool) error      { return b.mismatch("bool") }
func (b *scalarBase) Int(int) error        { return b.mismatch("int") }
func (b *scalarBase) Uint(uint) error      { return b.mismatch("uint") }
func (b *scalarBase) Int64(int64) error    { return b.mismatch("int64") }
func (b *scalarBase) Uint64(uint64) error  { return b.mismatch("uint64") }
func (b *scalarBase) Double(float64) error { return b.mismatch("double") }
func (b *scalarBase) String(string) error  { return b.mismatch("string") }
func (b *scalarBase) Key(string) error     { return b.mismatch("key") }
func (b *scalarBase) BeginArray() error    { return b.mismatch("array") }
func (b *scalarBase) EndArray(int) error   { return b.mismatch("array") }
func (b *scalarBase) BeginObject() error   { return b.mismatch("object") }
func (b *scalarBase) EndObject(int) error  { return b.mismatch("object") }

func (b *scalarBase) Parsed() bool     { return b.parsed }
func (b *scalarBase) Reset()           { b.parsed = false }
func (b *scalarBase) TypeName() string { return b.name }

// Bool binds a handler for bool.
func Bool() Binding[bool] {
	return func(v *bool) Handler { return &boolHandler{scalarBase{name: "bool"}, v} }
}

type boolHandler struct {
	scalarBase
	v *bool
}

func (h *boolHandler) Bool(b bool) error {
	*h.v = b
	h.parsed = true
	return nil
}

func (h *boolHandler) Write(out Sink) error { return out.Bool(*h.v) }
func (h *boolHandler) Schema() *js.Schema   { return &js.Schema{Type: "boolean"} }

// String binds a handler for string.
func String() Binding[string] {
	return func(v *string) Handler { return &stringHandler{scalarBase{name: "string"}, v} }
}

type stringHandler struct {
	scalarBase
	v *string
}

func (h *stringHandler) String(s string) error {
	*h.v = s
	h.parsed = true
	return nil
}

func (h *stringHandler) Write(out Sink) error { return out.String(*h.v) }
func (h *stringHandler) Schema() *js.Schema   { return &js.Schema{Type: "string"} }

// Int binds a handler for the platform int.
func Int() Binding[int] {
	return func(v *int) Handler { return &intHandler{scalarBase{name: "int"}, v} }
}

type intHandler struct {
	scalarBase
	v *int
}

func (h *intHandler) set(i int64) error {
	if i < math.MinInt || i > math.MaxInt {
		return &OverflowError{Type: h.name, Value: strconv.FormatInt(i, 10)}
	}
	*h.v = int(i)
	h.parsed = true
	return nil
}

func (h *intHandler) Int(i int) error { return h.set(int64(i)) }
func (h *intHandler) Uint(u uint) error {
	if uint64(u) > math.MaxInt {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(uint64(u), 10)}
	}
	return h.set(int64(u))
}
func (h *intHandler) Int64(i int64) error { return h.set(i) }
func (h *intHandler) Uint64(u uint64) error {
	if u > math.MaxInt {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(u, 10)}
	}
	return h.set(int64(u))
}

func (h *intHandler) Write(out Sink) error { return out.Int(*h.v) }
func (h *intHandler) Schema() *js.Schema   { return &js.Schema{Type: "integer"} }

// Int64 binds a handler for int64.
func Int64() Binding[int64] {
	return func(v *int64) Handler { return &int64Handler{scalarBase{name: "int64"}, v} }
}

type int64Handler struct {
	scalarBase
	v *int64
}

func (h *int64Handler) set(i int64) error {
	*h.v = i
	h.parsed = true
	return nil
}

func (h *int64Handler) Int(i int) error   { return h.set(int64(i)) }
func (h *int64Handler) Uint(u uint) error { return h.Uint64(uint64(u)) }
func (h *int64Handler) Int64(i int64) error {
	return h.set(i)
}
func (h *int64Handler) Uint64(u uint64) error {
	if u > math.MaxInt64 {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(u, 10)}
	}
	return h.set(int64(u))
}

func (h *int64Handler) Write(out Sink) error { return out.Int64(*h.v) }
func (h *int64Handler) Schema() *js.Schema   { return &js.Schema{Type: "integer", Format: "int64"} }

// Uint binds a handler for the platform uint.
func Uint() Binding[uint] {
	return func(v *uint) Handler { return &uintHandler{scalarBase{name: "uint"}, v} }
}

type uintHandler struct {
	scalarBase
	v *uint
}

func (h *uintHandler) set(u uint64) error {
	if u > math.MaxUint {
		return &OverflowError{Type: h.name, Value: strconv.FormatUint(u, 10)}
	}
	*h.v = uint(u)
	h.parsed = true
	return nil
}

func (h *uintHandler) neg(i int64) error {
	return &OverflowError{Type: h.name, Value: strconv.FormatInt(i, 10)}
}

func (h *uintHandler) Int(i int) error {
	if i < 0 {
		return h.neg(int64(i))
	}
	return h.set(uint64(i))
}
func (h *uintHandler) Uint(u uint) error { return h.set(uint64(u)) }
func (h *uintHandler) Int64(i int64) error {
	if i < 0 {
		return h.neg(i)
	}
	return h.set(uint64(i))
}
func (h *uintHandler) Uint64(u uint64) error { return h.set(u) }

func (h *uintHandler) Write(out Sink) error { return out.Uint(*h.v) }
func (h *uintHandler) Schema() *js.Schema   { return &js.Schema{Type: "integer"} }

// Uint64 binds a handler for uint64.
func Uint64() Binding[uint64] {
	return func(v *uint64) Handler { return &uint64Handler{scalarBase{name: "uint64"}, v} }
}

type uint64Handler struct {
	scalarBase
	v *uint64
}

func (h *uint64Handler) set(u uint64) error {
	*h.v = u
	h.parsed = true
	return nil
}

func (h *uint64Handler) Int(i int) error { return h.Int64(int64(i)) }
func (h *uint64Handler) Int64(i int64) error {
	if i < 0 {
		return &OverflowError{Type: h.name, Value: strconv.FormatInt(i, 10)}
	}
	return h.set(uint64(i))
}
func (h *uint64Handler) Uint(u uint) error     { return h.set(uint64(u)) }
func (h *uint64Handler) Uint64(u uint64) error { return h.set(u) }

func (h *uint64Handler) Write(out Sink) error { return out.Uint64(*h.v) }
func (h *uint64Handler) Schema() *js.Schema   { return &js.Schema{Type: "integer", Format: "uint64"} }

// Float64 binds a handler for float64. It accepts every numeric event.
func Float64() Binding[float64] {
	return func(v *float64) Handler { return &float64Handler{scalarBase{name: "float64"}, v} }
}

type float64Handler struct {
	scalarBase
	v *float64
}

func (h *float64Handler) set(f float64) error {
	*h.v = f
	h.parsed = true
	return nil
}

func (h *float64Handler) Int(i int) error       { return h.set(float64(i)) }
func (h *float64Handler) Uint(u uint) error     { return h.set(float64(u)) }
func (h *float64Handler) Int64(i int64) error   { return h.set(float64(i)) }
func (h *float64Handler) Uint64(u uint64) error { return h.set(float64(u)) }
func (h *float64Handler) Double(f float64) error {
	return h.set(f)
}

func (h *float64Handler) Write(out Sink) error { return out.Double(*h.v) }
func (h *float64Handler) Schema() *js.Schema   { return &js.Schema{Type: "number"} }

// Number binds a handler for json.Number, preserving the numeric text.
func Number() Binding[json.Number] {
	return func(v *json.Number) Handler { return &numberHandler{scalarBase{name: "number"}, v} }
}

type numberHandler struct {
	scalarBase
	v *json.Number
}

func (h *numberHandler) set(s string) error {
	*h.v = json.Number(s)
	h.parsed = true
	return nil
}

func (h *numberHandler) Int(i int) error       { return h.set(strconv.FormatInt(int64(i), 10)) }
func (h *numberHandler) Uint(u uint) error     { return h.set(strconv.FormatUint(uint64(u), 10)) }
func (h *numberHandler) Int64(i int64) error   { return h.set(strconv.FormatInt(i, 10)) }
func (h *numberHandler) Uint64(u uint64) error { return h.set(strconv.FormatUint(u, 10)) }
func (h *numberHandler) Double(f float64) error {
	return h.set(strconv.FormatFloat(f, 'g', -1, 64))
}

func (h *numberHandler) Write(out Sink) error {
	s := string(*h.v)
	if s == "" {
		s = "0"
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return out.Int64(i)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return out.Uint64(u)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	return out.Double(f)
}

func (h *numberHandler) Schema() *js.Schema { return &js.Schema{Type: "number"} }
