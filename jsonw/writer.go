// Package jsonw writes a stream of structural events out as JSON text.
//
// Writer satisfies the event sink contract of the root package without
// importing it, so the root package can drive a Writer to serialize bound
// values.
package jsonw

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strconv"

	"go4.org/mem"

	"github.com/typestream/typestream/internal/escape"
)

// Writer emits JSON text for the events pushed into it. Events must form a
// well-formed sequence: object members alternate Key and value, containers
// balance. The zero Writer is not usable; call NewWriter.
type Writer struct {
	w      *bufio.Writer
	frames []frame
	// afterKey is true between a Key event and the member value it names.
	afterKey bool
	indent   string
	scratch  []byte
}

type frame struct {
	isObj bool
	n     int
}

// NewWriter returns a Writer emitting compact JSON to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// SetIndent switches the Writer to indented output, one value per line,
// nested values prefixed by repetitions of indent.
func (w *Writer) SetIndent(indent string) { w.indent = indent }

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

func (w *Writer) newline() error {
	if w.indent == "" {
		return nil
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	for range w.frames {
		if _, err := w.w.WriteString(w.indent); err != nil {
			return err
		}
	}
	return nil
}

// sep emits whatever separator the current position requires before a value.
func (w *Writer) sep() error {
	if w.afterKey {
		w.afterKey = false
		return nil
	}
	if len(w.frames) == 0 {
		return nil
	}
	top := &w.frames[len(w.frames)-1]
	if top.isObj {
		return errors.New("jsonw: object member value without key")
	}
	if top.n > 0 {
		if err := w.w.WriteByte(','); err != nil {
			return err
		}
	}
	top.n++
	return w.newline()
}

func (w *Writer) value(raw string) error {
	if err := w.sep(); err != nil {
		return err
	}
	_, err := w.w.WriteString(raw)
	return err
}

func (w *Writer) Null() error       { return w.value("null") }
func (w *Writer) Bool(b bool) error { return w.value(strconv.FormatBool(b)) }

func (w *Writer) Int(i int) error     { return w.Int64(int64(i)) }
func (w *Writer) Uint(u uint) error   { return w.Uint64(uint64(u)) }
func (w *Writer) Int64(i int64) error { return w.value(strconv.FormatInt(i, 10)) }
func (w *Writer) Uint64(u uint64) error {
	return w.value(strconv.FormatUint(u, 10))
}

func (w *Writer) Double(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("jsonw: " + strconv.FormatFloat(f, 'g', -1, 64) + " is not representable in JSON")
	}
	return w.value(strconv.FormatFloat(f, 'g', -1, 64))
}

func (w *Writer) quoted(s string) error {
	w.scratch = w.scratch[:0]
	w.scratch = append(w.scratch, '"')
	w.scratch = escape.Quote(w.scratch, mem.S(s))
	w.scratch = append(w.scratch, '"')
	_, err := w.w.Write(w.scratch)
	return err
}

func (w *Writer) String(s string) error {
	if err := w.sep(); err != nil {
		return err
	}
	return w.quoted(s)
}

func (w *Writer) Key(k string) error {
	if len(w.frames) == 0 || !w.frames[len(w.frames)-1].isObj {
		return errors.New("jsonw: key outside object")
	}
	if w.afterKey {
		return errors.New("jsonw: key after key")
	}
	top := &w.frames[len(w.frames)-1]
	if top.n > 0 {
		if err := w.w.WriteByte(','); err != nil {
			return err
		}
	}
	top.n++
	if err := w.newline(); err != nil {
		return err
	}
	if err := w.quoted(k); err != nil {
		return err
	}
	if err := w.w.WriteByte(':'); err != nil {
		return err
	}
	if w.indent != "" {
		if err := w.w.WriteByte(' '); err != nil {
			return err
		}
	}
	w.afterKey = true
	return nil
}

func (w *Writer) begin(open byte, isObj bool) error {
	if err := w.sep(); err != nil {
		return err
	}
	w.frames = append(w.frames, frame{isObj: isObj})
	return w.w.WriteByte(open)
}

func (w *Writer) end(closing byte, isObj bool) error {
	if len(w.frames) == 0 || w.frames[len(w.frames)-1].isObj != isObj {
		return errors.New("jsonw: unbalanced container close")
	}
	n := w.frames[len(w.frames)-1].n
	w.frames = w.frames[:len(w.frames)-1]
	if n > 0 {
		if err := w.newline(); err != nil {
			return err
		}
	}
	return w.w.WriteByte(closing)
}

func (w *Writer) BeginArray() error   { return w.begin('[', false) }
func (w *Writer) EndArray(int) error  { return w.end(']', false) }
func (w *Writer) BeginObject() error  { return w.begin('{', true) }
func (w *Writer) EndObject(int) error { return w.end('}', true) }
