package typestream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/typestream/typestream/jsonw"
	jsonsrc "github.com/typestream/typestream/source/json"
)

// ParseOpt controls resource limits for a decode pass.
type ParseOpt struct {
	// MaxDepth caps container nesting. Zero means no limit.
	MaxDepth int
	// MaxBytes caps input size for the reader-based entry points. Zero means
	// no limit.
	MaxBytes int64
}

func pickOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[0]
	}
	return ParseOpt{}
}

// countFrame tracks the member or element count of one open container so the
// matching End event can carry it.
type countFrame struct {
	isObj bool
	n     int
}

// Decode pulls tokens from src and pushes them into h until one top-level
// value has been consumed. Handler rejections come back as Issues with JSON
// Pointer paths; source failures come back as a parse_error Issue.
func Decode(ctx context.Context, src Source, h Handler, opts ...ParseOpt) error {
	opt := pickOpt(opts)
	var frames []countFrame
	seen := false

	for {
		if err := ctx.Err(); err != nil {
			return toIssues(err, src.Location())
		}
		tok, err := src.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !seen || len(frames) > 0 {
					return AppendIssues(nil, Issue{
						Path:    "/",
						Code:    CodeTruncated,
						Message: "unexpected end of input",
						Offset:  src.Location(),
					})
				}
				return nil
			}
			return toIssues(err, src.Location())
		}

		// Count the token toward the enclosing container before delivering
		// it, so End events report the final size.
		switch tok.Kind {
		case KindKey:
			if len(frames) > 0 && frames[len(frames)-1].isObj {
				frames[len(frames)-1].n++
			}
		case KindEndArray, KindEndObject:
			// handled below
		default:
			if len(frames) > 0 && !frames[len(frames)-1].isObj {
				frames[len(frames)-1].n++
			}
		}

		var herr error
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			frames = append(frames, countFrame{isObj: tok.Kind == KindBeginObject})
			if opt.MaxDepth > 0 && len(frames) > opt.MaxDepth {
				return AppendIssues(nil, Issue{
					Path:    "/",
					Code:    CodeParseError,
					Message: "max depth exceeded",
					Offset:  tok.Offset,
				})
			}
			if tok.Kind == KindBeginObject {
				herr = h.BeginObject()
			} else {
				herr = h.BeginArray()
			}
		case KindEndObject, KindEndArray:
			if len(frames) == 0 {
				return AppendIssues(nil, Issue{
					Path:    "/",
					Code:    CodeParseError,
					Message: "unbalanced container close",
					Offset:  tok.Offset,
				})
			}
			n := frames[len(frames)-1].n
			frames = frames[:len(frames)-1]
			if tok.Kind == KindEndObject {
				herr = h.EndObject(n)
			} else {
				herr = h.EndArray(n)
			}
		case KindKey:
			herr = h.Key(tok.String)
		case KindString:
			herr = h.String(tok.String)
		case KindNumber:
			herr, err = deliverNumber(h, tok.Number)
			if err != nil {
				return AppendIssues(nil, Issue{
					Path:    "/",
					Code:    CodeParseError,
					Message: "malformed number " + strconv.Quote(tok.Number),
					Cause:   err,
					Offset:  tok.Offset,
				})
			}
		case KindBool:
			herr = h.Bool(tok.Bool)
		case KindNull:
			herr = h.Null()
		}
		if herr != nil {
			return Issues{issueFromHandlerError(herr, tok.Offset)}
		}
		seen = true
		if len(frames) == 0 {
			return nil
		}
	}
}

// deliverNumber dispatches number text to the narrowest event that preserves
// its value: signed integer, then unsigned integer, then double.
func deliverNumber(h Sink, text string) (herr, err error) {
	if i, e := strconv.ParseInt(text, 10, 64); e == nil {
		return h.Int64(i), nil
	}
	if u, e := strconv.ParseUint(text, 10, 64); e == nil {
		return h.Uint64(u), nil
	}
	f, e := strconv.ParseFloat(text, 64)
	if e != nil {
		return nil, e
	}
	return h.Double(f), nil
}

// JSONBytes wraps JSON data into a Source using the default driver.
func JSONBytes(data []byte) Source { return jsonsrc.NewBytes(data) }

// JSONReader wraps JSON text on r into a Source using the default driver.
func JSONReader(r io.Reader) Source { return jsonsrc.NewReader(r) }

// Parse decodes one value of type T from src.
func Parse[T any](ctx context.Context, b Binding[T], src Source, opts ...ParseOpt) (T, error) {
	var v T
	if err := Decode(ctx, src, b(&v), opts...); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ParseBytes decodes one value of type T from JSON data.
func ParseBytes[T any](ctx context.Context, b Binding[T], data []byte, opts ...ParseOpt) (T, error) {
	opt := pickOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		var zero T
		return zero, AppendIssues(nil, Issue{
			Path:    "/",
			Code:    CodeTruncated,
			Message: "input exceeds size limit",
			Offset:  opt.MaxBytes,
		})
	}
	return Parse(ctx, b, jsonsrc.NewBytes(data), opts...)
}

// ParseReader decodes one value of type T from JSON text on r. When
// MaxBytes is set, reading stops at the limit and the decode reports a
// truncated input.
func ParseReader[T any](ctx context.Context, b Binding[T], r io.Reader, opts ...ParseOpt) (T, error) {
	opt := pickOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes)
	}
	return Parse(ctx, b, jsonsrc.NewReader(r), opts...)
}

// Pump replays every token from src into sink until EOF, maintaining the
// container counts the End events carry. It is the bridge between a source
// and an output writer for format conversion.
func Pump(src Source, sink Sink) error {
	var frames []countFrame
	for {
		tok, err := src.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(frames) > 0 {
					return errors.New("typestream: unexpected end of input")
				}
				return nil
			}
			return err
		}
		switch tok.Kind {
		case KindKey:
			if len(frames) > 0 && frames[len(frames)-1].isObj {
				frames[len(frames)-1].n++
			}
		case KindEndArray, KindEndObject:
		default:
			if len(frames) > 0 && !frames[len(frames)-1].isObj {
				frames[len(frames)-1].n++
			}
		}
		switch tok.Kind {
		case KindKey:
			err = sink.Key(tok.String)
		case KindBeginObject, KindBeginArray:
			frames = append(frames, countFrame{isObj: tok.Kind == KindBeginObject})
			if tok.Kind == KindBeginObject {
				err = sink.BeginObject()
			} else {
				err = sink.BeginArray()
			}
		case KindEndObject, KindEndArray:
			if len(frames) == 0 {
				return errors.New("typestream: unbalanced container close")
			}
			n := frames[len(frames)-1].n
			frames = frames[:len(frames)-1]
			if tok.Kind == KindEndObject {
				err = sink.EndObject(n)
			} else {
				err = sink.EndArray(n)
			}
		case KindString:
			err = sink.String(tok.String)
		case KindNumber:
			var perr error
			err, perr = deliverNumber(sink, tok.Number)
			if perr != nil {
				return perr
			}
		case KindBool:
			err = sink.Bool(tok.Bool)
		case KindNull:
			err = sink.Null()
		}
		if err != nil {
			return err
		}
	}
}

// EncodeTo replays h's bound value into w as compact JSON.
func EncodeTo(h Handler, w io.Writer) error {
	jw := jsonw.NewWriter(w)
	if err := h.Write(jw); err != nil {
		return err
	}
	return jw.Flush()
}

// Marshal serializes v through its binding.
func Marshal[T any](b Binding[T], v *T) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(b(v), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
