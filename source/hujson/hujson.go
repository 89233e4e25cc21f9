// Package hujson accepts JWCC input (JSON with comments and trailing
// commas) by standardizing it to plain JSON and delegating to source/json.
// Offsets refer to the standardized text.
package hujson

import (
	"io"

	"github.com/tailscale/hujson"

	eng "github.com/typestream/typestream/internal/engine"
	jsonsrc "github.com/typestream/typestream/source/json"
)

// NewBytes wraps a JWCC byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource {
	std, err := hujson.Standardize(b)
	if err != nil {
		return &errSource{err: err}
	}
	return jsonsrc.NewBytes(std)
}

// NewReader wraps JWCC text on r into an engine.TokenSource. The input is
// read fully before tokenization.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &errSource{err: err}
	}
	return NewBytes(b)
}

type errSource struct{ err error }

func (s *errSource) NextToken() (eng.Token, error) { return eng.Token{}, s.err }
func (s *errSource) Location() int64               { return -1 }
