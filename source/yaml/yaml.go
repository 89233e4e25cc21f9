// Package yaml adapts YAML documents into the JSON-shaped token stream.
// The document is decoded into a node tree up front and flattened; scalar
// tags decide whether a value surfaces as a number, bool, null, or string.
package yaml

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	eng "github.com/typestream/typestream/internal/engine"
)

type source struct {
	toks []eng.Token
	pos  int
}

// NewReader decodes one YAML document from r into a token source. Decode
// errors surface from the first NextToken call.
func NewReader(r io.Reader) eng.TokenSource {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return &source{}
		}
		return &errSource{err: err}
	}
	toks, err := flatten(&root, nil)
	if err != nil {
		return &errSource{err: err}
	}
	return &source{toks: toks}
}

// NewBytes decodes one YAML document from b into a token source.
func NewBytes(b []byte) eng.TokenSource {
	return NewReader(bytes.NewReader(b))
}

func (s *source) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

type errSource struct{ err error }

func (s *errSource) NextToken() (eng.Token, error) { return eng.Token{}, s.err }
func (s *errSource) Location() int64               { return -1 }

func flatten(n *yaml.Node, toks []eng.Token) ([]eng.Token, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("yaml: document with %d root nodes", len(n.Content))
		}
		return flatten(n.Content[0], toks)
	case yaml.AliasNode:
		// The decoder rejects runaway alias expansion before we get here.
		return flatten(n.Alias, toks)
	case yaml.SequenceNode:
		toks = append(toks, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			var err error
			if toks, err = flatten(c, toks); err != nil {
				return nil, err
			}
		}
		return append(toks, eng.Token{Kind: eng.KindEndArray, Offset: -1}), nil
	case yaml.MappingNode:
		toks = append(toks, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml: non-scalar mapping key at line %d", k.Line)
			}
			toks = append(toks, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			var err error
			if toks, err = flatten(n.Content[i+1], toks); err != nil {
				return nil, err
			}
		}
		return append(toks, eng.Token{Kind: eng.KindEndObject, Offset: -1}), nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return append(toks, eng.Token{Kind: eng.KindNull, Offset: -1}), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return append(toks, eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}), nil
		case "!!int", "!!float":
			return append(toks, eng.Token{Kind: eng.KindNumber, Number: n.Value, Offset: -1}), nil
		default:
			return append(toks, eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}), nil
		}
	default:
		return nil, fmt.Errorf("yaml: unsupported node kind %d", n.Kind)
	}
}
