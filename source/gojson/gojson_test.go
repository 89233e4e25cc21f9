package gojson_test

import (
	"io"
	"testing"

	eng "github.com/typestream/typestream/internal/engine"
	gojsonsrc "github.com/typestream/typestream/source/gojson"
)

func TestSource_TokenSequence(t *testing.T) {
	src := gojsonsrc.NewBytes([]byte(`{"a":[1,"s",true,null]}`))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray,
		eng.KindNumber, eng.KindString, eng.KindBool, eng.KindNull,
		eng.KindEndArray,
		eng.KindEndObject,
	}
	for i, k := range want {
		tok, err := src.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Kind != k {
			t.Fatalf("token %d: want %v, got %v", i, k, tok.Kind)
		}
	}
	if _, err := src.NextToken(); err != io.EOF {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestSource_NumberKeepsText(t *testing.T) {
	src := gojsonsrc.NewBytes([]byte(`0.1000000000000000055511151231257827`))
	tok, err := src.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != eng.KindNumber || tok.Number != "0.1000000000000000055511151231257827" {
		t.Fatalf("want exact number text, got %+v", tok)
	}
}

func TestSource_NoOffsets(t *testing.T) {
	src := gojsonsrc.NewBytes([]byte(`true`))
	tok, err := src.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Offset != -1 || src.Location() != -1 {
		t.Fatalf("offsets are not tracked by this source, got %d/%d", tok.Offset, src.Location())
	}
}
