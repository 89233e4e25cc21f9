package json_test

import (
	"io"
	"testing"

	eng "github.com/typestream/typestream/internal/engine"
	jsonsrc "github.com/typestream/typestream/source/json"
)

func drain(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var toks []eng.Token
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return toks
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []eng.Token) []eng.Kind {
	ks := make([]eng.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestSource_TokenSequence(t *testing.T) {
	toks := drain(t, jsonsrc.NewBytes([]byte(`{"a":[1,"s",true,null],"b":{"c":2.5}}`)))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray,
		eng.KindNumber, eng.KindString, eng.KindBool, eng.KindNull,
		eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject,
		eng.KindKey, eng.KindNumber,
		eng.KindEndObject,
		eng.KindEndObject,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSource_KeyVsStringValue(t *testing.T) {
	toks := drain(t, jsonsrc.NewBytes([]byte(`{"k":"v"}`)))
	if toks[1].Kind != eng.KindKey || toks[1].String != "k" {
		t.Fatalf("want key k, got %+v", toks[1])
	}
	if toks[2].Kind != eng.KindString || toks[2].String != "v" {
		t.Fatalf("want string v, got %+v", toks[2])
	}
}

func TestSource_StringElementInsideArray(t *testing.T) {
	toks := drain(t, jsonsrc.NewBytes([]byte(`{"k":["a","b"]}`)))
	// Strings inside the array are values even though the enclosing
	// container is an object.
	if toks[3].Kind != eng.KindString || toks[4].Kind != eng.KindString {
		t.Fatalf("want two string values, got %v", kinds(toks))
	}
}

func TestSource_NumberKeepsText(t *testing.T) {
	toks := drain(t, jsonsrc.NewBytes([]byte(`12345678901234567890`)))
	if len(toks) != 1 || toks[0].Number != "12345678901234567890" {
		t.Fatalf("want exact number text, got %+v", toks)
	}
}

func TestSource_Offsets(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`[1, 22]`))
	toks := drain(t, src)
	for i, tok := range toks {
		if tok.Offset <= 0 {
			t.Fatalf("token %d: want positive offset, got %d", i, tok.Offset)
		}
	}
	if src.Location() <= 0 {
		t.Fatalf("want positive location, got %d", src.Location())
	}
}
