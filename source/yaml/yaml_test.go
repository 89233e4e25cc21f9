package yaml_test

import (
	"bytes"
	"context"
	"testing"

	typestream "github.com/typestream/typestream"
	"github.com/typestream/typestream/jsonw"
	yamlsrc "github.com/typestream/typestream/source/yaml"
)

func toJSON(t *testing.T, doc string) string {
	t.Helper()
	var buf bytes.Buffer
	w := jsonw.NewWriter(&buf)
	if err := typestream.Pump(yamlsrc.NewBytes([]byte(doc)), w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestSource_ScalarTags(t *testing.T) {
	doc := "a: 1\nb: 2.5\nc: true\nd: null\ne: hello\nf: \"007\"\n"
	want := `{"a":1,"b":2.5,"c":true,"d":null,"e":"hello","f":"007"}`
	if got := toJSON(t, doc); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestSource_NestedStructures(t *testing.T) {
	doc := "top:\n  - x: 1\n  - y: [a, b]\n"
	want := `{"top":[{"x":1},{"y":["a","b"]}]}`
	if got := toJSON(t, doc); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestSource_Anchors(t *testing.T) {
	doc := "base: &b 5\nref: *b\n"
	want := `{"base":5,"ref":5}`
	if got := toJSON(t, doc); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestSource_DecodesIntoHandlers(t *testing.T) {
	ctx := context.Background()
	doc := "counts:\n  a: 1\n  b: 2\n"
	b := typestream.Map(typestream.Map(typestream.Int()))
	v, err := typestream.Parse(ctx, b, yamlsrc.NewBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["counts"]["a"] != 1 || v["counts"]["b"] != 2 {
		t.Fatalf("got %v", v)
	}
}

func TestSource_MalformedDocument(t *testing.T) {
	src := yamlsrc.NewBytes([]byte("a: [1, 2\n"))
	if _, err := src.NextToken(); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}
