package typestream_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	typestream "github.com/typestream/typestream"
	js "github.com/typestream/typestream/jsonschema"
)

func schemaOf[T any](b typestream.Binding[T]) *js.Schema {
	var v T
	return b(&v).Schema()
}

func TestSchema_Scalars(t *testing.T) {
	if diff := cmp.Diff(&js.Schema{Type: "boolean"}, schemaOf(typestream.Bool())); diff != "" {
		t.Fatalf("bool schema mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&js.Schema{Type: "integer", Format: "int64"}, schemaOf(typestream.Int64())); diff != "" {
		t.Fatalf("int64 schema mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&js.Schema{Type: "number"}, schemaOf(typestream.Float64())); diff != "" {
		t.Fatalf("float64 schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Array(t *testing.T) {
	want := &js.Schema{
		Type:  "array",
		Items: &js.Schema{Type: "array", Items: &js.Schema{Type: "string"}},
	}
	got := schemaOf(typestream.Slice(typestream.Slice(typestream.String())))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Nullable_AnyOf(t *testing.T) {
	want := &js.Schema{
		AnyOf: []*js.Schema{
			{Type: "null"},
			{Type: "integer"},
		},
	}
	got := schemaOf(typestream.Ptr(typestream.Int()))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Map_AdditionalProperties(t *testing.T) {
	want := &js.Schema{
		Type:                 "object",
		Properties:           map[string]*js.Schema{},
		AdditionalProperties: &js.Schema{Type: "integer"},
	}
	got := schemaOf(typestream.Map(typestream.Int()))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Object(t *testing.T) {
	want := &js.Schema{
		Type: "object",
		Properties: map[string]*js.Schema{
			"name": {Type: "string"},
			"age":  {Type: "integer"},
			"tags": {Type: "array", Items: &js.Schema{Type: "string"}},
		},
		Required:             []string{"name"},
		AdditionalProperties: true,
	}
	got := schemaOf(userBinding())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_StrictObject_ClosesProperties(t *testing.T) {
	b := typestream.Object[user]().
		Field("name", typestream.At(func(u *user) *string { return &u.Name }, typestream.String())).
		UnknownStrict().
		MustBind()
	got := schemaOf(b)
	if got.AdditionalProperties != false {
		t.Fatalf("want additionalProperties=false, got %v", got.AdditionalProperties)
	}
}
