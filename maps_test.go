package typestream_test

import (
	"context"
	"reflect"
	"testing"

	typestream "github.com/typestream/typestream"
)

func TestMap_Ints_Success(t *testing.T) {
	ctx := context.Background()
	v, err := typestream.ParseBytes(ctx, typestream.Map(typestream.Int()), []byte(`{"a":1,"b":2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := map[string]int{"a": 1, "b": 2}; !reflect.DeepEqual(v, want) {
		t.Fatalf("want %v, got %v", want, v)
	}
}

func TestMap_DuplicateKey_LastWins(t *testing.T) {
	ctx := context.Background()
	v, err := typestream.ParseBytes(ctx, typestream.Map(typestream.Int()), []byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["a"] != 2 {
		t.Fatalf("want last value 2, got %d", v["a"])
	}
}

func TestMultiMap_DuplicateKey_Appends(t *testing.T) {
	ctx := context.Background()
	v, err := typestream.ParseBytes(ctx, typestream.MultiMap(typestream.Int()), []byte(`{"a":1,"b":9,"a":2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(v["a"], want) {
		t.Fatalf("want a=%v, got %v", want, v["a"])
	}
	if want := []int{9}; !reflect.DeepEqual(v["b"], want) {
		t.Fatalf("want b=%v, got %v", want, v["b"])
	}
}

func TestMap_NestedValues(t *testing.T) {
	ctx := context.Background()
	b := typestream.Map(typestream.Slice(typestream.Int()))
	v, err := typestream.ParseBytes(ctx, b, []byte(`{"xs":[1,2],"ys":[3]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(v["xs"], []int{1, 2}) || !reflect.DeepEqual(v["ys"], []int{3}) {
		t.Fatalf("got %v", v)
	}
}

func TestMap_MapOfMap(t *testing.T) {
	ctx := context.Background()
	b := typestream.Map(typestream.Map(typestream.Int()))
	v, err := typestream.ParseBytes(ctx, b, []byte(`{"outer":{"inner":5}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["outer"]["inner"] != 5 {
		t.Fatalf("want 5, got %v", v)
	}
}

func TestMap_MemberError_Path(t *testing.T) {
	ctx := context.Background()
	_, err := typestream.ParseBytes(ctx, typestream.Map(typestream.Int()), []byte(`{"ok":1,"bad":"x"}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, _ := typestream.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/bad" {
		t.Fatalf("want path /bad, got %v", err)
	}
	if iss[0].Code != typestream.CodeInvalidType {
		t.Fatalf("want invalid_type, got %q", iss[0].Code)
	}
}

func TestMap_PointerEscapedKey_Path(t *testing.T) {
	ctx := context.Background()
	_, err := typestream.ParseBytes(ctx, typestream.Map(typestream.Int()), []byte(`{"a/b":true}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, _ := typestream.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a~1b" {
		t.Fatalf("want path /a~1b, got %v", err)
	}
}

func TestMap_ScalarInput_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	_, err := typestream.ParseBytes(ctx, typestream.Map(typestream.Int()), []byte(`[1]`))
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, _ := typestream.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != typestream.CodeInvalidType {
		t.Fatalf("want invalid_type, got %v", err)
	}
}

func TestMap_HandlerReuse(t *testing.T) {
	ctx := context.Background()
	b := typestream.Map(typestream.String())
	var v map[string]string
	h := b(&v)

	if err := typestream.Decode(ctx, typestream.JSONBytes([]byte(`{"a":"1"}`)), h); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	h.Reset()
	if v != nil {
		t.Fatalf("reset should clear the bound map, got %v", v)
	}
	if err := typestream.Decode(ctx, typestream.JSONBytes([]byte(`{"b":"2"}`)), h); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if want := map[string]string{"b": "2"}; !reflect.DeepEqual(v, want) {
		t.Fatalf("want %v, got %v", want, v)
	}
}

func TestMap_Write_SortedKeys(t *testing.T) {
	b := typestream.Map(typestream.Int())
	v := map[string]int{"b": 2, "a": 1, "c": 3}
	out, err := typestream.Marshal(b, &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"a":1,"b":2,"c":3}`; string(out) != want {
		t.Fatalf("want %s, got %s", want, out)
	}
}

func TestMultiMap_Write_RepeatsKeys(t *testing.T) {
	b := typestream.MultiMap(typestream.Int())
	v := map[string][]int{"a": {1, 2}}
	out, err := typestream.Marshal(b, &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"a":1,"a":2}`; string(out) != want {
		t.Fatalf("want %s, got %s", want, out)
	}
}
