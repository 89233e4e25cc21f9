package typestream_test

import (
	"context"
	"encoding/json"
	"testing"

	typestream "github.com/typestream/typestream"
)

func TestScalars_Decode(t *testing.T) {
	ctx := context.Background()

	if v, err := typestream.ParseBytes(ctx, typestream.Bool(), []byte(`true`)); err != nil || v != true {
		t.Fatalf("bool: got %v, %v", v, err)
	}
	if v, err := typestream.ParseBytes(ctx, typestream.String(), []byte(`"hi"`)); err != nil || v != "hi" {
		t.Fatalf("string: got %q, %v", v, err)
	}
	if v, err := typestream.ParseBytes(ctx, typestream.Int(), []byte(`-3`)); err != nil || v != -3 {
		t.Fatalf("int: got %d, %v", v, err)
	}
	if v, err := typestream.ParseBytes(ctx, typestream.Uint64(), []byte(`18446744073709551615`)); err != nil || v != 18446744073709551615 {
		t.Fatalf("uint64: got %d, %v", v, err)
	}
	if v, err := typestream.ParseBytes(ctx, typestream.Float64(), []byte(`2.5`)); err != nil || v != 2.5 {
		t.Fatalf("float64: got %v, %v", v, err)
	}
	// Integer events promote to float64 without loss of intent.
	if v, err := typestream.ParseBytes(ctx, typestream.Float64(), []byte(`4`)); err != nil || v != 4 {
		t.Fatalf("float64 from int: got %v, %v", v, err)
	}
}

func TestScalars_Mismatch(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		parse func() error
	}{
		{"bool from string", func() error {
			_, err := typestream.ParseBytes(ctx, typestream.Bool(), []byte(`"true"`))
			return err
		}},
		{"int from double", func() error {
			_, err := typestream.ParseBytes(ctx, typestream.Int(), []byte(`1.5`))
			return err
		}},
		{"string from number", func() error {
			_, err := typestream.ParseBytes(ctx, typestream.String(), []byte(`3`))
			return err
		}},
		{"int from null", func() error {
			_, err := typestream.ParseBytes(ctx, typestream.Int(), []byte(`null`))
			return err
		}},
	}
	for _, tc := range cases {
		err := tc.parse()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		iss, _ := typestream.AsIssues(err)
		if len(iss) != 1 || iss[0].Code != typestream.CodeInvalidType {
			t.Fatalf("%s: want invalid_type, got %v", tc.name, err)
		}
	}
}

func TestScalars_Overflow(t *testing.T) {
	ctx := context.Background()

	if _, err := typestream.ParseBytes(ctx, typestream.Uint(), []byte(`-1`)); err == nil {
		t.Fatalf("uint from -1: expected error")
	} else if iss, _ := typestream.AsIssues(err); len(iss) != 1 || iss[0].Code != typestream.CodeOverflow {
		t.Fatalf("uint from -1: want overflow, got %v", err)
	}

	if _, err := typestream.ParseBytes(ctx, typestream.Int64(), []byte(`18446744073709551615`)); err == nil {
		t.Fatalf("int64 from max uint64: expected error")
	} else if iss, _ := typestream.AsIssues(err); len(iss) != 1 || iss[0].Code != typestream.CodeOverflow {
		t.Fatalf("int64 from max uint64: want overflow, got %v", err)
	}
}

func TestNumber_PreservesText(t *testing.T) {
	ctx := context.Background()
	v, err := typestream.ParseBytes(ctx, typestream.Number(), []byte(`42`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != json.Number("42") {
		t.Fatalf("want 42, got %q", v)
	}

	out, err := typestream.Marshal(typestream.Number(), &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `42` {
		t.Fatalf("want 42, got %s", out)
	}
}

func TestScalars_WriteRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		run  func() (string, error)
		want string
	}{
		{"bool", func() (string, error) {
			v := true
			out, err := typestream.Marshal(typestream.Bool(), &v)
			return string(out), err
		}, `true`},
		{"string", func() (string, error) {
			v := "a\"b"
			out, err := typestream.Marshal(typestream.String(), &v)
			return string(out), err
		}, `"a\"b"`},
		{"int64", func() (string, error) {
			v := int64(-9)
			out, err := typestream.Marshal(typestream.Int64(), &v)
			return string(out), err
		}, `-9`},
		{"float64", func() (string, error) {
			v := 0.25
			out, err := typestream.Marshal(typestream.Float64(), &v)
			return string(out), err
		}, `0.25`},
	}
	for _, tc := range cases {
		got, err := tc.run()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}
