package typestream

import (
	"errors"
	"testing"
)

func TestIssueFromHandlerError_PathAndCode(t *testing.T) {
	err := &ElementError{Index: 2, Err: &MemberError{Key: "name", Err: &TypeMismatchError{Expected: "int", Actual: "string"}}}
	iss := issueFromHandlerError(err, 17)
	if iss.Path != "/2/name" {
		t.Fatalf("want path /2/name, got %q", iss.Path)
	}
	if iss.Code != CodeInvalidType {
		t.Fatalf("want invalid_type, got %q", iss.Code)
	}
	if iss.Offset != 17 {
		t.Fatalf("want offset 17, got %d", iss.Offset)
	}
	if iss.Params["expected"] != "int" || iss.Params["actual"] != "string" {
		t.Fatalf("params not carried: %v", iss.Params)
	}
	var tm *TypeMismatchError
	if !errors.As(iss.Cause, &tm) {
		t.Fatalf("cause should unwrap to the leaf, got %T", iss.Cause)
	}
}

func TestIssueFromHandlerError_EscapesSegments(t *testing.T) {
	err := &MemberError{Key: "a/b~c", Err: &RequiredError{}}
	iss := issueFromHandlerError(err, -1)
	if iss.Path != "/a~1b~0c" {
		t.Fatalf("want RFC 6901 escaping, got %q", iss.Path)
	}
	if iss.Code != CodeRequired {
		t.Fatalf("want required, got %q", iss.Code)
	}
}

func TestIssueFromHandlerError_UnknownLeaf_IsParseError(t *testing.T) {
	iss := issueFromHandlerError(errors.New("boom"), -1)
	if iss.Code != CodeParseError {
		t.Fatalf("want parse_error, got %q", iss.Code)
	}
	if iss.Path != "/" {
		t.Fatalf("want root path, got %q", iss.Path)
	}
}

func TestAppendIssues_InitializesNil(t *testing.T) {
	iss := AppendIssues(nil, Issue{Path: "/", Code: CodeParseError})
	if len(iss) != 1 {
		t.Fatalf("want one issue, got %d", len(iss))
	}
}

func TestAsIssues(t *testing.T) {
	iss := Issues{{Path: "/", Code: CodeTruncated}}
	got, ok := AsIssues(error(iss))
	if !ok || len(got) != 1 {
		t.Fatalf("want extraction to succeed, got %v %v", got, ok)
	}
	if _, ok := AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no issues")
	}
	if _, ok := AsIssues(nil); ok {
		t.Fatalf("nil carries no issues")
	}
}
