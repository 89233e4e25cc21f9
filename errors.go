package typestream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/typestream/typestream/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType = "invalid_type"
	CodeOverflow    = "overflow"
	CodeRequired    = "required"
	CodeUnknownKey  = "unknown_key"
	CodeParseError  = "parse_error"
	CodeTruncated   = "truncated"
)

// Issue represents a single decode failure entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Underlying handler error chain, when available.
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"expected":"int64",
	// "actual":"string"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of decode failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Cause != nil {
			fmt.Fprintf(b, ": %v", it.Cause)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ---- handler error records ----
//
// Handlers report failure by returning an error whose Unwrap chain carries
// the structural context, outermost container first and innermost cause
// last. ElementError and MemberError are the context frames; the leaf is a
// TypeMismatchError, an OverflowError, or a collaborator failure.

// TypeMismatchError reports an event of the wrong kind for the current
// structural position.
type TypeMismatchError struct {
	Expected string // type name of the handler that rejected the event
	Actual   string // event kind that arrived
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// OverflowError reports a numeric event whose value is not representable by
// the bound type.
type OverflowError struct {
	Type  string // type name of the bound value
	Value string // the offending value, as text
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s cannot represent %s", e.Type, e.Value)
}

// ElementError wraps a failure at a specific array index.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string { return fmt.Sprintf("[%d]: %v", e.Index, e.Err) }
func (e *ElementError) Unwrap() error { return e.Err }

// MemberError wraps a failure at a specific object key.
type MemberError struct {
	Key string
	Err error
}

func (e *MemberError) Error() string { return fmt.Sprintf("[%q]: %v", e.Key, e.Err) }
func (e *MemberError) Unwrap() error { return e.Err }

// RequiredError reports a required object member that never arrived.
type RequiredError struct{}

func (*RequiredError) Error() string { return "required member missing" }

// UnknownKeyError reports a key rejected by a strict object handler.
type UnknownKeyError struct{ Key string }

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("unknown key %q", e.Key) }

// issueFromHandlerError drains a handler error chain into a single Issue:
// the context frames become the JSON Pointer path, the leaf becomes the code
// and message.
func issueFromHandlerError(err error, off int64) Issue {
	var b strings.Builder
	cur := err
	for {
		switch e := cur.(type) {
		case *ElementError:
			b.WriteByte('/')
			b.WriteString(strconv.Itoa(e.Index))
			cur = e.Err
			continue
		case *MemberError:
			b.WriteByte('/')
			b.WriteString(escapePointerSegment(e.Key))
			cur = e.Err
			continue
		}
		break
	}
	path := b.String()
	if path == "" {
		path = "/"
	}
	code := CodeParseError
	var params map[string]any
	switch e := cur.(type) {
	case *TypeMismatchError:
		code = CodeInvalidType
		params = map[string]any{"expected": e.Expected, "actual": e.Actual}
	case *OverflowError:
		code = CodeOverflow
		params = map[string]any{"type": e.Type, "value": e.Value}
	case *RequiredError:
		code = CodeRequired
	case *UnknownKeyError:
		code = CodeUnknownKey
		params = map[string]any{"key": e.Key}
	}
	return Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, nil),
		Cause:   cur,
		Offset:  off,
		Params:  params,
	}
}

// escapePointerSegment applies RFC 6901 escaping to one path segment.
func escapePointerSegment(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func toIssues(err error, off int64) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err, Offset: off})
}
