package i18n_test

import (
	"testing"

	"github.com/typestream/typestream/i18n"
)

func TestDefaultMessages(t *testing.T) {
	if got := i18n.T("invalid_type", nil); got != "invalid type" {
		t.Fatalf("want %q, got %q", "invalid type", got)
	}
	if got := i18n.T("required", nil); got != "required property missing" {
		t.Fatalf("want %q, got %q", "required property missing", got)
	}
}

func TestUnknownCode_FallsBackToCode(t *testing.T) {
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("want code echoed back, got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := i18n.T("required", nil); got != "必須プロパティが不足しています" {
		t.Fatalf("unexpected ja message: %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, _ map[string]string) string { return "E:" + code }

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	defer i18n.SetTranslator(nil)
	if got := i18n.T("overflow", nil); got != "E:overflow" {
		t.Fatalf("want custom translator output, got %q", got)
	}
}
