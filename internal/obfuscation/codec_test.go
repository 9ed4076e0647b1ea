package obfuscation

import (
	"reflect"
	"testing"
)

func TestHoldoutExtraLogging(t *testing.T) {
	in := map[string]string{
		"aG9sZG91dEtleQ==":        "c2hvcnQtdGVybS1ob2xkb3V0",
		"aG9sZG91dFZhcmlhdGlvbg==": "c3RhdHVzX3F1bw==",
	}
	want := map[string]string{
		"holdoutKey":        "short-term-holdout",
		"holdoutVariation":  "status_quo",
	}
	got := ExtraLogging(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtraLogging() = %#v, want %#v", got, want)
	}
}

func TestDecodeStringKeepsOriginalOnInvalidBase64(t *testing.T) {
	if got := DecodeString("not-valid-base64!!"); got != "not-valid-base64!!" {
		t.Fatalf("DecodeString() = %q, want original string preserved", got)
	}
}

func TestFlagKeyPlainToObf(t *testing.T) {
	if got := FlagKeyPlainToObf("hello-world"); got != "2095312189753de6ad47dfe20cbe97ec" {
		t.Fatalf("FlagKeyPlainToObf() = %q", got)
	}
}
