// Package obfuscation implements the Client-format translation layer
// (spec.md §3.7, §4.9): MD5-hex flag-key lookup and base64 value encoding.
// It is kept as a thin wrapper the evaluator calls through rather than a
// second copy of the evaluation logic, per spec.md §9's design note and the
// teacher's general preference for composing small leaf packages
// (sdks.wrapLDClient wraps rather than reimplements the LD client).
package obfuscation

import (
	"encoding/base64"
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/internal/sharding"
)

// FlagKeyPlainToObf returns the MD5-hex lookup key for a plain flag key.
// This is one-way: obfuscated configurations never carry the plain key.
func FlagKeyPlainToObf(key string) string {
	return sharding.MD5Hex(key)
}

// EncodeString returns the base64-standard encoding of a plaintext string,
// as used for variation keys/values, allocation keys, and shard salts in an
// obfuscated configuration.
func EncodeString(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeString decodes a base64-standard string. If b is not valid base64,
// it returns b unchanged per spec.md §9's "keep-original" resolution of the
// extraLogging open question, and per §4.9's note that invalid timestamp
// base64 falls back to plaintext ISO-8601.
func DecodeString(b string) string {
	decoded, err := base64.StdEncoding.DecodeString(b)
	if err != nil {
		return b
	}
	return string(decoded)
}

// DecodeStringStrict decodes a base64-standard string, reporting failure
// rather than falling back, for callers (DecodeTimestamp) that need to
// distinguish "decoded" from "left alone".
func DecodeStringStrict(b string) (string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(b)
	if err != nil {
		return b, false
	}
	return string(decoded), true
}

// DecodeTimestamp parses a base64-encoded ISO-8601 timestamp, falling back
// to parsing b directly as ISO-8601 if it is not valid base64 (spec.md §4.9).
func DecodeTimestamp(b string) (time.Time, error) {
	decoded, ok := DecodeStringStrict(b)
	if !ok {
		decoded = b
	}
	return time.Parse(time.RFC3339Nano, decoded)
}

// ExtraLogging best-effort base64-decodes every key and value of an
// extraLogging map (spec.md §4.9). A decode failure on either the key or the
// value leaves that entry's original (still-encoded) text in place rather
// than dropping the entry, per the "keep-original" resolution in spec.md §9.
func ExtraLogging(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[DecodeString(k)] = DecodeString(v)
	}
	return out
}
