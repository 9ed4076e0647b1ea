// Package sharding implements the MD5-based deterministic hash that maps a
// subject to a bounded integer bucket, grounded on
// go-server-sdk-evaluation.v1's evaluator_bucketing.go (which does the same
// thing with SHA1 and a 15-hex-character prefix for percentage rollouts).
// spec.md §4.2 specifies MD5 and the first 4 bytes as a big-endian uint32.
package sharding

import (
	"crypto/md5" //nolint:gosec // MD5 is used only as a deterministic, non-cryptographic hash here.
	"encoding/binary"
)

// Shard computes shard_hash(salt, subject, total) mod total, per spec.md
// §4.2. Callers must ensure total > 0.
func Shard(salt, subject string, total int) int {
	sum := md5.Sum([]byte(salt + subject)) //nolint:gosec
	bucket := binary.BigEndian.Uint32(sum[:4])
	return int(bucket % uint32(total))
}

const hexDigits = "0123456789abcdef"

// MD5Hex renders the MD5 digest of x as 32 lowercase hex characters. It
// avoids the per-byte allocation of fmt.Sprintf("%x", ...) or hex.EncodeToString
// on a freshly allocated string, per spec.md §4.2's non-functional requirement,
// by writing directly into a pre-sized byte buffer.
func MD5Hex(x string) string {
	sum := md5.Sum([]byte(x)) //nolint:gosec
	buf := make([]byte, 32)
	for i, b := range sum {
		buf[i*2] = hexDigits[b>>4]
		buf[i*2+1] = hexDigits[b&0x0f]
	}
	return string(buf)
}
