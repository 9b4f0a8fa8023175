package bccamera

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// TruncMode selects one of the BC login handshake's two MD5-hex
// truncation quirks (§9 "MD5 legacy quirk" — the two modes must not be
// normalized into one another).
type TruncMode uint8

const (
	// Truncate drops the digest's last hex character, returning 31
	// uppercase hex characters — used inside modern-login XML fields.
	Truncate TruncMode = iota
	// ZeroLast keeps the digest at 31 characters plus a trailing NUL byte,
	// filling the legacy packet's fixed 32-byte username/password buffer.
	ZeroLast
)

// MD5Hex returns the uppercase-hex MD5 digest of s (32 characters).
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// MD5Trunc returns MD5Hex(s) truncated per mode.
func MD5Trunc(s string, mode TruncMode) string {
	h := MD5Hex(s)[:31]
	if mode == ZeroLast {
		return h + "\x00"
	}
	return h
}
