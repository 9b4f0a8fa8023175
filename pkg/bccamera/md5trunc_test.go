package bccamera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S5: login round-trip MD5 truncation.
func TestMD5TruncAdmin(t *testing.T) {
	const full = "21232F297A57A5A743894A0E4A801FC3"
	assert.Equal(t, full, MD5Hex("admin"))
	assert.Equal(t, full[:31], MD5Trunc("admin", Truncate))
	assert.Equal(t, full[:31]+"\x00", MD5Trunc("admin", ZeroLast))
	assert.Len(t, MD5Trunc("admin", Truncate), 31)
	assert.Len(t, MD5Trunc("admin", ZeroLast), 32)
}
