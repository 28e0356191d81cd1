package ingest

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode turns uploaded bytes into text. A UTF-8 or UTF-16 byte order mark
// selects the encoding and is removed; otherwise the bytes are taken as
// UTF-8. Invalid bytes in unmarked input are dropped.
func Decode(b []byte) string {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), b)
	if err != nil {
		out = b
	}
	return strings.ToValidUTF8(string(out), "")
}
