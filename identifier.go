package variants

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

const idHashLength = 6

// ID derives the identifier scoping a definition's CSS selectors. The suffix is
// the 31-multiplier rolling hash of the comma-joined options computed over
// UTF-16 code units with int32 wraparound, so it matches identifiers produced by
// the browser-side implementation for the same definition.
func ID(key string, options []string) string {
	return key + "-" + optionsHash(options)
}

func optionsHash(options []string) string {
	var acc int32
	for _, unit := range utf16.Encode([]rune(strings.Join(options, ","))) {
		acc = acc<<5 - acc + int32(unit)
	}
	abs := int64(acc)
	if abs < 0 {
		abs = -abs
	}
	encoded := strconv.FormatInt(abs, 36)
	if len(encoded) > idHashLength {
		encoded = encoded[:idHashLength]
	}
	return encoded
}
