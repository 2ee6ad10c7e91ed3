package bonefilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
	"golang.org/x/text/width"
)

// serialSuffix matches the ".001" / "_001" suffixes a host appends to
// disambiguate duplicate names.
var serialSuffix = regexp.MustCompile(`[._]\d{3,}$`)

// HasSerialNumber reports whether name carries a numbered-duplicate suffix.
// Full-width digits and separators are folded first.
func HasSerialNumber(name string) bool {
	return serialSuffix.MatchString(width.Fold.String(name))
}

var cjkUnified = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1},
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2a6df, Stride: 1},
		{Lo: 0x2a700, Hi: 0x2ebef, Stride: 1},
		{Lo: 0x30000, Hi: 0x323af, Stride: 1},
	},
}

// kanaMarks are shared-script characters whose names still mark them as kana.
var kanaMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3099, Hi: 0x309c, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30a0, Stride: 1},
		{Lo: 0x30fb, Hi: 0x30fc, Stride: 1},
		{Lo: 0xff70, Hi: 0xff70, Stride: 1},
		{Lo: 0xff9e, Hi: 0xff9f, Stride: 1},
	},
}

var japanese = rangetable.Merge(cjkUnified, unicode.Hiragana, unicode.Katakana, kanaMarks)

// IsJapanese reports whether name contains a CJK unified ideograph, Hiragana
// or Katakana character.
func IsJapanese(name string) bool {
	for _, r := range name {
		if unicode.Is(japanese, r) {
			return true
		}
	}
	return false
}

// IsIKOrNub reports whether name looks like an IK target or an end-of-chain
// helper. Markers are matched case-insensitively as substrings (ik) or
// suffixes (nub); nubSuffix is also matched case-sensitively as an exact suffix.
func IsIKOrNub(name string, ikMarkers, nubMarkers []string, nubSuffix string) bool {
	low := strings.ToLower(name)
	for _, m := range ikMarkers {
		if strings.Contains(low, strings.ToLower(m)) {
			return true
		}
	}
	for _, m := range nubMarkers {
		if strings.HasSuffix(low, strings.ToLower(m)) {
			return true
		}
	}
	return nubSuffix != "" && strings.HasSuffix(name, nubSuffix)
}
