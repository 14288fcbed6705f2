package dottree

import "strings"

// SplitKey splits a dotted key into path segments. A '.' is a separator
// unless it is the last byte of the key, is followed by whitespace, or is
// followed by another '.':
//
//	"timezones.Solomon Is."          -> ["timezones", "Solomon Is."]
//	"timezones.Solomon Is.foobar"    -> ["timezones", "Solomon Is", "foobar"]
//	"timezones.Solomon Is..foobar"   -> ["timezones", "Solomon Is.", "foobar"]
//	"timezones.St. Petersburg.x"     -> ["timezones", "St. Petersburg", "x"]
//
// The empty key yields a single empty segment.
func SplitKey(key string) []string {
	segments := make([]string, 0, strings.Count(key, ".")+1)
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] != '.' || i+1 == len(key) {
			continue
		}
		next := key[i+1]
		if next == '.' || isSpace(next) {
			continue
		}
		segments = append(segments, key[start:i])
		start = i + 1
	}
	return append(segments, key[start:])
}

// JoinKey joins segments back into a dotted key. For segments produced by
// SplitKey, SplitKey(JoinKey(s)) == s.
func JoinKey(segments []string) string {
	return strings.Join(segments, ".")
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
