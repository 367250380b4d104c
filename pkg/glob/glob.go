// Package glob matches shell-style patterns against a process identity.
//
// A pattern containing a slash is matched against the full executable
// path; any other pattern is matched against the base name. Matching is
// byte-wise fnmatch(3) with no flags in the C locale: '*' and '?' cross
// '/', leading dots are ordinary characters, braces are literal and a
// '[' without a closing bracket matches itself.
package glob

import "strings"

// Match reports whether pattern matches the identity. Empty, malformed
// or unencodable inputs never match.
func Match(pattern, fullPath, baseName string) bool {
	if pattern == "" {
		return false
	}
	target := baseName
	if strings.Contains(pattern, "/") {
		target = fullPath
	}
	return matchString(pattern, target)
}

// MatchAny returns the first pattern in patterns matching the identity.
func MatchAny(patterns []string, fullPath, baseName string) (string, bool) {
	for _, p := range patterns {
		if Match(p, fullPath, baseName) {
			return p, true
		}
	}
	return "", false
}

// matchString rejects NUL, which cannot occur in a C string, and
// matches the rest.
func matchString(pattern, s string) bool {
	if strings.IndexByte(pattern, 0) >= 0 || strings.IndexByte(s, 0) >= 0 {
		return false
	}
	return fnmatch(pattern, s)
}

// fnmatch matches s against pattern. Every element other than '*'
// consumes exactly one byte, so backtracking to the last star is
// enough.
func fnmatch(pattern, s string) bool {
	px, sx := 0, 0
	starPx, starSx := -1, 0
	for px < len(pattern) || sx < len(s) {
		if px < len(pattern) {
			if pattern[px] == '*' {
				starPx, starSx = px, sx
				px++
				continue
			}
			if sx < len(s) {
				if next, ok := matchOne(pattern, px, s[sx]); ok {
					px = next
					sx++
					continue
				}
			}
		}
		if starPx >= 0 && starSx < len(s) {
			starSx++
			px, sx = starPx+1, starSx
			continue
		}
		return false
	}
	return true
}

// matchOne matches the element at pattern[px] against c and returns the
// index of the next element.
func matchOne(pattern string, px int, c byte) (int, bool) {
	switch pattern[px] {
	case '?':
		return px + 1, true
	case '\\':
		if px+1 >= len(pattern) {
			return px, false
		}
		return px + 2, pattern[px+1] == c
	case '[':
		next, res := bracket(pattern, px+1, c)
		switch res {
		case bracketLiteral:
			return px + 1, c == '['
		case bracketMatch:
			return next, true
		}
		return px, false
	}
	return px + 1, pattern[px] == c
}
