package glob

type bracketResult int

const (
	bracketNoMatch bracketResult = iota
	bracketMatch
	// The '[' has no closing bracket and stands for itself.
	bracketLiteral
)

const eos = 0

// classes are the POSIX character classes of the C locale. Bytes
// outside ASCII belong to none of them.
var classes = map[string]func(byte) bool{
	"alnum":  func(c byte) bool { return isAlpha(c) || isDigit(c) },
	"alpha":  isAlpha,
	"blank":  func(c byte) bool { return c == ' ' || c == '\t' },
	"cntrl":  func(c byte) bool { return c < 0x20 || c == 0x7f },
	"digit":  isDigit,
	"graph":  func(c byte) bool { return c > ' ' && c < 0x7f },
	"lower":  func(c byte) bool { return c >= 'a' && c <= 'z' },
	"print":  func(c byte) bool { return c >= ' ' && c < 0x7f },
	"punct":  func(c byte) bool { return c > ' ' && c < 0x7f && !isAlpha(c) && !isDigit(c) },
	"space":  func(c byte) bool { return c == ' ' || (c >= '\t' && c <= '\r') },
	"upper":  func(c byte) bool { return c >= 'A' && c <= 'Z' },
	"xdigit": func(c byte) bool { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') },
}

func isAlpha(c byte) bool { return c|0x20 >= 'a' && c|0x20 <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// cursor walks a pattern. Reads past the end yield eos, the way a C
// string ends in NUL.
type cursor struct {
	pattern string
	i       int
}

func (c *cursor) at(k int) byte {
	if k < len(c.pattern) {
		return c.pattern[k]
	}
	return eos
}

func (c *cursor) peek() byte { return c.at(c.i) }

func (c *cursor) next() byte {
	b := c.at(c.i)
	c.i++
	return b
}

// bracket matches fn against the bracket expression whose body starts at
// pattern[i], just after the '['. On a match it returns the index after
// the closing ']'.
//
// A ']' right after the opening bracket or its negation is a member, as
// is a '-' that starts or ends the body. "[:name:]" is a class, "[=c=]"
// and "[.c.]" name the single byte c. An unknown class or a malformed
// "[.c.]" fails the bracket. "[:" or "[=" that does not form a class is
// an ordinary '['.
func bracket(pattern string, i int, fn byte) (int, bracketResult) {
	cur := &cursor{pattern: pattern, i: i}
	negate := cur.peek() == '!' || cur.peek() == '^'
	if negate {
		cur.i++
	}

	c := cur.next()
	for {
		member := false
		switch {
		case c == '\\':
			if cur.peek() == eos {
				return 0, bracketNoMatch
			}
			c = cur.next()
			member = true
		case c == '[' && cur.peek() == ':':
			name, end, ok := className(pattern, cur.i)
			if !ok {
				member = true
				break
			}
			class, known := classes[name]
			if !known {
				return 0, bracketNoMatch
			}
			cur.i = end
			if class(fn) {
				return skipRest(cur, negate)
			}
			c = cur.next()
		case c == '[' && cur.peek() == '=':
			sym := cur.at(cur.i + 1)
			if sym == eos || cur.at(cur.i+2) != '=' || cur.at(cur.i+3) != ']' {
				member = true
				break
			}
			cur.i += 4
			if sym == fn {
				return skipRest(cur, negate)
			}
			c = cur.next()
		case c == eos:
			return 0, bracketLiteral
		case c == '[' && cur.peek() == '.':
			sym, ok := collatingSymbol(cur)
			if !ok {
				return 0, bracketNoMatch
			}
			isRange := cur.peek() == '-' && cur.at(cur.i+1) != eos
			if !isRange && sym == fn {
				return skipRest(cur, negate)
			}
			c = cur.next()
			if matched, bad := inRange(cur, &c, sym, fn); bad {
				return 0, bracketNoMatch
			} else if matched {
				return skipRest(cur, negate)
			}
		default:
			member = true
		}

		if member {
			isRange := cur.peek() == '-' && cur.at(cur.i+1) != eos && cur.at(cur.i+1) != ']'
			if !isRange && c == fn {
				return skipRest(cur, negate)
			}
			lo := c
			c = cur.next()
			if matched, bad := inRange(cur, &c, lo, fn); bad {
				return 0, bracketNoMatch
			} else if matched {
				return skipRest(cur, negate)
			}
		}

		if c == ']' {
			break
		}
	}
	if negate {
		return cur.i, bracketMatch
	}
	return 0, bracketNoMatch
}

// inRange completes the range lo-hi when *c is its '-', leaving *c at
// the element after hi. bad reports a range with no upper bound.
func inRange(cur *cursor, c *byte, lo, fn byte) (matched, bad bool) {
	if *c != '-' || cur.peek() == ']' {
		return false, false
	}
	hi := cur.next()
	if hi == '\\' {
		hi = cur.next()
	}
	if hi == eos {
		return false, true
	}
	if lo <= fn && fn <= hi {
		return true, false
	}
	*c = cur.next()
	return false, false
}

// collatingSymbol reads "[.c.]" with the cursor at the first '.'. Only
// single-byte symbols exist in the C locale.
func collatingSymbol(cur *cursor) (byte, bool) {
	start := cur.i
	j := start
	for {
		j++
		if cur.at(j) == eos {
			return 0, false
		}
		if cur.at(j) == '.' && cur.at(j+1) == ']' {
			break
		}
	}
	if j-(start+1) != 1 {
		return 0, false
	}
	cur.i = j + 2
	return cur.at(start + 1), true
}

// className reads "[:name:]" with pattern[i] at the first ':'. ok is
// false when the text cannot be a class name.
func className(pattern string, i int) (name string, end int, ok bool) {
	for j := i + 1; j < len(pattern); j++ {
		ch := pattern[j]
		if ch == ':' && j+1 < len(pattern) && pattern[j+1] == ']' {
			return pattern[i+1 : j], j + 2, true
		}
		if ch < 'a' || ch >= 'z' {
			return "", 0, false
		}
	}
	return "", 0, false
}

// skipRest steps over the members left after a match up to the closing
// ']'. A body that never closes loses.
func skipRest(cur *cursor, negate bool) (int, bracketResult) {
	for {
		c := cur.next()
		if c == ']' {
			break
		}
		switch {
		case c == eos:
			return 0, bracketNoMatch
		case c == '\\':
			if cur.next() == eos {
				return 0, bracketNoMatch
			}
		case c == '[' && cur.peek() == ':':
			if _, end, ok := className(cur.pattern, cur.i); ok {
				cur.i = end
			}
		case c == '[' && cur.peek() == '=':
			if cur.at(cur.i+1) == eos || cur.at(cur.i+2) != '=' || cur.at(cur.i+3) != ']' {
				return 0, bracketNoMatch
			}
			cur.i += 4
		case c == '[' && cur.peek() == '.':
			j := cur.i
			for {
				j++
				if cur.at(j) == eos {
					return 0, bracketNoMatch
				}
				if cur.at(j) == '.' && cur.at(j+1) == ']' {
					break
				}
			}
			cur.i = j + 2
		}
	}
	if negate {
		return 0, bracketNoMatch
	}
	return cur.i, bracketMatch
}
