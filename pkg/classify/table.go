package classify

import "strings"

// Kind selects how a clause compares a string with its value. The
// numeric values are shared with the C side of the library.
type Kind uint8

const (
	KindNone Kind = iota
	KindPrefix
	KindExact
	KindContains
)

func (k Kind) match(s, v string) bool {
	switch k {
	case KindPrefix:
		return strings.HasPrefix(s, v)
	case KindExact:
		return s == v
	case KindContains:
		return strings.Contains(s, v)
	}
	return false
}

// Clause matches a string when its guard, if any, and its value both
// match.
type Clause struct {
	Kind      Kind
	Value     string
	GuardKind Kind
	Guard     string
}

func (c Clause) Match(s string) bool {
	if c.GuardKind != KindNone && !c.GuardKind.match(s, c.Guard) {
		return false
	}
	return c.Kind.match(s, c.Value)
}

// Table is the flattened form of Rules. It holds only strings and small
// integers so it can be copied into static C storage once and evaluated
// there without the Go runtime.
type Table struct {
	Active bool
	Open   []Clause
	Dlopen []Clause
	Entry  []Clause
}

// Matches reports whether any clause in set matches s. An inactive
// table and an empty s never match.
func (t Table) Matches(set []Clause, s string) bool {
	if !t.Active || s == "" {
		return false
	}
	for _, c := range set {
		if c.Match(s) {
			return true
		}
	}
	return false
}
