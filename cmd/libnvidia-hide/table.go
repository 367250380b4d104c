package main

/*
#include <stdlib.h>
#include "hooks.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/jingkaihe/nvidia-hide/pkg/classify"
	"github.com/jingkaihe/nvidia-hide/pkg/hide"
)

var publishOnce sync.Once

// publish hands the rules of s to the C hooks. Only the first call has
// an effect.
func publish(s *hide.State) {
	publishOnce.Do(func() {
		C.nvh_publish(newCTable(s.Rules().Table(), s.Settings().Debug, s.Reporter().Enabled()))
	})
}

// newCTable copies t into C memory. The copy is never freed: the hooks
// read it for the lifetime of the process.
func newCTable(t classify.Table, debug, report bool) *C.struct_nvh_table {
	ct := (*C.struct_nvh_table)(C.calloc(1, C.sizeof_struct_nvh_table))
	ct.active = cBool(t.Active)
	ct.debug = cBool(debug)
	ct.report = cBool(report)
	ct.open_rules = newCSet(t.Open)
	ct.dlopen_rules = newCSet(t.Dlopen)
	ct.entry_rules = newCSet(t.Entry)
	return ct
}

func newCSet(clauses []classify.Clause) C.struct_nvh_set {
	if len(clauses) == 0 {
		return C.struct_nvh_set{}
	}
	p := (*C.struct_nvh_clause)(C.calloc(C.size_t(len(clauses)), C.sizeof_struct_nvh_clause))
	dst := unsafe.Slice(p, len(clauses))
	for i, c := range clauses {
		dst[i].kind = C.int(c.Kind)
		dst[i].value = C.CString(c.Value)
		dst[i].guard_kind = C.int(c.GuardKind)
		if c.GuardKind != classify.KindNone {
			dst[i].guard = C.CString(c.Guard)
		}
	}
	return C.struct_nvh_set{v: p, n: C.size_t(len(clauses))}
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// cMatcher evaluates a C table with the same functions the hooks use,
// so tests can hold it against classify.Rules.
type cMatcher struct {
	t *C.struct_nvh_table
}

func (m cMatcher) ShouldBlockOpen(path string) bool {
	return m.call(path, func(s *C.char) C.int { return C.nvh_table_should_block_open(m.t, s) })
}

func (m cMatcher) ShouldBlockDlopen(name string) bool {
	return m.call(name, func(s *C.char) C.int { return C.nvh_table_should_block_dlopen(m.t, s) })
}

func (m cMatcher) IsHiddenEntry(name string) bool {
	return m.call(name, func(s *C.char) C.int { return C.nvh_table_is_hidden_entry(m.t, s) })
}

func (m cMatcher) call(s string, fn func(*C.char) C.int) bool {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return fn(cs) != 0
}
