package main

/*
#cgo CFLAGS: -D_GNU_SOURCE -U_FORTIFY_SOURCE
#cgo LDFLAGS: -ldl
#include "hooks.h"
*/
import "C"

import (
	"github.com/jingkaihe/nvidia-hide/pkg/hide"
)

// nvhEnsureInit returns once the rule table is published. cgo holds the
// call until package initialisation has finished.
//
//export nvhEnsureInit
func nvhEnsureInit() {
	publish(hide.Current())
}

//export nvhReportDeny
func nvhReportDeny(op, target *C.char) {
	hide.Current().Reporter().Denied(C.GoString(op), C.GoString(target))
}
