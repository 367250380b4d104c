package main

import "errors"

// Run errors
var (
	ErrMissingCommand    = errors.New("missing command")
	ErrLibraryNotFound   = errors.New("could not find libnvidia-hide.so (set LIBNVIDIAHIDE_SO=/full/path/to/libnvidia-hide.so)")
	ErrResolveExecutable = errors.New("resolve executable")
	ErrExec              = errors.New("exec failed")
)

// Status errors
var (
	ErrEncodeStatus = errors.New("encode status")
)
