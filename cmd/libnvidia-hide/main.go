// Command libnvidia-hide is the preloadable library that hides the
// NVIDIA discrete GPU from the process it is loaded into.
//
//	go build -buildmode=c-shared -o libnvidia-hide.so ./cmd/libnvidia-hide
//	LD_PRELOAD=$PWD/libnvidia-hide.so vulkaninfo --summary
//
// Package initialisation evaluates the activation policy, discovers the
// devices to hide and publishes the resulting rule table to the C hooks
// in hooks.c, which serve every later call without the Go runtime.
package main

import "github.com/jingkaihe/nvidia-hide/pkg/hide"

func init() {
	publish(hide.Init(hide.FromEnvironment()))
}

func main() {}
