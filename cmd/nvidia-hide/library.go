package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Library file names, preferred first.
var libraryNames = []string{"libnvidia-hide.so", "libnvidia_hide.so"}

var systemLibraryDirs = []string{"/usr/lib", "/usr/local/lib", "/lib"}

// libraryCandidates lists where to look for the library, in order: the
// override, next to the launcher, ../lib relative to it, then the
// system library directories.
func libraryCandidates(override, exeDir string) []string {
	var out []string
	if override != "" {
		out = append(out, override)
	}
	if exeDir != "" {
		for _, name := range libraryNames {
			out = append(out, filepath.Join(exeDir, name))
		}
		for _, name := range libraryNames {
			out = append(out, filepath.Join(exeDir, "..", "lib", name))
		}
	}
	for _, dir := range systemLibraryDirs {
		for _, name := range libraryNames {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

// resolveLibrary returns the first candidate that is a regular file.
// An override that does not exist falls through to the other
// locations.
func resolveLibrary(fs afero.Fs, override, exeDir string) (string, error) {
	for _, p := range libraryCandidates(override, exeDir) {
		info, err := fs.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		return p, nil
	}
	return "", ErrLibraryNotFound
}

// executableDir is the directory holding the running launcher, or ""
// when it cannot be determined.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
